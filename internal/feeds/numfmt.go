package feeds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
)

var trSymbolReplacer = strings.NewReplacer(
	"₺", "", "$", "", "€", "", "£", "", "¥", "",
	"%", "", " ", "", " ", "",
)

// ParseTurkish parses Turkish-formatted numbers as the vendors emit them:
// "35,18", "35.018,50" (dot thousands separator), plain "35.18", with
// optional currency symbols, percent signs and a "TL" suffix.
func ParseTurkish(val string) (float64, error) {
	s := trSymbolReplacer.Replace(val)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "TL"), "tl")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty value %q: %w", val, engine.ErrParse)
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// "35.018,50": dots are thousands separators.
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", val, engine.ErrParse)
	}
	return f, nil
}
