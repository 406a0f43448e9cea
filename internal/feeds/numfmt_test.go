package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
)

func TestParseTurkish(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"35,18", 35.18},
		{"35.018,50", 35018.50},
		{"4.250,50", 4250.50},
		{"35.18", 35.18},
		{"4010", 4010},
		{"%0,57", 0.57},
		{"-1,25", -1.25},
		{"₺4.250,50", 4250.50},
		{"35,18 TL", 35.18},
		{"1.234.567,89", 1234567.89},
	}
	for _, tc := range cases {
		got, err := ParseTurkish(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseTurkishErrors(t *testing.T) {
	for _, in := range []string{"", "-", "abc", "₺"} {
		_, err := ParseTurkish(in)
		assert.ErrorIs(t, err, engine.ErrParse, "input %q", in)
	}
}
