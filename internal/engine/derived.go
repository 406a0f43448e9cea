package engine

import (
	"fmt"
	"sort"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// Deriver computes dependent instrument series from a base series via fixed
// per-instrument multipliers. Recomputation is deterministic: the same base
// series always yields the bit-identical dependent series.
type Deriver struct {
	table map[string]models.DerivedSpec
}

// NewDeriver creates a deriver over a multiplier table.
func NewDeriver(table map[string]models.DerivedSpec) *Deriver {
	return &Deriver{table: table}
}

// Table returns the multiplier table.
func (d *Deriver) Table() map[string]models.DerivedSpec { return d.table }

// Keys returns the dependent keys in sorted order, so fan-out order is
// deterministic.
func (d *Deriver) Keys() []string {
	keys := make([]string, 0, len(d.table))
	for k := range d.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ComputeSeries produces the dependent series from a base series:
// out[i] = Round2(base[i] * multiplier).
func ComputeSeries(base []float64, multiplier float64) []float64 {
	out := make([]float64, len(base))
	for i, v := range base {
		out[i] = Round2(v * multiplier)
	}
	return out
}

// Rebuild replaces the dependent's history with the series derived from the
// base record's full history, setting current and selling from the tail and
// defaulting buying to selling. An empty base series leaves the dependent
// untouched and returns ErrMissingBaseSeries.
func (d *Deriver) Rebuild(dep, base *models.AssetRecord, multiplier float64) error {
	if base == nil || len(base.History) == 0 {
		return fmt.Errorf("%s: base %v empty: %w", dep.Key, baseKey(base), ErrMissingBaseSeries)
	}

	dep.History = ComputeSeries(base.History, multiplier)
	last := dep.History[len(dep.History)-1]
	dep.Current = last
	dep.Selling = last
	dep.Buying = last
	if len(dep.History) >= 2 {
		prev := dep.History[len(dep.History)-2]
		if prev > 0 {
			dep.ChangePercent = Round2((last - prev) / prev * 100)
		}
	}
	return nil
}

// Price returns the dependent's current price derived from the base's
// current price.
func Price(base *models.AssetRecord, multiplier float64) (float64, error) {
	if base == nil || base.Current <= 0 {
		return 0, fmt.Errorf("base %v has no current price: %w", baseKey(base), ErrMissingBaseSeries)
	}
	return Round2(base.Current * multiplier), nil
}

func baseKey(base *models.AssetRecord) string {
	if base == nil {
		return "<nil>"
	}
	return base.Key
}
