package engine

import (
	"fmt"
	"math"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// Unit divisors for sources that quote per troy ounce while the canonical
// unit is per gram.
const (
	TroyOunceGrams   = 31.1035 // gold
	OunceDivisorAgPt = 32.1507 // silver, platinum, palladium
)

// Round2 rounds to two decimals, half away from zero. It is a fixed point:
// Round2(Round2(x)) == Round2(x).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScaleSeries converts a foreign-currency series into canonical units by
// pairing it element-wise with an FX series. The two series are aligned by
// trailing position: both are truncated from the front to the shorter length
// before pairing. divisor (if > 0) converts the quoted unit, e.g. troy ounce
// to gram.
func ScaleSeries(foreign, fx []float64, divisor float64) []float64 {
	n := len(foreign)
	if len(fx) < n {
		n = len(fx)
	}
	if n == 0 {
		return nil
	}
	if divisor <= 0 {
		divisor = 1
	}
	out := make([]float64, n)
	fo := foreign[len(foreign)-n:]
	fr := fx[len(fx)-n:]
	for i := 0; i < n; i++ {
		out[i] = Round2(fo[i] * fr[i] / divisor)
	}
	return out
}

// DivideSeries applies a unit divisor to a series already expressed in the
// canonical currency.
func DivideSeries(series []float64, divisor float64) []float64 {
	if divisor <= 0 || divisor == 1 {
		out := make([]float64, len(series))
		for i, v := range series {
			out[i] = Round2(v)
		}
		return out
	}
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = Round2(v / divisor)
	}
	return out
}

// NormalizeQuote converts a raw quote into the canonical currency using the
// trailing rate of the FX series. Quotes already in the canonical currency
// pass through (unit divisor still applies). A missing FX series or a
// non-positive/NaN price fails with ErrInsufficientReferenceData so the
// asset's prior stored value is left untouched.
func NormalizeQuote(q models.RawQuote, fx []float64, canonical string) (models.NormalizedQuote, error) {
	if q.Price <= 0 || math.IsNaN(q.Price) {
		return models.NormalizedQuote{}, fmt.Errorf("%s %s: price %v: %w",
			q.Source, q.AssetKey, q.Price, ErrInsufficientReferenceData)
	}

	divisor := q.UnitDivisor
	if divisor <= 0 {
		divisor = 1
	}

	rate := 1.0
	if q.Currency != canonical {
		if len(fx) == 0 {
			return models.NormalizedQuote{}, fmt.Errorf("%s %s: no FX series for %s->%s: %w",
				q.Source, q.AssetKey, q.Currency, canonical, ErrInsufficientReferenceData)
		}
		rate = fx[len(fx)-1]
	}

	n := models.NormalizedQuote{
		Source:        q.Source,
		AssetKey:      q.AssetKey,
		Price:         Round2(q.Price * rate / divisor),
		ChangePercent: q.ChangePercent,
		HasChange:     q.HasChange,
		AsOf:          q.AsOf,
	}
	if q.Buying > 0 && !math.IsNaN(q.Buying) {
		n.Buying = Round2(q.Buying * rate / divisor)
	}
	return n, nil
}

// NormalizeSeries converts a raw series into canonical units, scaling by the
// FX series when the source currency differs from the canonical one.
func NormalizeSeries(s models.RawSeries, fx []float64, canonical string) []float64 {
	if len(s.Points) == 0 {
		return nil
	}
	if s.Currency == canonical {
		return DivideSeries(s.Points, s.UnitDivisor)
	}
	return ScaleSeries(s.Points, fx, s.UnitDivisor)
}
