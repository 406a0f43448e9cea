package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 6825.87, Round2(6825.871))
	assert.Equal(t, 6808.00, Round2(6808.0))
	assert.Equal(t, 0.13, Round2(0.125), "half rounds away from zero")
	assert.Equal(t, -0.13, Round2(-0.125), "negative half rounds away from zero")
}

func TestRound2FixedPoint(t *testing.T) {
	for _, v := range []float64{6825.871, 0.125, -0.125, 35.018, 1234.5678, 0.004999} {
		once := Round2(v)
		assert.Equal(t, once, Round2(once), "Round2(%v) must be stable", v)
	}
}

func TestScaleSeriesTrailingAlignment(t *testing.T) {
	// FX series is shorter: both series are truncated from the front so the
	// most recent points pair up.
	out := ScaleSeries([]float64{10, 20, 30}, []float64{2, 3}, 0)
	assert.Equal(t, []float64{40, 90}, out)

	// Foreign series is shorter.
	out = ScaleSeries([]float64{20, 30}, []float64{1, 2, 3}, 0)
	assert.Equal(t, []float64{40, 90}, out)
}

func TestScaleSeriesDivisor(t *testing.T) {
	out := ScaleSeries([]float64{TroyOunceGrams}, []float64{1}, TroyOunceGrams)
	assert.Equal(t, []float64{1}, out)
}

func TestScaleSeriesEmpty(t *testing.T) {
	assert.Nil(t, ScaleSeries([]float64{1, 2}, nil, 0))
	assert.Nil(t, ScaleSeries(nil, []float64{1, 2}, 0))
}

func TestDivideSeries(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5}, DivideSeries([]float64{2, 5}, 2))
	assert.Equal(t, []float64{2, 5}, DivideSeries([]float64{2, 5}, 1))
	assert.Equal(t, []float64{2, 5}, DivideSeries([]float64{2, 5}, 0))
}

func TestNormalizeQuotePassthrough(t *testing.T) {
	q := models.RawQuote{Source: "truncgil", AssetKey: "gram-altin", Price: 4010.504, Buying: 4000.006, Currency: "TRY"}

	n, err := NormalizeQuote(q, nil, "TRY")
	require.NoError(t, err)
	assert.Equal(t, 4010.50, n.Price)
	assert.Equal(t, 4000.01, n.Buying)
}

func TestNormalizeQuoteForeignCurrency(t *testing.T) {
	q := models.RawQuote{
		Source:      "yahoo",
		AssetKey:    "gram-altin",
		Price:       2000,
		Currency:    "USD",
		UnitDivisor: TroyOunceGrams,
	}

	// Trailing FX rate is used, not the first one.
	n, err := NormalizeQuote(q, []float64{40, 41}, "TRY")
	require.NoError(t, err)
	assert.InDelta(t, 2636.36, n.Price, 0.001)
}

func TestNormalizeQuoteErrors(t *testing.T) {
	_, err := NormalizeQuote(models.RawQuote{Price: 0, Currency: "TRY"}, nil, "TRY")
	assert.ErrorIs(t, err, ErrInsufficientReferenceData)

	_, err = NormalizeQuote(models.RawQuote{Price: -5, Currency: "TRY"}, nil, "TRY")
	assert.ErrorIs(t, err, ErrInsufficientReferenceData)

	// Foreign quote with no FX reference series must not pass through.
	_, err = NormalizeQuote(models.RawQuote{Price: 2000, Currency: "USD"}, nil, "TRY")
	assert.ErrorIs(t, err, ErrInsufficientReferenceData)
}

func TestNormalizeSeries(t *testing.T) {
	s := models.RawSeries{Points: []float64{100, 200}, Currency: "TRY"}
	assert.Equal(t, []float64{100, 200}, NormalizeSeries(s, nil, "TRY"))

	s = models.RawSeries{Points: []float64{100, 200}, Currency: "USD"}
	assert.Equal(t, []float64{4000, 8200}, NormalizeSeries(s, []float64{40, 41}, "TRY"))

	assert.Nil(t, NormalizeSeries(models.RawSeries{Currency: "TRY"}, nil, "TRY"))
}
