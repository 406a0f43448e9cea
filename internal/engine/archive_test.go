package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

func newGoldRecord() *models.AssetRecord {
	return models.NewAssetRecord("gram-altin", "Gram Altın", "GRAM", models.AssetTypeGold)
}

func at(day, hour, min int) time.Time {
	return time.Date(2026, time.March, day, hour, min, 0, 0, time.UTC)
}

func TestApplyFirstObservation(t *testing.T) {
	rec := newGoldRecord()
	a := NewArchiver(365)

	state, err := a.Apply(rec, 4010.50, at(10, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, DayBoundaryCrossed, state)
	assert.Equal(t, []float64{4010.50}, rec.History)
	assert.Empty(t, rec.Intraday)
}

func TestApplyWithinHourIsNoop(t *testing.T) {
	rec := newGoldRecord()
	rec.History = []float64{4000}
	rec.Intraday = []float64{4005}
	rec.LastObservedAt = at(10, 9, 10)
	a := NewArchiver(365)

	state, err := a.Apply(rec, 4010.50, at(10, 9, 40))
	require.NoError(t, err)
	assert.Equal(t, WithinHour, state)
	assert.Equal(t, []float64{4000}, rec.History)
	assert.Equal(t, []float64{4005}, rec.Intraday)
}

func TestApplyHourBoundaryAppendsIntraday(t *testing.T) {
	rec := newGoldRecord()
	rec.History = []float64{4000}
	rec.Intraday = []float64{4005}
	rec.LastObservedAt = at(10, 9, 40)
	a := NewArchiver(365)

	state, err := a.Apply(rec, 4010.50, at(10, 10, 5))
	require.NoError(t, err)
	assert.Equal(t, HourBoundaryCrossed, state)
	assert.Equal(t, []float64{4000}, rec.History)
	assert.Equal(t, []float64{4005, 4010.50}, rec.Intraday)
}

func TestApplyDayBoundaryArchivesAndClearsIntraday(t *testing.T) {
	rec := newGoldRecord()
	rec.History = []float64{3990}
	rec.Intraday = []float64{4000, 4005, 4008}
	rec.LastObservedAt = at(10, 23, 40)
	a := NewArchiver(365)

	state, err := a.Apply(rec, 4010.50, at(11, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, DayBoundaryCrossed, state)
	assert.Equal(t, []float64{3990, 4010.50}, rec.History)
	assert.Empty(t, rec.Intraday, "intraday clears atomically with the archive push")
}

func TestApplyHistoryCapFIFO(t *testing.T) {
	rec := newGoldRecord()
	rec.History = []float64{1, 2, 3}
	rec.LastObservedAt = at(10, 12, 0)
	a := NewArchiver(3)

	_, err := a.Apply(rec, 4, at(11, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, rec.History, "oldest close drops when the cap is hit")
}

func TestApplyStaleClock(t *testing.T) {
	rec := newGoldRecord()
	rec.History = []float64{4000}
	rec.Intraday = []float64{4005}
	rec.LastObservedAt = at(10, 12, 0)
	a := NewArchiver(365)

	for _, now := range []time.Time{at(10, 12, 0), at(10, 11, 0), at(9, 12, 0)} {
		_, err := a.Apply(rec, 4010.50, now)
		assert.ErrorIs(t, err, ErrStaleClock)
	}
	assert.Equal(t, []float64{4000}, rec.History, "stale clock must not mutate the record")
	assert.Equal(t, []float64{4005}, rec.Intraday)
}

func TestApplyBackfilledRecordSkipsDuplicatePush(t *testing.T) {
	// A freshly backfilled record has a zero LastObservedAt but its final
	// value already sits at the history tail; the first run after the
	// backfill must not archive the same close twice.
	rec := newGoldRecord()
	rec.History = []float64{4000, 4010.50}
	a := NewArchiver(365)

	state, err := a.Apply(rec, 4010.50, at(12, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, DayBoundaryCrossed, state)
	assert.Equal(t, []float64{4000, 4010.50}, rec.History)
}

func TestClassifyDay(t *testing.T) {
	assert.Equal(t, DayBoundaryCrossed, ClassifyDay(time.Time{}, at(10, 9, 0)))
	assert.Equal(t, WithinDay, ClassifyDay(at(10, 9, 0), at(10, 23, 59)))
	assert.Equal(t, DayBoundaryCrossed, ClassifyDay(at(10, 23, 59), at(11, 0, 0)))
}

func TestClassifyHour(t *testing.T) {
	assert.Equal(t, HourBoundaryCrossed, ClassifyHour(time.Time{}, at(10, 9, 0)))
	assert.Equal(t, WithinHour, ClassifyHour(at(10, 9, 0), at(10, 9, 59)))
	assert.Equal(t, HourBoundaryCrossed, ClassifyHour(at(10, 9, 59), at(10, 10, 0)))
}

func TestCapSeries(t *testing.T) {
	a := NewArchiver(2)
	assert.Equal(t, []float64{2, 3}, a.CapSeries([]float64{1, 2, 3}))
	assert.Equal(t, []float64{1, 2}, a.CapSeries([]float64{1, 2}))
}
