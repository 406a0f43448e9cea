package engine

import (
	"fmt"
	"time"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// State is the archive state machine's classification of one observation
// relative to the record's previous one.
type State int

const (
	WithinHour State = iota
	HourBoundaryCrossed
	WithinDay
	DayBoundaryCrossed
)

func (s State) String() string {
	switch s {
	case WithinHour:
		return "within-hour"
	case HourBoundaryCrossed:
		return "hour-boundary"
	case WithinDay:
		return "within-day"
	case DayBoundaryCrossed:
		return "day-boundary"
	default:
		return "unknown"
	}
}

// ClassifyDay reports whether now falls on a different calendar day than
// prev. A zero prev (first observation) counts as a day boundary so the
// first accepted price is archived.
func ClassifyDay(prev, now time.Time) State {
	if prev.IsZero() {
		return DayBoundaryCrossed
	}
	py, pm, pd := prev.Date()
	ny, nm, nd := now.Date()
	if py != ny || pm != nm || pd != nd {
		return DayBoundaryCrossed
	}
	return WithinDay
}

// ClassifyHour reports whether now falls in a different hour of day than
// prev. Only meaningful within the same calendar day.
func ClassifyHour(prev, now time.Time) State {
	if prev.IsZero() || prev.Hour() != now.Hour() {
		return HourBoundaryCrossed
	}
	return WithinHour
}

// Archiver is the single authority for rollover detection. Per asset, per
// run, exactly one of three things happens: a day-boundary push onto history
// (with the intraday buffer cleared atomically), an hour-boundary append to
// the intraday buffer, or nothing.
type Archiver struct {
	cap int
}

// NewArchiver creates an archiver with the given history cap.
func NewArchiver(cap int) *Archiver {
	return &Archiver{cap: cap}
}

// Apply archives price into rec for an observation at now, using rec's
// LastObservedAt as the previous observation. It mutates only History and
// Intraday; the caller owns the in-place quote fields. A now that is not
// after the previous observation returns ErrStaleClock and archives nothing,
// so clock skew can never double-archive.
func (a *Archiver) Apply(rec *models.AssetRecord, price float64, now time.Time) (State, error) {
	prev := rec.LastObservedAt
	if !prev.IsZero() && !now.After(prev) {
		return WithinHour, fmt.Errorf("%s: run clock %s not after last observation %s: %w",
			rec.Key, now.Format(time.RFC3339), prev.Format(time.RFC3339), ErrStaleClock)
	}

	if ClassifyDay(prev, now) == DayBoundaryCrossed {
		// First observation of a freshly backfilled record already has the
		// value at the history tail; pushing again would duplicate it.
		if prev.IsZero() && len(rec.History) > 0 && rec.History[len(rec.History)-1] == price {
			rec.Intraday = []float64{}
			return DayBoundaryCrossed, nil
		}
		rec.History = append(rec.History, price)
		if a.cap > 0 && len(rec.History) > a.cap {
			rec.History = rec.History[len(rec.History)-a.cap:]
		}
		rec.Intraday = []float64{}
		return DayBoundaryCrossed, nil
	}

	if ClassifyHour(prev, now) == HourBoundaryCrossed {
		rec.Intraday = append(rec.Intraday, price)
		return HourBoundaryCrossed, nil
	}

	return WithinHour, nil
}

// CapSeries truncates a series to the trailing cap elements (FIFO drop).
func (a *Archiver) CapSeries(series []float64) []float64 {
	if a.cap > 0 && len(series) > a.cap {
		return series[len(series)-a.cap:]
	}
	return series
}
