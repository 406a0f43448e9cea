package engine

import (
	"errors"
)

// Per-asset, non-fatal failure conditions. One asset's failure never aborts
// the run; every occurrence is surfaced as a structured warning. Only a
// failure to read or write the store itself is fatal.
var (
	// ErrSourceUnavailable means an adapter failed outright: network error,
	// timeout, or a response that was not parseable at all.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrParse means a quote value could not be interpreted as a valid
	// positive number. Treated like ErrSourceUnavailable for that quote.
	ErrParse = errors.New("unparseable quote value")

	// ErrInsufficientReferenceData means currency normalization had no
	// usable FX series or price; the prior stored value is retained.
	ErrInsufficientReferenceData = errors.New("insufficient reference data")

	// ErrMissingBaseSeries means a derived instrument's base has no data
	// this run; the dependent is left unchanged.
	ErrMissingBaseSeries = errors.New("missing base series")

	// ErrStaleClock means the run clock is not after the record's last
	// observed time; archival is skipped so nothing archives twice.
	ErrStaleClock = errors.New("stale run clock")
)
