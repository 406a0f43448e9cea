package models

import (
	"time"
)

// RawQuote is the single canonical shape every feed adapter produces. The
// engine never sees vendor payloads; adapters parse them into this.
type RawQuote struct {
	Source        string    `json:"source"`
	AssetKey      string    `json:"asset_key"`
	Price         float64   `json:"price"`
	Buying        float64   `json:"buying,omitempty"`
	ChangePercent float64   `json:"change,omitempty"`
	HasChange     bool      `json:"has_change,omitempty"`
	Currency      string    `json:"currency"`
	UnitDivisor   float64   `json:"unit_divisor,omitempty"`
	AsOf          time.Time `json:"as_of"`
}

// RawSeries is a source's daily close sequence for one asset, oldest first,
// still in the source's own currency and unit.
type RawSeries struct {
	Source      string    `json:"source"`
	AssetKey    string    `json:"asset_key"`
	Points      []float64 `json:"points"`
	Currency    string    `json:"currency"`
	UnitDivisor float64   `json:"unit_divisor,omitempty"`
}

// NormalizedQuote is a RawQuote converted into the canonical currency.
type NormalizedQuote struct {
	Source        string
	AssetKey      string
	Price         float64
	Buying        float64
	ChangePercent float64
	HasChange     bool
	AsOf          time.Time
}

// Candidate pairs one source's normalized quote with whatever daily series
// the source supplied this run. Series may be empty in quote-only runs; its
// length is the candidate's quality.
type Candidate struct {
	Quote  NormalizedQuote
	Series []float64
}

// Quality is the candidate's series length.
func (c Candidate) Quality() int { return len(c.Series) }

// ResolvedQuote is the resolver's single accepted value per asset per run.
type ResolvedQuote struct {
	AssetKey      string
	Source        string
	Price         float64
	Buying        float64
	ChangePercent float64
	HasChange     bool
	Series        []float64
	BelowQuality  bool
}
