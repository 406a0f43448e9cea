package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// Resolver picks one normalized quote per asset from the candidates the
// sources supplied, in static priority order. A candidate qualifies when its
// series length meets the quality threshold; when none qualifies the best
// available candidate is accepted anyway, with a quality warning, so an asset
// is only left unresolved when every adapter failed outright.
type Resolver struct {
	threshold int
	log       *logrus.Entry
}

// NewResolver creates a resolver with the given minimum series length.
func NewResolver(threshold int, log *logrus.Entry) *Resolver {
	return &Resolver{threshold: threshold, log: log}
}

// Resolve returns exactly one resolved quote for the asset, or
// ErrSourceUnavailable when there are no candidates at all. Candidates must
// be in source priority order.
func (r *Resolver) Resolve(assetKey string, candidates []models.Candidate) (models.ResolvedQuote, error) {
	if len(candidates) == 0 {
		return models.ResolvedQuote{}, fmt.Errorf("%s: every source failed: %w", assetKey, ErrSourceUnavailable)
	}

	for _, c := range candidates {
		if c.Quality() >= r.threshold {
			return resolved(assetKey, c, false), nil
		}
	}

	// Nothing met the threshold; take the longest series, earliest priority
	// on ties, rather than leaving the asset unresolved.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Quality() > best.Quality() {
			best = c
		}
	}

	r.log.WithFields(logrus.Fields{
		"asset":     assetKey,
		"source":    best.Quote.Source,
		"quality":   best.Quality(),
		"threshold": r.threshold,
	}).Warn("No candidate met the quality threshold, accepting best available")

	return resolved(assetKey, best, true), nil
}

func resolved(assetKey string, c models.Candidate, belowQuality bool) models.ResolvedQuote {
	return models.ResolvedQuote{
		AssetKey:      assetKey,
		Source:        c.Quote.Source,
		Price:         c.Quote.Price,
		Buying:        c.Quote.Buying,
		ChangePercent: c.Quote.ChangePercent,
		HasChange:     c.Quote.HasChange,
		Series:        c.Series,
		BelowQuality:  belowQuality,
	}
}
