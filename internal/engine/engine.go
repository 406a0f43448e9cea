package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// Store is the persisted asset record set. The engine treats it as one
// atomic read-modify-write per run.
type Store interface {
	LoadAll(ctx context.Context) (map[string]*models.AssetRecord, error)
	SaveAll(ctx context.Context, records map[string]*models.AssetRecord) error
}

// Feed is a source adapter. Adapters own all vendor wire formats; the engine
// only ever sees RawQuote and RawSeries.
type Feed interface {
	Name() string
	FetchQuote(ctx context.Context, entry models.CatalogEntry) (models.RawQuote, error)
	FetchSeries(ctx context.Context, entry models.CatalogEntry, span string) (models.RawSeries, error)
}

// FXSource supplies the FX reference series used for currency normalization.
type FXSource interface {
	FetchFXSeries(ctx context.Context, base, quote, span string) ([]float64, error)
}

// Engine reconciles multiple unreliable price sources into the canonical
// asset record store: normalization, source resolution, derived-instrument
// fan-out, and the intraday/daily archive, in that order, under one shared
// run clock.
type Engine struct {
	store    Store
	feeds    map[string]Feed
	fx       FXSource
	cfg      *config.EngineConfig
	catalog  []models.CatalogEntry
	byKey    map[string]models.CatalogEntry
	resolver *Resolver
	deriver  *Deriver
	archiver *Archiver
	log      *logrus.Entry
}

// New creates an engine over the given store, feed adapters and FX source.
func New(store Store, feeds map[string]Feed, fx FXSource, cfg *config.EngineConfig, log *logrus.Logger) (*Engine, error) {
	table, err := cfg.DerivedMultipliers()
	if err != nil {
		return nil, err
	}

	entry := log.WithField("component", "engine")
	return &Engine{
		store:    store,
		feeds:    feeds,
		fx:       fx,
		cfg:      cfg,
		catalog:  models.Catalog,
		byKey:    models.CatalogByKey(),
		resolver: NewResolver(cfg.QualityThreshold, entry),
		deriver:  NewDeriver(table),
		archiver: NewArchiver(cfg.HistoryCap),
		log:      entry,
	}, nil
}

// Run performs one quote reconcile run: every base asset gets at most one
// resolved quote, dependents are fanned out, and the archive state machine
// decides buffering. now is the run's single logical clock, shared by every
// asset. Only a store load/save failure is returned; everything else is a
// per-asset warning.
func (e *Engine) Run(ctx context.Context, now time.Time) error {
	return e.run(ctx, now, false)
}

// Backfill performs a series run: sources are asked for their full daily
// history (SeriesSpan deep) and record histories are rebuilt wholesale,
// derived instruments included.
func (e *Engine) Backfill(ctx context.Context, now time.Time) error {
	return e.run(ctx, now, true)
}

func (e *Engine) run(ctx context.Context, now time.Time, withSeries bool) error {
	records, err := e.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"assets":      len(e.catalog),
		"with_series": withSeries,
		"run_clock":   now.Format(time.RFC3339),
	}).Info("🔄 Starting reconcile run")

	fx := e.fetchFX(ctx, records)

	bases := e.baseEntries()
	fetched := e.fetchCandidates(ctx, bases, withSeries)

	// Everything below is the serialized reduction over the asset set:
	// derived instruments read just-updated base records and every archival
	// decision observes the same now.
	rebuilt := make(map[string]bool)
	resolvedCount := 0
	for i, entry := range bases {
		candidates := e.normalizeCandidates(entry, fetched[i], fx)

		resolved, err := e.resolver.Resolve(entry.Key, candidates)
		if err != nil {
			e.log.WithField("asset", entry.Key).WithError(err).Warn("Asset unresolved, keeping stored values")
			continue
		}

		rec, ok := records[entry.Key]
		if !ok {
			rec = models.NewAssetRecord(entry.Key, entry.Name, entry.Code, entry.Type)
			records[entry.Key] = rec
		}

		if e.applyResolved(rec, resolved, now) {
			rebuilt[entry.Key] = true
		}
		resolvedCount++
	}

	e.fanOutDerived(records, rebuilt, now)

	if err := e.store.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("save store: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"resolved": resolvedCount,
		"derived":  len(e.deriver.Table()),
		"records":  len(records),
	}).Info("✅ Reconcile run completed")

	return nil
}

// baseEntries returns the catalog entries fetched directly from sources;
// anything in the multiplier table is derived, never fetched.
func (e *Engine) baseEntries() []models.CatalogEntry {
	table := e.deriver.Table()
	out := make([]models.CatalogEntry, 0, len(e.catalog))
	for _, entry := range e.catalog {
		if _, derived := table[entry.Key]; derived {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// fetchFX loads the FX reference series, falling back to the stored USD
// record's history when the source is unavailable.
func (e *Engine) fetchFX(ctx context.Context, records map[string]*models.AssetRecord) []float64 {
	fx, err := e.fx.FetchFXSeries(ctx, "USD", e.cfg.CanonicalCurrency, e.cfg.SeriesSpan)
	if err == nil && len(fx) > 0 {
		return fx
	}
	if err != nil {
		e.log.WithError(err).Warn("FX reference series unavailable, falling back to stored rates")
	}
	if usd, ok := records["USD"]; ok && len(usd.History) > 0 {
		return usd.History
	}
	return nil
}

// rawCandidate is one source's unnormalized answer for one asset.
type rawCandidate struct {
	source    string
	quote     models.RawQuote
	quoteErr  error
	series    models.RawSeries
	seriesErr error
}

// fetchCandidates retrieves quotes (and optionally series) from every
// configured source per asset. Retrieval is read-only against the store, so
// assets fetch in parallel; each asset walks its own sources in priority
// order.
func (e *Engine) fetchCandidates(ctx context.Context, bases []models.CatalogEntry, withSeries bool) [][]rawCandidate {
	out := make([][]rawCandidate, len(bases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, entry := range bases {
		i, entry := i, entry
		g.Go(func() error {
			var cands []rawCandidate
			for _, src := range e.cfg.SourcePriority(entry.Type) {
				feed, ok := e.feeds[src]
				if !ok {
					continue
				}
				rc := rawCandidate{source: src}
				rc.quote, rc.quoteErr = feed.FetchQuote(gctx, entry)
				if withSeries {
					rc.series, rc.seriesErr = feed.FetchSeries(gctx, entry, e.cfg.SeriesSpan)
				}
				cands = append(cands, rc)
			}
			out[i] = cands
			return nil
		})
	}

	// Workers only record per-source failures, they never return errors.
	_ = g.Wait()

	return out
}

// normalizeCandidates converts one asset's raw fetch results into canonical
// currency candidates, dropping (and surfacing) the unusable ones.
func (e *Engine) normalizeCandidates(entry models.CatalogEntry, raws []rawCandidate, fx []float64) []models.Candidate {
	var candidates []models.Candidate
	for _, rc := range raws {
		var c models.Candidate
		usable := false

		if rc.quoteErr != nil {
			e.log.WithFields(logrus.Fields{
				"asset":  entry.Key,
				"source": rc.source,
			}).WithError(rc.quoteErr).Warn("Source quote failed")
		} else {
			nq, err := NormalizeQuote(rc.quote, fx, e.cfg.CanonicalCurrency)
			if err != nil {
				e.log.WithFields(logrus.Fields{
					"asset":  entry.Key,
					"source": rc.source,
				}).WithError(err).Warn("Quote normalization skipped")
			} else {
				c.Quote = nq
				usable = true
			}
		}

		if rc.seriesErr != nil {
			e.log.WithFields(logrus.Fields{
				"asset":  entry.Key,
				"source": rc.source,
			}).WithError(rc.seriesErr).Warn("Source series failed")
		} else if len(rc.series.Points) > 0 {
			pts := NormalizeSeries(rc.series, fx, e.cfg.CanonicalCurrency)
			if len(pts) > 0 {
				c.Series = pts
				if !usable {
					// Series-only source: the tail close doubles as quote.
					c.Quote = models.NormalizedQuote{
						Source:   rc.source,
						AssetKey: entry.Key,
						Price:    pts[len(pts)-1],
					}
				}
				usable = true
			}
		}

		if usable {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// applyResolved upserts the resolved value into the record. Reports whether
// the record's history was rebuilt from a resolved series this run, which
// switches the derived fan-out into series mode and supersedes archival.
func (e *Engine) applyResolved(rec *models.AssetRecord, resolved models.ResolvedQuote, now time.Time) bool {
	seriesRebuilt := len(resolved.Series) > 0

	price := resolved.Price
	if seriesRebuilt {
		rec.History = e.archiver.CapSeries(resolved.Series)
		rec.Intraday = []float64{}
		if price <= 0 {
			price = rec.History[len(rec.History)-1]
		}
	}

	old := rec.Current
	rec.Current = price
	rec.Selling = price
	if resolved.Buying > 0 {
		rec.Buying = resolved.Buying
	} else {
		rec.Buying = price
	}
	switch {
	case resolved.HasChange:
		rec.ChangePercent = resolved.ChangePercent
	case old > 0:
		rec.ChangePercent = Round2((price - old) / old * 100)
	}

	if !seriesRebuilt {
		if state, err := e.archiver.Apply(rec, price, now); err != nil {
			e.log.WithField("asset", rec.Key).WithError(err).Warn("Archival skipped")
		} else if state != WithinHour {
			e.log.WithFields(logrus.Fields{
				"asset": rec.Key,
				"state": state.String(),
			}).Debug("Archive transition")
		}
	}

	if now.After(rec.LastObservedAt) {
		rec.LastObservedAt = now
	}
	return seriesRebuilt
}

// fanOutDerived computes every dependent instrument from its base record.
// When the base's history was rebuilt this run the dependent's history is
// recomputed wholesale; otherwise the dependent's current price goes through
// the same archive state machine as any directly fetched asset.
func (e *Engine) fanOutDerived(records map[string]*models.AssetRecord, rebuilt map[string]bool, now time.Time) {
	table := e.deriver.Table()
	for _, depKey := range e.deriver.Keys() {
		spec := table[depKey]
		base := records[spec.BaseKey]

		rec, ok := records[depKey]
		if !ok {
			rec = e.seedDerived(depKey, base)
			if rec == nil {
				e.log.WithFields(logrus.Fields{
					"asset": depKey,
					"base":  spec.BaseKey,
				}).Warn("Derived instrument has no base data, skipping seed")
				continue
			}
			records[depKey] = rec
		}

		if rebuilt[spec.BaseKey] {
			if err := e.deriver.Rebuild(rec, base, spec.Multiplier); err != nil {
				e.log.WithField("asset", depKey).WithError(err).Warn("Derived series unchanged")
				continue
			}
			rec.Intraday = []float64{}
			if now.After(rec.LastObservedAt) {
				rec.LastObservedAt = now
			}
			continue
		}

		price, err := Price(base, spec.Multiplier)
		if err != nil {
			e.log.WithField("asset", depKey).WithError(err).Warn("Derived instrument unchanged")
			continue
		}

		old := rec.Current
		rec.Current = price
		rec.Selling = price
		rec.Buying = price
		switch {
		case base.ChangePercent != 0:
			rec.ChangePercent = base.ChangePercent
		case old > 0:
			rec.ChangePercent = Round2((price - old) / old * 100)
		}

		if _, err := e.archiver.Apply(rec, price, now); err != nil {
			e.log.WithField("asset", depKey).WithError(err).Warn("Archival skipped")
		}
		if now.After(rec.LastObservedAt) {
			rec.LastObservedAt = now
		}
	}
}

// seedDerived creates a record for a dependent key, preferring catalog
// identity and falling back to the base's type for config-added dependents.
func (e *Engine) seedDerived(depKey string, base *models.AssetRecord) *models.AssetRecord {
	if entry, ok := e.byKey[depKey]; ok {
		return models.NewAssetRecord(entry.Key, entry.Name, entry.Code, entry.Type)
	}
	if base == nil {
		return nil
	}
	return models.NewAssetRecord(depKey, depKey, depKey, base.Type)
}
