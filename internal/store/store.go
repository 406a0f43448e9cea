// Package store persists the asset record document. Both backends load and
// save the whole document at once; the engine performs a single
// read-modify-write per run, so there is no per-record access path.
package store

import (
	"context"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// AssetStore is the persistence boundary of the reconciliation engine.
type AssetStore interface {
	LoadAll(ctx context.Context) (map[string]*models.AssetRecord, error)
	SaveAll(ctx context.Context, records map[string]*models.AssetRecord) error
	Health(ctx context.Context) error
	Close() error
}
