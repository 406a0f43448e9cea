package models

import (
	"time"
)

// AssetType classifies a tracked instrument.
type AssetType string

const (
	AssetTypeGold      AssetType = "gold"
	AssetTypeCurrency  AssetType = "currency"
	AssetTypeCommodity AssetType = "commodity"
	AssetTypeCrypto    AssetType = "crypto"
	AssetTypeStock     AssetType = "stock"
)

// AssetRecord is the persisted state of one tradable instrument. All prices
// are in the canonical output currency. History holds daily closes oldest
// first; Intraday holds sub-daily samples for the current calendar day only.
type AssetRecord struct {
	Key            string    `json:"key"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Type           AssetType `json:"type"`
	Current        float64   `json:"current"`
	Selling        float64   `json:"selling"`
	Buying         float64   `json:"buying"`
	ChangePercent  float64   `json:"change"`
	History        []float64 `json:"history"`
	Intraday       []float64 `json:"intraday,omitempty"`
	LastObservedAt time.Time `json:"last_observed_at"`
}

// NewAssetRecord seeds a zero-valued record. Key and Type are immutable after
// seeding; everything else is mutated by the engine.
func NewAssetRecord(key, name, code string, typ AssetType) *AssetRecord {
	return &AssetRecord{
		Key:      key,
		Name:     name,
		Code:     code,
		Type:     typ,
		History:  []float64{},
		Intraday: []float64{},
	}
}

// Clone returns a deep copy of the record.
func (a *AssetRecord) Clone() *AssetRecord {
	c := *a
	c.History = append([]float64(nil), a.History...)
	c.Intraday = append([]float64(nil), a.Intraday...)
	return &c
}
