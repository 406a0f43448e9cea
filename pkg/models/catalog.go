package models

// CatalogEntry describes one tracked instrument: identity plus, for derived
// instruments, the base key and fixed multiplier its price is computed from.
type CatalogEntry struct {
	Key        string
	Name       string
	Code       string
	Type       AssetType
	BaseKey    string
	Multiplier float64
}

// Derived reports whether the entry is computed from a base series instead of
// fetched from a source.
func (e CatalogEntry) Derived() bool { return e.BaseKey != "" }

// DerivedSpec is one row of the derived-instrument multiplier table.
type DerivedSpec struct {
	BaseKey    string
	Multiplier float64
}

// Catalog is the default set of tracked instruments. Gram gold is the base
// for the coin and karat instruments; their multipliers are grams of fine
// gold per piece.
var Catalog = []CatalogEntry{
	// Gold
	{Key: "gram-altin", Name: "Gram Altın", Code: "GRAM", Type: AssetTypeGold},
	{Key: "ons", Name: "Ons Altın", Code: "ONS", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 31.1035},
	{Key: "ceyrek-altin", Name: "Çeyrek Altın", Code: "CEYREK", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 1.702},
	{Key: "yarim-altin", Name: "Yarım Altın", Code: "YARIM", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 3.403},
	{Key: "tam-altin", Name: "Tam Altın", Code: "TAM", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 6.787},
	{Key: "cumhuriyet-altini", Name: "Cumhuriyet Altını", Code: "CUMHUR", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 7.002},
	{Key: "ata-altin", Name: "Ata Altın", Code: "ATAALT", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 7.037},
	{Key: "resat-altin", Name: "Reşat Altın", Code: "RESAT", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 7.037},
	{Key: "hamit-altin", Name: "Hamit Altın", Code: "HAMIT", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 7.037},
	{Key: "besli-altin", Name: "Beşli Altın", Code: "BESLI", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 34.35},
	{Key: "gremse-altin", Name: "Gremse Altın", Code: "GREMSE", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 17.02},
	{Key: "ikibucuk-altin", Name: "İkibuçuk Altın", Code: "IKIBUC", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 16.90},
	{Key: "gram-has-altin", Name: "Gram Has Altın", Code: "HAS", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 0.995},
	{Key: "14-ayar-altin", Name: "14 Ayar Altın", Code: "14AYAR", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 0.583},
	{Key: "18-ayar-altin", Name: "18 Ayar Altın", Code: "18AYAR", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 0.750},
	{Key: "22-ayar-bilezik", Name: "22 Ayar Bilezik", Code: "22AYAR", Type: AssetTypeGold, BaseKey: "gram-altin", Multiplier: 0.916},

	// Currencies
	{Key: "USD", Name: "ABD Doları", Code: "USD", Type: AssetTypeCurrency},
	{Key: "EUR", Name: "Euro", Code: "EUR", Type: AssetTypeCurrency},
	{Key: "GBP", Name: "İngiliz Sterlini", Code: "GBP", Type: AssetTypeCurrency},
	{Key: "CHF", Name: "İsviçre Frangı", Code: "CHF", Type: AssetTypeCurrency},
	{Key: "SAR", Name: "Suudi Riyali", Code: "SAR", Type: AssetTypeCurrency},
	{Key: "JPY", Name: "Japon Yeni", Code: "JPY", Type: AssetTypeCurrency},

	// Commodities
	{Key: "gumus", Name: "Gümüş", Code: "GUMUS", Type: AssetTypeCommodity},
	{Key: "gram-platin", Name: "Gram Platin", Code: "PLATIN", Type: AssetTypeCommodity},
	{Key: "gram-paladyum", Name: "Gram Paladyum", Code: "PALADYUM", Type: AssetTypeCommodity},
	{Key: "emtia-cl", Name: "Ham Petrol (WTI)", Code: "CL", Type: AssetTypeCommodity},
	{Key: "emtia-bz", Name: "Brent Petrol", Code: "BZ", Type: AssetTypeCommodity},
	{Key: "emtia-ng", Name: "Doğalgaz", Code: "NG", Type: AssetTypeCommodity},

	// Crypto
	{Key: "btc", Name: "Bitcoin", Code: "BTC", Type: AssetTypeCrypto},
	{Key: "eth", Name: "Ethereum", Code: "ETH", Type: AssetTypeCrypto},
	{Key: "sol", Name: "Solana", Code: "SOL", Type: AssetTypeCrypto},
	{Key: "xrp", Name: "XRP", Code: "XRP", Type: AssetTypeCrypto},

	// BIST stocks
	{Key: "hisse-thyao", Name: "Türk Hava Yolları", Code: "THYAO", Type: AssetTypeStock},
	{Key: "hisse-garan", Name: "Garanti BBVA", Code: "GARAN", Type: AssetTypeStock},
	{Key: "hisse-asels", Name: "Aselsan", Code: "ASELS", Type: AssetTypeStock},
	{Key: "hisse-tuprs", Name: "Tüpraş", Code: "TUPRS", Type: AssetTypeStock},
}

// CatalogByKey indexes the catalog.
func CatalogByKey() map[string]CatalogEntry {
	m := make(map[string]CatalogEntry, len(Catalog))
	for _, e := range Catalog {
		m[e.Key] = e
	}
	return m
}

// DefaultMultipliers returns the derived-instrument table from the catalog.
func DefaultMultipliers() map[string]DerivedSpec {
	m := make(map[string]DerivedSpec)
	for _, e := range Catalog {
		if e.Derived() {
			m[e.Key] = DerivedSpec{BaseKey: e.BaseKey, Multiplier: e.Multiplier}
		}
	}
	return m
}
