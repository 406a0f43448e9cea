package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Store:  StoreConfig{Backend: "file", Path: "data.json"},
		Engine: EngineConfig{HistoryCap: 365, QualityThreshold: 100},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Engine.HistoryCap = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Engine.QualityThreshold = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Store.Backend = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Store.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Engine.Multipliers = []string{"bad-entry"}
	assert.Error(t, cfg.Validate())
}

func TestDerivedMultipliersDefaults(t *testing.T) {
	cfg := EngineConfig{}

	table, err := cfg.DerivedMultipliers()
	require.NoError(t, err)

	assert.Equal(t, models.DerivedSpec{BaseKey: "gram-altin", Multiplier: 1.702}, table["ceyrek-altin"])
	assert.Equal(t, models.DerivedSpec{BaseKey: "gram-altin", Multiplier: 31.1035}, table["ons"])
}

func TestDerivedMultipliersOverride(t *testing.T) {
	cfg := EngineConfig{Multipliers: []string{
		"ceyrek-altin=gram-altin:1.75",
		"custom-coin=gram-altin:2.5",
		"", // blanks are skipped
	}}

	table, err := cfg.DerivedMultipliers()
	require.NoError(t, err)

	assert.Equal(t, models.DerivedSpec{BaseKey: "gram-altin", Multiplier: 1.75}, table["ceyrek-altin"])
	assert.Equal(t, models.DerivedSpec{BaseKey: "gram-altin", Multiplier: 2.5}, table["custom-coin"])
	assert.Equal(t, models.DerivedSpec{BaseKey: "gram-altin", Multiplier: 3.403}, table["yarim-altin"], "untouched rows keep defaults")
}

func TestDerivedMultipliersInvalid(t *testing.T) {
	for _, entry := range []string{"no-equals", "key=no-colon", "key=base:zero", "key=base:0", "key=base:-1"} {
		cfg := EngineConfig{Multipliers: []string{entry}}
		_, err := cfg.DerivedMultipliers()
		assert.Error(t, err, "entry %q", entry)
	}
}

func TestSourcePriority(t *testing.T) {
	cfg := EngineConfig{
		GoldSources:   []string{"truncgil", "yahoo"},
		CryptoSources: []string{"binance"},
	}

	assert.Equal(t, []string{"truncgil", "yahoo"}, cfg.SourcePriority(models.AssetTypeGold))
	assert.Equal(t, []string{"binance"}, cfg.SourcePriority(models.AssetTypeCrypto))
	assert.Nil(t, cfg.SourcePriority(models.AssetType("bond")))
}

func TestAddresses(t *testing.T) {
	cfg := validConfig()
	cfg.Redis = RedisConfig{Host: "localhost", Port: 6379}

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}
