package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `env:", prefix=SERVER_"`
	Store   StoreConfig   `env:", prefix=STORE_"`
	Redis   RedisConfig   `env:", prefix=REDIS_"`
	Engine  EngineConfig  `env:", prefix=ENGINE_"`
	Feeds   FeedsConfig   `env:", prefix=FEEDS_"`
	Updater UpdaterConfig `env:", prefix=UPDATER_"`
	Logging LoggingConfig `env:", prefix=LOG_"`
}

// ServerConfig holds the read-only HTTP API configuration
type ServerConfig struct {
	Host         string        `env:"HOST, default=0.0.0.0"`
	Port         int           `env:"PORT, default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=15s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT, default=60s"`
	CORSEnabled  bool          `env:"CORS_ENABLED, default=true"`
	CORSOrigins  []string      `env:"CORS_ORIGINS, default=*"`
}

// StoreConfig selects and configures the asset store backend
type StoreConfig struct {
	Backend string `env:"BACKEND, default=file"` // file or redis
	Path    string `env:"PATH, default=data.json"`
}

// RedisConfig holds Redis configuration for the redis store backend
type RedisConfig struct {
	Host         string        `env:"HOST, default=localhost"`
	Port         int           `env:"PORT, default=6379"`
	Password     string        `env:"PASSWORD"`
	DB           int           `env:"DB, default=0"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT, default=5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=3s"`
}

// EngineConfig holds the reconciliation engine configuration
type EngineConfig struct {
	HistoryCap        int      `env:"HISTORY_CAP, default=365"`
	QualityThreshold  int      `env:"QUALITY_THRESHOLD, default=100"`
	SeriesSpan        string   `env:"SERIES_SPAN, default=5y"`
	CanonicalCurrency string   `env:"CANONICAL_CURRENCY, default=TRY"`
	GoldSources       []string `env:"GOLD_SOURCES, default=truncgil,yahoo"`
	CurrencySources   []string `env:"CURRENCY_SOURCES, default=truncgil,yahoo"`
	CommoditySources  []string `env:"COMMODITY_SOURCES, default=truncgil,genelpara,yahoo"`
	CryptoSources     []string `env:"CRYPTO_SOURCES, default=binance"`
	StockSources      []string `env:"STOCK_SOURCES, default=yahoo"`

	// Multipliers overrides entries of the built-in derived-instrument
	// table. Format: depKey=baseKey:multiplier, comma separated.
	Multipliers []string `env:"MULTIPLIERS"`
}

// FeedsConfig holds feed adapter configuration
type FeedsConfig struct {
	Timeout          time.Duration `env:"TIMEOUT, default=15s"`
	TruncgilURL      string        `env:"TRUNCGIL_URL, default=https://finans.truncgil.com/today.json"`
	YahooURL         string        `env:"YAHOO_URL, default=https://query1.finance.yahoo.com/v8/finance/chart"`
	BinanceURL       string        `env:"BINANCE_URL, default=https://api.binance.com"`
	GenelParaURL     string        `env:"GENELPARA_URL, default=https://api.genelpara.com/json/"`
	BinanceEnabled   bool          `env:"BINANCE_ENABLED, default=true"`
	GenelParaEnabled bool          `env:"GENELPARA_ENABLED, default=true"`
}

// UpdaterConfig holds the server-mode periodic updater configuration
type UpdaterConfig struct {
	Enabled  bool          `env:"ENABLED, default=false"`
	Interval time.Duration `env:"INTERVAL, default=1h"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LEVEL, default=info"`
	Format string `env:"FORMAT, default=text"`
	Output string `env:"OUTPUT, default=stdout"`
}

// Load loads configuration from environment variables using go-envconfig
func Load() (*Config, error) {
	ctx := context.Background()
	var cfg Config

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Engine.HistoryCap <= 0 {
		return fmt.Errorf("history cap must be positive, got %d", c.Engine.HistoryCap)
	}

	if c.Engine.QualityThreshold < 0 {
		return fmt.Errorf("quality threshold must not be negative, got %d", c.Engine.QualityThreshold)
	}

	switch c.Store.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}

	if c.Store.Backend == "file" && c.Store.Path == "" {
		return fmt.Errorf("store path is required for the file backend")
	}

	if _, err := c.Engine.DerivedMultipliers(); err != nil {
		return err
	}

	return nil
}

// SourcePriority returns the ordered source identifiers for an asset type.
func (c *EngineConfig) SourcePriority(typ models.AssetType) []string {
	switch typ {
	case models.AssetTypeGold:
		return c.GoldSources
	case models.AssetTypeCurrency:
		return c.CurrencySources
	case models.AssetTypeCommodity:
		return c.CommoditySources
	case models.AssetTypeCrypto:
		return c.CryptoSources
	case models.AssetTypeStock:
		return c.StockSources
	default:
		return nil
	}
}

// DerivedMultipliers returns the catalog's derived-instrument table with any
// configured overrides applied on top.
func (c *EngineConfig) DerivedMultipliers() (map[string]models.DerivedSpec, error) {
	table := models.DefaultMultipliers()
	for _, entry := range c.Multipliers {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid multiplier entry %q, want depKey=baseKey:multiplier", entry)
		}
		base, mult, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("invalid multiplier entry %q, want depKey=baseKey:multiplier", entry)
		}
		m, err := strconv.ParseFloat(strings.TrimSpace(mult), 64)
		if err != nil || m <= 0 {
			return nil, fmt.Errorf("invalid multiplier for %s: %q", key, mult)
		}
		table[strings.TrimSpace(key)] = models.DerivedSpec{
			BaseKey:    strings.TrimSpace(base),
			Multiplier: m,
		}
	}
	return table, nil
}

// GetRedisAddr returns Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
