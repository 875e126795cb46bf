package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"stockdice/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	FMP      FMPConfig      `mapstructure:"fmp"`
	Pacing   PacingConfig   `mapstructure:"pacing"`
	Data     DataConfig     `mapstructure:"data"`
	Forex    ForexConfig    `mapstructure:"forex"`
	Picker   PickerConfig   `mapstructure:"picker"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig locates the local SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// FMPConfig covers financialmodelingprep.com access.
type FMPConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// PacingConfig governs batch pacing of download runs.
type PacingConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	BatchWait time.Duration `mapstructure:"batch_wait"`
}

// DataConfig locates flat-file inputs and outputs.
type DataConfig struct {
	SymbolsFile      string `mapstructure:"symbols_file"`
	NasdaqListedFile string `mapstructure:"nasdaq_listed_file"`
	OtherListedFile  string `mapstructure:"other_listed_file"`
	ValuesFile       string `mapstructure:"values_file"`
}

// ForexConfig locates the forex snapshot and names proxy substitutions for
// currencies the pair feed lacks.
type ForexConfig struct {
	SnapshotFile string            `mapstructure:"snapshot_file"`
	Proxies      map[string]string `mapstructure:"proxies"`
}

// PickerConfig weights the blended valuation score. Market cap dominates
// deliberately: market risk is the factor the draw targets.
type PickerConfig struct {
	BookWeight      float64 `mapstructure:"book_weight"`
	ProfitWeight    float64 `mapstructure:"profit_weight"`
	RevenueWeight   float64 `mapstructure:"revenue_weight"`
	MarketCapWeight float64 `mapstructure:"market_cap_weight"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKDICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stockdice")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.path", "third_party/financialmodelingprep.com/stockdice.sqlite")

	v.SetDefault("fmp.base_url", "https://financialmodelingprep.com")
	v.SetDefault("fmp.request_timeout", "30s")
	v.SetDefault("fmp.requests_per_second", 0)
	v.SetDefault("fmp.user_agent", "stockdice/1.0")

	v.SetDefault("pacing.batch_size", 10)
	v.SetDefault("pacing.batch_wait", "1s")

	v.SetDefault("data.symbols_file", "third_party/ftp.nasdaqtrader.com/allsymbols.txt")
	v.SetDefault("data.nasdaq_listed_file", "third_party/ftp.nasdaqtrader.com/nasdaqlisted.txt")
	v.SetDefault("data.other_listed_file", "third_party/ftp.nasdaqtrader.com/otherlisted.txt")
	v.SetDefault("data.values_file", "third_party/financialmodelingprep.com/values.csv")

	v.SetDefault("forex.snapshot_file", "third_party/financialmodelingprep.com/forex.csv")
	v.SetDefault("forex.proxies", map[string]string{"CNY": "CNH"})

	v.SetDefault("picker.book_weight", 1.0)
	v.SetDefault("picker.profit_weight", 1.0)
	v.SetDefault("picker.revenue_weight", 3.0)
	v.SetDefault("picker.market_cap_weight", 5.0)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Pacing.BatchSize <= 0 {
		return fmt.Errorf("pacing.batch_size must be greater than zero")
	}
	if c.Pacing.BatchWait < 0 {
		return fmt.Errorf("pacing.batch_wait cannot be negative")
	}
	if c.FMP.RequestTimeout <= 0 {
		return fmt.Errorf("fmp.request_timeout must be greater than zero")
	}

	weights := []float64{
		c.Picker.BookWeight,
		c.Picker.ProfitWeight,
		c.Picker.RevenueWeight,
		c.Picker.MarketCapWeight,
	}
	var total float64
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("picker weights cannot be negative")
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("at least one picker weight must be positive")
	}

	return nil
}
