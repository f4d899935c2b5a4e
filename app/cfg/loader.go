package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./dashboard.db" description:"SQLite database file for alert thresholds"`

	// Application configuration
	SourcesFile      string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file listing news sources (built-in sources are used when missing)"`
	Port             string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl          string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://dash.example.com)"`
	APIAccessKey     string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key protecting alert management (optional)"`
	ExchangeRateURL  string `long:"exchange-rate-url" env:"EXCHANGE_RATE_URL" default:"https://api.exchangerate-api.com/v4/latest" description:"Base URL of the exchange rate API"`
	HTTPTimeout      int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"Timeout in seconds for outbound HTTP requests"`
	SummarySentences int    `long:"summary-sentences" env:"SUMMARY_SENTENCES" default:"5" description:"Number of sentences kept in article summaries"`
	ForexWorkers     int    `long:"forex-workers" env:"FOREX_WORKERS" default:"4" description:"Concurrent exchange rate lookups for the forex board"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; IT-Dashboard/1.0)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Kolkata)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		SourcesFile:      raw.SourcesFile,
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		APIAccessKey:     raw.APIAccessKey,
		ExchangeRateURL:  raw.ExchangeRateURL,
		HTTPTimeout:      raw.HTTPTimeout,
		SummarySentences: raw.SummarySentences,
		ForexWorkers:     raw.ForexWorkers,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// GetHTTPTimeout returns the outbound request timeout as time.Duration
func (c *Cfg) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeout) * time.Second
}

func validate(raw *rawCfg) error {
	nonNegativeFields := map[string]int{
		"http timeout":      raw.HTTPTimeout,
		"summary sentences": raw.SummarySentences,
		"forex workers":     raw.ForexWorkers,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if raw.ExchangeRateURL == "" {
		return fmt.Errorf("exchange rate URL is required")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
