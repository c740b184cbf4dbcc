package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Input catalogs
	FeedsFile     string `long:"feeds-file" env:"FEEDS_FILE" default:"./config/feeds.yml" description:"YAML file listing watched feeds"`
	CompaniesFile string `long:"companies-file" env:"COMPANIES_FILE" default:"./config/companies.yml" description:"YAML catalog of per-company scraping configurations"`
	KeywordsFile  string `long:"keywords-file" env:"KEYWORDS_FILE" default:"" description:"YAML file with ordered category keyword rules (optional, built-in rules used when empty)"`

	// HTTP server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Batch schedule
	BatchHour   int `long:"batch-hour" env:"BATCH_HOUR" default:"6" description:"Hour of day for the scheduled batch run (0-23)"`
	BatchMinute int `long:"batch-minute" env:"BATCH_MINUTE" default:"0" description:"Minute of the scheduled batch run (0-59)"`

	// Fetch behavior
	FetchTimeout     int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-request fetch timeout in seconds"`
	FetchMaxRetries  int `long:"fetch-max-retries" env:"FETCH_MAX_RETRIES" default:"3" description:"Retry attempts for transient fetch failures"`
	ExtractRateLimit int `long:"extract-rate-limit" env:"EXTRACT_RATE_LIMIT" default:"2" description:"Seconds between article requests to the same host"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Feedwatch/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps and the batch schedule (e.g., UTC, Asia/Tokyo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
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

	cfg := &Cfg{
		FeedsFile:        raw.FeedsFile,
		CompaniesFile:    raw.CompaniesFile,
		KeywordsFile:     raw.KeywordsFile,
		Port:             raw.Port,
		APIAccessKey:     raw.APIAccessKey,
		BatchHour:        raw.BatchHour,
		BatchMinute:      raw.BatchMinute,
		FetchTimeout:     raw.FetchTimeout,
		FetchMaxRetries:  raw.FetchMaxRetries,
		ExtractRateLimit: raw.ExtractRateLimit,
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
