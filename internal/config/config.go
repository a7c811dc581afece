package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for offermatch.
type Config struct {
	Dictionary  DictionaryConfig
	Repository  RepositoryConfig
	Resolver    ResolverConfig
	Ranking     RankingConfig
	Explanation ExplanationConfig
	Report      ReportConfig
}

// DictionaryConfig selects the keyword dictionary. An empty Path means the
// dictionary embedded in the binary.
type DictionaryConfig struct {
	Path string `yaml:"path"`
}

// RepositoryConfig selects the canonical skill repository backend.
type RepositoryConfig struct {
	Driver   string // "sqlite", "postgres" or "memory"
	DSN      string // file path for sqlite, connection URL for postgres
	MaxConns int32  // postgres pool size, 0 = driver default
}

// ResolverConfig controls how skill lookups hit the repository.
type ResolverConfig struct {
	Concurrency   int
	LookupTimeout time.Duration
	MaxRetries    int
	BaseDelay     time.Duration
	RateLimit     float64 // lookups per second, 0 = unlimited
	Burst         int
}

// RankingConfig controls the rank command.
type RankingConfig struct {
	Workers  int
	MinScore int
}

// ExplanationConfig controls explanation text.
type ExplanationConfig struct {
	MaxNames int
}

// ReportConfig controls where ranking results are published besides stdout.
type ReportConfig struct {
	SlackWebhookURL string // empty disables the Slack report
	Top             int    // offers included in the Slack report
}

// Drivers accepted by repository.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const slackWebhookPrefix = "https://hooks.slack.com/"

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Dictionary  DictionaryConfig `yaml:"dictionary"`
	Repository  rawRepository    `yaml:"repository"`
	Resolver    rawResolver      `yaml:"resolver"`
	Ranking     rawRanking       `yaml:"ranking"`
	Explanation rawExplanation   `yaml:"explanation"`
	Report      rawReport        `yaml:"report"`
}

type rawRepository struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	MaxConns *int32 `yaml:"max_conns"`
}

type rawResolver struct {
	Concurrency   *int     `yaml:"concurrency"`
	LookupTimeout string   `yaml:"lookup_timeout"`
	MaxRetries    *int     `yaml:"max_retries"`
	BaseDelay     string   `yaml:"base_delay"`
	RateLimit     *float64 `yaml:"rate_limit"`
	Burst         *int     `yaml:"burst"`
}

type rawRanking struct {
	Workers  *int `yaml:"workers"`
	MinScore *int `yaml:"min_score"`
}

type rawExplanation struct {
	MaxNames *int `yaml:"max_names"`
}

type rawReport struct {
	SlackWebhookURL string `yaml:"slack_webhook_url"`
	Top             *int   `yaml:"top"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Driver: DriverSQLite,
			DSN:    "skills.db",
		},
		Resolver: ResolverConfig{
			Concurrency:   4,
			LookupTimeout: 2 * time.Second,
			MaxRetries:    2,
			BaseDelay:     100 * time.Millisecond,
			RateLimit:     0,
			Burst:         1,
		},
		Ranking: RankingConfig{
			Workers:  8,
			MinScore: 0,
		},
		Explanation: ExplanationConfig{
			MaxNames: 5,
		},
		Report: ReportConfig{
			Top: 5,
		},
	}
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.Dictionary = raw.Dictionary

	if raw.Repository.Driver != "" {
		cfg.Repository.Driver = strings.ToLower(raw.Repository.Driver)
	}
	if raw.Repository.DSN != "" {
		cfg.Repository.DSN = raw.Repository.DSN
	}
	setIfPresent(&cfg.Repository.MaxConns, raw.Repository.MaxConns)

	var err error
	if raw.Resolver.LookupTimeout != "" {
		cfg.Resolver.LookupTimeout, err = time.ParseDuration(raw.Resolver.LookupTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse resolver.lookup_timeout %q: %w", raw.Resolver.LookupTimeout, err)
		}
	}
	if raw.Resolver.BaseDelay != "" {
		cfg.Resolver.BaseDelay, err = time.ParseDuration(raw.Resolver.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse resolver.base_delay %q: %w", raw.Resolver.BaseDelay, err)
		}
	}
	setIfPresent(&cfg.Resolver.Concurrency, raw.Resolver.Concurrency)
	setIfPresent(&cfg.Resolver.MaxRetries, raw.Resolver.MaxRetries)
	setIfPresent(&cfg.Resolver.RateLimit, raw.Resolver.RateLimit)
	setIfPresent(&cfg.Resolver.Burst, raw.Resolver.Burst)

	setIfPresent(&cfg.Ranking.Workers, raw.Ranking.Workers)
	setIfPresent(&cfg.Ranking.MinScore, raw.Ranking.MinScore)
	setIfPresent(&cfg.Explanation.MaxNames, raw.Explanation.MaxNames)

	cfg.Report.SlackWebhookURL = raw.Report.SlackWebhookURL
	setIfPresent(&cfg.Report.Top, raw.Report.Top)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func validate(cfg *Config) error {
	switch cfg.Repository.Driver {
	case DriverSQLite, DriverPostgres:
		if cfg.Repository.DSN == "" {
			return fmt.Errorf("repository.dsn is required for driver %q", cfg.Repository.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("repository.driver must be one of sqlite, postgres, memory, got %q", cfg.Repository.Driver)
	}
	if cfg.Repository.MaxConns < 0 {
		return fmt.Errorf("repository.max_conns must not be negative, got %d", cfg.Repository.MaxConns)
	}

	r := cfg.Resolver
	if r.Concurrency < 1 {
		return fmt.Errorf("resolver.concurrency must be at least 1, got %d", r.Concurrency)
	}
	if r.LookupTimeout < 0 {
		return fmt.Errorf("resolver.lookup_timeout must not be negative, got %v", r.LookupTimeout)
	}
	if r.MaxRetries < 0 || r.MaxRetries > 10 {
		return fmt.Errorf("resolver.max_retries must be between 0 and 10, got %d", r.MaxRetries)
	}
	if r.BaseDelay < 0 {
		return fmt.Errorf("resolver.base_delay must not be negative, got %v", r.BaseDelay)
	}
	if r.RateLimit < 0 {
		return fmt.Errorf("resolver.rate_limit must not be negative, got %v", r.RateLimit)
	}
	if r.RateLimit > 0 && r.Burst < 1 {
		return fmt.Errorf("resolver.burst must be at least 1 when rate_limit is set, got %d", r.Burst)
	}

	if cfg.Ranking.Workers < 1 {
		return fmt.Errorf("ranking.workers must be at least 1, got %d", cfg.Ranking.Workers)
	}
	if cfg.Ranking.MinScore < 0 || cfg.Ranking.MinScore > 100 {
		return fmt.Errorf("ranking.min_score must be between 0 and 100, got %d", cfg.Ranking.MinScore)
	}
	if cfg.Explanation.MaxNames < 1 {
		return fmt.Errorf("explanation.max_names must be at least 1, got %d", cfg.Explanation.MaxNames)
	}

	if url := cfg.Report.SlackWebhookURL; url != "" && !strings.HasPrefix(url, slackWebhookPrefix) {
		return fmt.Errorf("report.slack_webhook_url must start with %s", slackWebhookPrefix)
	}
	if cfg.Report.Top < 1 {
		return fmt.Errorf("report.top must be at least 1, got %d", cfg.Report.Top)
	}

	return nil
}
