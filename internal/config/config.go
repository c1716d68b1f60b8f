package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	_baseURLDefault          = "https://public-api.etoro.com/api/v1"
	_primaryTimeoutDefault   = 30 * time.Second
	_secondaryTimeoutDefault = 10 * time.Second
	_requestsPerMinDefault   = 240
	_tradeHistoryDaysDefault = 90
	_tradePageSizeDefault    = 500
	_candleIntervalDefault   = "OneDay"
	_candleCountDefault      = 90
	_cacheDirDefault         = ".portfolio-sync"
	_logLevelDefault         = "info"
)

// Config holds the pipeline settings loaded from YAML. Credentials never
// live here; they come from the environment or the local cache.
type Config struct {
	BaseURL          string        `yaml:"base_url"`
	PrimaryTimeout   time.Duration `yaml:"primary_timeout"`
	SecondaryTimeout time.Duration `yaml:"secondary_timeout"`
	RequestsPerMin   int           `yaml:"requests_per_minute"`
	TradeHistoryDays int           `yaml:"trade_history_days"`
	TradePageSize    int           `yaml:"trade_page_size"`
	CandleInterval   string        `yaml:"candle_interval"`
	CandleCount      int           `yaml:"candle_count"`
	CacheDir         string        `yaml:"cache_dir"`
	LogLevel         string        `yaml:"log_level"`
}

func (c *Config) ValidateAndSetup() error {
	if c.BaseURL == "" {
		c.BaseURL = _baseURLDefault
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: invalid base url", err)
	}

	if c.PrimaryTimeout <= 0 {
		c.PrimaryTimeout = _primaryTimeoutDefault
	}
	if c.SecondaryTimeout <= 0 {
		c.SecondaryTimeout = _secondaryTimeoutDefault
	}
	if c.RequestsPerMin <= 0 {
		c.RequestsPerMin = _requestsPerMinDefault
	}
	if c.TradeHistoryDays <= 0 {
		c.TradeHistoryDays = _tradeHistoryDaysDefault
	}
	if c.TradePageSize <= 0 {
		c.TradePageSize = _tradePageSizeDefault
	}
	if c.CandleInterval == "" {
		c.CandleInterval = _candleIntervalDefault
	}
	if c.CandleCount <= 0 {
		c.CandleCount = _candleCountDefault
	}
	if c.CacheDir == "" {
		c.CacheDir = _cacheDirDefault
	}
	if c.LogLevel == "" {
		c.LogLevel = _logLevelDefault
	}

	return nil
}

// Load reads a YAML config file and applies defaults. A missing file is not
// an error: the defaults describe a working setup.
func Load(filename string) (Config, error) {
	var cfg Config

	input, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.ValidateAndSetup(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}

// Env carries the environment-provided pieces: credentials and the server
// port. Loaded after godotenv so a .env file works too.
type Env struct {
	APIKey  string `envconfig:"ETORO_API_KEY"`
	UserKey string `envconfig:"ETORO_USER_KEY"`
	Port    string `envconfig:"PORT" default:"8080"`
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return env, fmt.Errorf("%w: can't process env config", err)
	}
	return env, nil
}
