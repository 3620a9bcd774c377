// Package config handles configuration loading for StockSentinel.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Providers  ProvidersConfig  `mapstructure:"providers"  yaml:"providers"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"   yaml:"analysis"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// ProvidersConfig holds news and market data provider settings.
type ProvidersConfig struct {
	NewsAPIKey string  `mapstructure:"newsapi_key"  yaml:"newsapi_key"`
	FinnhubKey string  `mapstructure:"finnhub_key"  yaml:"finnhub_key"`
	TimeoutSec int     `mapstructure:"timeout_sec"  yaml:"timeout_sec"`
	CacheTTL   int     `mapstructure:"cache_ttl"    yaml:"cache_ttl"`    // seconds, 0 disables
	RatePerSec float64 `mapstructure:"rate_per_sec" yaml:"rate_per_sec"` // per provider
	Concurrent bool    `mapstructure:"concurrent"   yaml:"concurrent"`   // fan out provider fetches
}

// ClassifierConfig holds sentiment classifier settings.
type ClassifierConfig struct {
	Provider   string `mapstructure:"provider"    yaml:"provider"` // "finbert" or "lexicon"
	Model      string `mapstructure:"model"       yaml:"model"`
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	APIToken   string `mapstructure:"api_token"   yaml:"api_token"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AnalysisConfig holds analysis defaults used by the CLI and API.
type AnalysisConfig struct {
	DefaultDays        int    `mapstructure:"default_days"         yaml:"default_days"`
	DefaultMaxArticles int    `mapstructure:"default_max_articles" yaml:"default_max_articles"`
	OutputDir          string `mapstructure:"output_dir"           yaml:"output_dir"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   string `mapstructure:"file"   yaml:"file"`   // optional, e.g. "logs/stocksentinel.log"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stocksentinel/config.yaml (home directory)
//  3. /etc/stocksentinel/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKSENTINEL_<SECTION>_<KEY>, e.g., STOCKSENTINEL_PROVIDERS_NEWSAPI_KEY
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stocksentinel"))
	v.AddConfigPath("/etc/stocksentinel")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOCKSENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Provider defaults
	v.SetDefault("providers.timeout_sec", 10)
	v.SetDefault("providers.cache_ttl", 300) // 5 minutes
	v.SetDefault("providers.rate_per_sec", 2.0)
	v.SetDefault("providers.concurrent", true)

	// Classifier defaults
	v.SetDefault("classifier.provider", "finbert")
	v.SetDefault("classifier.model", "ProsusAI/finbert")
	v.SetDefault("classifier.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("classifier.timeout_sec", 30)

	// Analysis defaults
	v.SetDefault("analysis.default_days", 7)
	v.SetDefault("analysis.default_max_articles", 50)
	v.SetDefault("analysis.output_dir", "data/processed")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

// Environment variables holding secrets. The bare names are the ones used by
// the provider docs and existing .env files.
var (
	newsAPIKeyEnv = []string{"STOCKSENTINEL_PROVIDERS_NEWSAPI_KEY", "NEWS_API_KEY"}
	finnhubKeyEnv = []string{"STOCKSENTINEL_PROVIDERS_FINNHUB_KEY", "FINNHUB_API_KEY"}
	hfAPITokenEnv = []string{"STOCKSENTINEL_CLASSIFIER_API_TOKEN", "HF_API_TOKEN"}
)

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := firstEnv(newsAPIKeyEnv...); key != "" {
		cfg.Providers.NewsAPIKey = key
	}
	if key := firstEnv(finnhubKeyEnv...); key != "" {
		cfg.Providers.FinnhubKey = key
	}
	if key := firstEnv(hfAPITokenEnv...); key != "" {
		cfg.Classifier.APIToken = key
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
