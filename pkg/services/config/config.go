// Package config loads toolkit settings from a YAML profile plus provider
// credentials from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the full toolkit profile. Zero values fall back to defaults
// applied by LoadConfig.
type Config struct {
	DatabasePath  string `mapstructure:"database_path"`
	TableVersion  string `mapstructure:"table_version"`
	WeightsPath   string `mapstructure:"weights_path"`
	OnMissingData string `mapstructure:"on_missing_data"`

	Batch struct {
		Workers int `mapstructure:"workers"`
		TopN    int `mapstructure:"top_n"`
	} `mapstructure:"batch"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Collect struct {
		Schedule  string `mapstructure:"schedule"`
		NewsLimit int    `mapstructure:"news_limit"`
	} `mapstructure:"collect"`

	Credentials Credentials `mapstructure:"-"`
}

// Credentials are read from the environment, never from the profile file.
type Credentials struct {
	DARTAPIKey        string
	KISAppKey         string
	KISAppSecret      string
	NaverClientID     string
	NaverClientSecret string
}

// LoadConfig reads the profile at path. An empty path yields a default
// config so every command works without a profile file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyDefaults(&cfg)
	cfg.Credentials = credentialsFromEnv()
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "value_atlas.db"
	}
	if cfg.TableVersion == "" {
		cfg.TableVersion = "v110"
	}
	if cfg.OnMissingData == "" {
		cfg.OnMissingData = "partial"
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 4
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Collect.NewsLimit == 0 {
		cfg.Collect.NewsLimit = 20
	}
}

func credentialsFromEnv() Credentials {
	return Credentials{
		DARTAPIKey:        os.Getenv("DART_API_KEY"),
		KISAppKey:         os.Getenv("KIS_APP_KEY"),
		KISAppSecret:      os.Getenv("KIS_APP_SECRET"),
		NaverClientID:     os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret: os.Getenv("NAVER_CLIENT_SECRET"),
	}
}

// ValidateFilings checks the credentials the filings collector needs.
func (c *Config) ValidateFilings() error {
	if c.Credentials.DARTAPIKey == "" {
		return fmt.Errorf("DART_API_KEY is not set")
	}
	return nil
}

// ValidateQuotes checks the credentials the quote collector needs.
func (c *Config) ValidateQuotes() error {
	if c.Credentials.KISAppKey == "" || c.Credentials.KISAppSecret == "" {
		return fmt.Errorf("KIS_APP_KEY and KIS_APP_SECRET must both be set")
	}
	return nil
}

// ValidateNews checks the credentials the news collector needs.
func (c *Config) ValidateNews() error {
	if c.Credentials.NaverClientID == "" || c.Credentials.NaverClientSecret == "" {
		return fmt.Errorf("NAVER_CLIENT_ID and NAVER_CLIENT_SECRET must both be set")
	}
	return nil
}
