// Package config loads bot configuration from a yaml file and environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/gsantin/spesebot/internal/errors"
)

// Config holds all configuration for the bot.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// TelegramConfig holds bot transport settings.
type TelegramConfig struct {
	Token         string `mapstructure:"token"`
	AllowedUserID int64  `mapstructure:"allowed_user_id"`
}

// ExtractorConfig holds receipt-extraction service settings.
type ExtractorConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	Timeout   int    `mapstructure:"timeout"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// StorageConfig selects and configures the expense sink backend.
type StorageConfig struct {
	Backend         string `mapstructure:"backend"` // sheets | sqlite | memory
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
	SQLitePath      string `mapstructure:"sqlite_path"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// Load reads configuration from the given file (optional) and from
// SPESEBOT_* environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPESEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrConfigNotFound.Code, "read config file")
		}
	} else {
		v.SetConfigName("spesebot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/spesebot")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("extractor.base_url", "https://api.openai.com/v1")
	v.SetDefault("extractor.model", "gpt-4o-mini")
	v.SetDefault("extractor.timeout", 60)
	v.SetDefault("extractor.max_tokens", 512)

	v.SetDefault("storage.backend", "sheets")
	v.SetDefault("storage.sqlite_path", "./data/spesebot.db")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.address", ":9090")

	v.SetDefault("log.development", false)
}

// Validate checks required settings for the selected backends.
func (c *Config) Validate() error {
	var problems []string

	if c.Telegram.Token == "" {
		problems = append(problems, "telegram.token is required")
	}
	if c.Telegram.AllowedUserID == 0 {
		problems = append(problems, "telegram.allowed_user_id is required")
	}

	switch c.Storage.Backend {
	case "sheets":
		if c.Storage.SpreadsheetID == "" {
			problems = append(problems, "storage.spreadsheet_id is required for the sheets backend")
		}
		if c.Storage.CredentialsFile == "" && c.Storage.CredentialsJSON == "" {
			problems = append(problems, "storage.credentials_file or storage.credentials_json is required for the sheets backend")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			problems = append(problems, "storage.sqlite_path is required for the sqlite backend")
		}
	case "memory":
		// Nothing to check; rows live only in process memory.
	default:
		problems = append(problems, fmt.Sprintf("unknown storage.backend %q (want sheets, sqlite or memory)", c.Storage.Backend))
	}

	if c.Extractor.APIKey == "" {
		problems = append(problems, "extractor.api_key is required")
	}

	if len(problems) > 0 {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, strings.Join(problems, "; "))
	}
	return nil
}
