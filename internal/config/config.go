package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the planner.
type Config struct {
	Environment   string `mapstructure:"ENVIRONMENT"`
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	Timezone      string `mapstructure:"TIMEZONE"`
	CloseDayAt    string `mapstructure:"CLOSE_DAY_AT"`
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`

	Location *time.Location `mapstructure:"-"`
}

var defaults = map[string]any{
	"ENVIRONMENT":    "development",
	"DB_DRIVER":      "sqlite",
	"DATABASE_URL":   "household_planner.db",
	"HTTP_ADDR":      ":8080",
	"TIMEZONE":       "Local",
	"CLOSE_DAY_AT":   "23:55",
	"TELEGRAM_TOKEN": "",
	"LOG_LEVEL":      "info",
	"LOG_FILE":       "",
}

// Load reads configuration from environment variables and an optional .env
// file in the working directory, falling back to defaults.
func Load() (Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory to look for .env in.
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.CloseDayAt = strings.TrimSpace(cfg.CloseDayAt)

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL must not be empty")
	}
	switch cfg.DBDriver {
	case "sqlite", "mysql":
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	loc, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
