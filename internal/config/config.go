package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" envconfig:"DB_PATH"`
}

type AuthConfig struct {
	SessionTimeout time.Duration `mapstructure:"session_timeout" envconfig:"SESSION_TIMEOUT"`
}

type ScheduleConfig struct {
	DefaultDurationMinutes int `mapstructure:"default_duration_minutes" envconfig:"DEFAULT_DURATION_MINUTES"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" envconfig:"LOG_LEVEL"`
}

// Load reads config.yml if present, falls back to defaults otherwise, and
// lets CLINIC_* environment variables override either.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.path", "data/clinic.db")
	viper.SetDefault("auth.session_timeout", "8h")
	viper.SetDefault("schedule.default_duration_minutes", 30)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("clinic", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}
