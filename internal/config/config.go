// Package config provides configuration management for the Bet Advisor application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Trading    TradingConfig    `mapstructure:"trading" validate:"required"`
	Feedback   FeedbackConfig   `mapstructure:"feedback" validate:"required"`
	Datasource DatasourceConfig `mapstructure:"datasource"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	HealthPort  int    `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
}

// DatabaseConfig represents database connection configuration. Only
// consulted when the postgres outcome store is selected.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// TradingConfig represents recommendation and bankroll sizing configuration
type TradingConfig struct {
	InitialBalance       float64 `mapstructure:"initial_balance" validate:"required,gt=0"`
	DailyLimit           float64 `mapstructure:"daily_limit" validate:"required,gt=0"`
	KellyFraction        float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxBetFraction       float64 `mapstructure:"max_bet_fraction" validate:"required,gt=0,lte=1"`
	MinBet               float64 `mapstructure:"min_bet" validate:"required,gt=0"`
	ConfidenceThreshold  float64 `mapstructure:"confidence_threshold" validate:"required,gt=0,lt=1"`
	TopN                 int     `mapstructure:"top_n" validate:"required,gt=0"`
	AlwaysSuggestMinimum bool    `mapstructure:"always_suggest_minimum"`
	ResetTimezone        string  `mapstructure:"reset_timezone" validate:"required,timezone"`
}

// FeedbackConfig represents outcome tracking and calibration configuration
type FeedbackConfig struct {
	Backend              string `mapstructure:"backend" validate:"required,oneof=file postgres"`
	StorePath            string `mapstructure:"store_path"`
	MinSamplesImportance int    `mapstructure:"min_samples_importance" validate:"required,gt=0"`
	MinSamplesAdvice     int    `mapstructure:"min_samples_advice" validate:"required,gt=0"`
	CalibrationCacheTTL  int    `mapstructure:"calibration_cache_ttl_seconds" validate:"required,gt=0"`
}

// DatasourceConfig represents the upcoming-games feed configuration
type DatasourceConfig struct {
	FeedURL        string  `mapstructure:"feed_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
