// Package config provides configuration management for the Tightlines platform.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Live     LiveConfig     `mapstructure:"live"`
	Client   ClientConfig   `mapstructure:"client" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Health   HealthConfig   `mapstructure:"health"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the public REST API listener
type ServerConfig struct {
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	CORSOrigins           []string `mapstructure:"cors_origins" validate:"required,min=1"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	MaxPageSize           int      `mapstructure:"max_page_size" validate:"required,gt=0"`
}

// ScheduleConfig controls how competition schedules are interpreted and refreshed
type ScheduleConfig struct {
	Timezone    string `mapstructure:"timezone" validate:"required,timezone"`
	RefreshCron string `mapstructure:"refresh_cron" validate:"required,cron"`
}

// CacheConfig represents server-side response caching
type CacheConfig struct {
	CompetitionsTTLSeconds int `mapstructure:"competitions_ttl_seconds" validate:"required,gt=0"`
	LeaderboardTTLSeconds  int `mapstructure:"leaderboard_ttl_seconds" validate:"required,gt=0"`
}

// LiveConfig represents the websocket leaderboard feed
type LiveConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	SendBufferSize int  `mapstructure:"send_buffer_size" validate:"omitempty,gt=0"`
}

// ClientConfig represents the REST client used by tightctl
type ClientConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the standalone health check listener
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name" validate:"required_if=Enabled true"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
	DaemonAddr   string  `mapstructure:"daemon_addr" validate:"required_if=Enabled true"`
}

// SecretsConfig enables the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
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

// ListenAddr returns the API listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CompetitionsTTL returns the competition listing cache lifetime
func (c *Config) CompetitionsTTL() time.Duration {
	return time.Duration(c.Cache.CompetitionsTTLSeconds) * time.Second
}

// LeaderboardTTL returns the leaderboard cache lifetime
func (c *Config) LeaderboardTTL() time.Duration {
	return time.Duration(c.Cache.LeaderboardTTLSeconds) * time.Second
}
