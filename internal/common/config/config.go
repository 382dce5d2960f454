// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig holds settings for the external completion service.
type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	RetryDelay  int     `mapstructure:"retry_delay"` // milliseconds
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"` // narrative calls only; SQL generation pins 0
}

// PipelineConfig holds the resolution pipeline settings.
type PipelineConfig struct {
	QueryTimeout      int `mapstructure:"query_timeout"`      // milliseconds, per database round trip
	ConversationTTL   int `mapstructure:"conversation_ttl"`   // seconds, session store expiry
	ExchangeRateTTL   int `mapstructure:"exchange_rate_ttl"`  // seconds, cached reference rate
	MaxConversational int `mapstructure:"max_conversational"` // prior turns spliced into prompts
}

// LimitsConfig overrides the ceilings of the business limits table.
// Bounded ranges (profitability, percentages) are fixed business facts and
// not configurable.
type LimitsConfig struct {
	MaxSingleDistribution float64 `mapstructure:"max_single_distribution"`
	MaxDailyRevenue       float64 `mapstructure:"max_daily_revenue"`
	MaxMonthlyRevenue     float64 `mapstructure:"max_monthly_revenue"`
	MaxDailyExpense       float64 `mapstructure:"max_daily_expense"`
	MaxMonthlyExpense     float64 `mapstructure:"max_monthly_expense"`
	MaxSingleWithdrawal   float64 `mapstructure:"max_single_withdrawal"`
	ExchangeRateMin       float64 `mapstructure:"exchange_rate_min"`
	ExchangeRateMax       float64 `mapstructure:"exchange_rate_max"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
