package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Database   DatabaseConfig   `envconfig:"DATABASE"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
	Redis      RedisConfig      `envconfig:"REDIS"`
	Trending   TrendingConfig   `envconfig:"TRENDING"`
	Trainer    TrainerConfig    `envconfig:"TRAINER"`
	Forecast   ForecastConfig   `envconfig:"FORECAST"`
	Health     HealthConfig     `envconfig:"HEALTH"`
	Logging    LoggingConfig    `envconfig:"LOGGING"`
}

// DatabaseConfig represents Postgres connection parameters
type DatabaseConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	Name           string `envconfig:"DB_NAME" default:"trending"`
	User           string `envconfig:"DB_USER" required:"true"`
	Password       string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
}

// ClickHouseConfig represents the optional analytics counter store.
// When disabled, counter queries fall back to Postgres.
type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database string `envconfig:"CLICKHOUSE_DATABASE" default:"analytics"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD" required:"false"`
}

// RedisConfig represents Redis connection parameters
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" required:"false"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// TrendingConfig represents scoring/ranking parameters
type TrendingConfig struct {
	Lookback        time.Duration `envconfig:"TRENDING_LOOKBACK" default:"168h"`
	CacheTTL        time.Duration `envconfig:"TRENDING_CACHE_TTL" default:"5m"`
	RefreshInterval time.Duration `envconfig:"TRENDING_REFRESH_INTERVAL" default:"5m"`
}

// TrainerConfig represents model training parameters
type TrainerConfig struct {
	Interval     time.Duration `envconfig:"TRAINER_INTERVAL" default:"6h"`
	Lookback     time.Duration `envconfig:"TRAINER_LOOKBACK" default:"720h"`
	MinExamples  int           `envconfig:"TRAINER_MIN_EXAMPLES" default:"100"`
	LearningRate float64       `envconfig:"TRAINER_LEARNING_RATE" default:"0.01"`
	MaxEpochs    int           `envconfig:"TRAINER_MAX_EPOCHS" default:"1000"`
	MSEThreshold float64       `envconfig:"TRAINER_MSE_THRESHOLD" default:"0.0001"`
	LockTTL      time.Duration `envconfig:"TRAINER_LOCK_TTL" default:"15m"`
}

// ForecastConfig represents keyword trend forecasting parameters
type ForecastConfig struct {
	Lookback        time.Duration `envconfig:"FORECAST_LOOKBACK" default:"720h"`
	MinObservations int           `envconfig:"FORECAST_MIN_OBSERVATIONS" default:"5"`
	HorizonDays     int           `envconfig:"FORECAST_HORIZON_DAYS" default:"7"`
	Interval        time.Duration `envconfig:"FORECAST_INTERVAL" default:"24h"`
}

// HealthConfig represents health server parameters
type HealthConfig struct {
	Port string `envconfig:"HEALTH_PORT" default:"8080"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Trainer.MinExamples <= 0 {
		return fmt.Errorf("trainer min examples must be positive, got %d", c.Trainer.MinExamples)
	}
	if c.Trainer.LearningRate <= 0 {
		return fmt.Errorf("trainer learning rate must be positive, got %f", c.Trainer.LearningRate)
	}
	if c.Trainer.MaxEpochs <= 0 {
		return fmt.Errorf("trainer max epochs must be positive, got %d", c.Trainer.MaxEpochs)
	}
	if c.Forecast.MinObservations < 2 {
		return fmt.Errorf("forecast needs at least 2 observations per keyword, got %d", c.Forecast.MinObservations)
	}
	if c.Trending.CacheTTL <= 0 {
		return fmt.Errorf("trending cache TTL must be positive, got %s", c.Trending.CacheTTL)
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetDSN returns ClickHouse connection string
func (c *ClickHouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}
