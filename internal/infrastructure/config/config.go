package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Difficulty DifficultyConfig `mapstructure:"difficulty"`
}

// DatabaseConfig holds database configuration. The default driver is
// sqlite3 with a local file; postgres is available for shared setups.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulingConfig holds the empirically tuned session composition
// parameters. They are configuration rather than constants because no
// derivation exists for them; the defaults match the reference tuning.
type SchedulingConfig struct {
	ErrorEaseCutoff      float64 `mapstructure:"error_ease_cutoff"`
	ErrorMinReviews      int     `mapstructure:"error_min_reviews"`
	ErrorMaxAccuracy     float64 `mapstructure:"error_max_accuracy"`
	DrillAttemptCap      int     `mapstructure:"drill_attempt_cap"`
	DrillReinsertOffset  int     `mapstructure:"drill_reinsert_offset"`
	InterleavePoolFactor int     `mapstructure:"interleave_pool_factor"`
}

// DifficultyConfig holds the adaptive difficulty thresholds.
type DifficultyConfig struct {
	CorrectStreak       int     `mapstructure:"correct_streak"`
	WrongStreak         int     `mapstructure:"wrong_streak"`
	IncreaseStep        float64 `mapstructure:"increase_step"`
	DecreaseStep        float64 `mapstructure:"decrease_step"`
	TimePressureFloorMS int     `mapstructure:"time_pressure_floor_ms"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Database defaults
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", "lexikon.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "lexikon")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Session composition defaults
	viper.SetDefault("scheduling.error_ease_cutoff", 1.8)
	viper.SetDefault("scheduling.error_min_reviews", 2)
	viper.SetDefault("scheduling.error_max_accuracy", 0.5)
	viper.SetDefault("scheduling.drill_attempt_cap", 30)
	viper.SetDefault("scheduling.drill_reinsert_offset", 3)
	viper.SetDefault("scheduling.interleave_pool_factor", 3)

	// Adaptive difficulty defaults
	viper.SetDefault("difficulty.correct_streak", 5)
	viper.SetDefault("difficulty.wrong_streak", 3)
	viper.SetDefault("difficulty.increase_step", 0.3)
	viper.SetDefault("difficulty.decrease_step", 0.5)
	viper.SetDefault("difficulty.time_pressure_floor_ms", 1500)
}

// DriverName returns the database/sql driver name for the configured
// database driver.
func (c *Config) DriverName() string {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "postgresql", "pgx":
		return "pgx"
	default:
		return "sqlite3"
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DriverName() == "pgx" {
		return c.DatabaseURL()
	}
	return c.Database.Path
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
