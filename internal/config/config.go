package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Generator GeneratorConfig
	Dataset   DatasetConfig
	Export    ExportConfig
	Cache     CacheConfig
	Kafka     KafkaConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// GeneratorConfig controls dataset synthesis. A zero Seed means the
// generator seeds itself and output is not reproducible.
type GeneratorConfig struct {
	StartYear     int
	EndYear       int
	ProjectedYear int
	Seed          uint64
	ClampNegative bool
	ReferenceFile string
}

// DatasetConfig controls the stored dataset.
type DatasetConfig struct {
	RefreshOnStart bool
}

// ExportConfig holds the export root directory.
type ExportConfig struct {
	Dir string
}

// CacheConfig holds TTLs for the query cache.
type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// KafkaConfig holds the dataset event publisher settings.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "heritage")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:8501")
	v.SetDefault("GENERATOR_START_YEAR", 2020)
	v.SetDefault("GENERATOR_END_YEAR", 2024)
	v.SetDefault("GENERATOR_PROJECTED_YEAR", 2025)
	v.SetDefault("GENERATOR_SEED", 0)
	v.SetDefault("GENERATOR_CLAMP_NEGATIVE", true)
	v.SetDefault("GENERATOR_REFERENCE_FILE", "")
	v.SetDefault("DATASET_REFRESH_ON_START", false)
	v.SetDefault("EXPORT_DIR", "exports")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("CACHE_CLEANUP_INTERVAL", "20m")
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "heritage-tourism-records")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseList(v.GetString("CORS_ORIGINS")),
		},
		Generator: GeneratorConfig{
			StartYear:     v.GetInt("GENERATOR_START_YEAR"),
			EndYear:       v.GetInt("GENERATOR_END_YEAR"),
			ProjectedYear: v.GetInt("GENERATOR_PROJECTED_YEAR"),
			Seed:          v.GetUint64("GENERATOR_SEED"),
			ClampNegative: v.GetBool("GENERATOR_CLAMP_NEGATIVE"),
			ReferenceFile: v.GetString("GENERATOR_REFERENCE_FILE"),
		},
		Dataset: DatasetConfig{
			RefreshOnStart: v.GetBool("DATASET_REFRESH_ON_START"),
		},
		Export: ExportConfig{
			Dir: v.GetString("EXPORT_DIR"),
		},
		Cache: CacheConfig{
			TTL:             v.GetDuration("CACHE_TTL"),
			CleanupInterval: v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: parseList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings every command needs. Database settings are
// checked separately by ValidateDatabase so the generator CLI can run
// without a database.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Generator.StartYear < 1900 || c.Generator.StartYear > 2100 {
		return fmt.Errorf("GENERATOR_START_YEAR must be between 1900 and 2100")
	}
	if c.Generator.EndYear < c.Generator.StartYear || c.Generator.EndYear > 2100 {
		return fmt.Errorf("GENERATOR_END_YEAR must be between GENERATOR_START_YEAR and 2100")
	}
	if c.Generator.ProjectedYear != 0 && c.Generator.ProjectedYear <= c.Generator.EndYear {
		return fmt.Errorf("GENERATOR_PROJECTED_YEAR must be after GENERATOR_END_YEAR or 0")
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_ENABLED is set")
		}
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// ValidateDatabase checks the database settings.
func (c *Config) ValidateDatabase() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseList splits a comma-separated string into trimmed, non-empty parts.
func parseList(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
