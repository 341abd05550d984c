package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Telemetry feed
	Telemetry TelemetryConfig

	// TLE catalog
	Celestrak CelestrakConfig

	// Training
	Training TrainingConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// TelemetryConfig holds candidate-measurement feed configuration
type TelemetryConfig struct {
	// Mode selects the measurement source: "live", "mock" or "auto"
	// (auto = live with mock fallback)
	Mode string

	// Ground station REST endpoint serving candidate measurements
	GroundStationURL string

	// Poll interval for the live source
	PollInterval time.Duration

	// Seed for the mock generator (0 = time-based)
	MockSeed int64

	// Number of candidates the mock generator produces per batch
	MockBatchSize int
}

// CelestrakConfig holds TLE catalog configuration
type CelestrakConfig struct {
	BaseURL string
	Group   string // e.g. "starlink", "oneweb"
}

// TrainingConfig holds RL training session defaults
type TrainingConfig struct {
	DefaultAlgorithm  string
	DefaultEpisodes   int
	EpisodeInterval   time.Duration
	MaxSessions       int
	StaleSessionAfter time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8100"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "leoscope"),
			User:            getEnv("DB_USER", "leoscope"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Telemetry feed
		Telemetry: TelemetryConfig{
			Mode:             getEnv("TELEMETRY_MODE", "auto"),
			GroundStationURL: getEnv("GROUND_STATION_URL", "http://localhost:8101/api/measurements"),
			PollInterval:     getEnvAsDuration("TELEMETRY_POLL_INTERVAL", "5s"),
			MockSeed:         int64(getEnvAsInt("TELEMETRY_MOCK_SEED", 42)),
			MockBatchSize:    getEnvAsInt("TELEMETRY_MOCK_BATCH_SIZE", 8),
		},

		// TLE catalog
		Celestrak: CelestrakConfig{
			BaseURL: getEnv("CELESTRAK_BASE_URL", "https://celestrak.org"),
			Group:   getEnv("CELESTRAK_GROUP", "starlink"),
		},

		// Training
		Training: TrainingConfig{
			DefaultAlgorithm:  getEnv("TRAINING_DEFAULT_ALGORITHM", "dqn"),
			DefaultEpisodes:   getEnvAsInt("TRAINING_DEFAULT_EPISODES", 100),
			EpisodeInterval:   getEnvAsDuration("TRAINING_EPISODE_INTERVAL", "500ms"),
			MaxSessions:       getEnvAsInt("TRAINING_MAX_SESSIONS", 10),
			StaleSessionAfter: getEnvAsDuration("TRAINING_STALE_AFTER", "24h"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Telemetry.Mode {
	case "live", "mock", "auto":
	default:
		return fmt.Errorf("TELEMETRY_MODE must be one of: live, mock, auto")
	}

	if c.Telemetry.Mode != "mock" && c.Telemetry.GroundStationURL == "" {
		return fmt.Errorf("GROUND_STATION_URL is required when TELEMETRY_MODE is %q", c.Telemetry.Mode)
	}

	if c.Training.DefaultEpisodes <= 0 {
		return fmt.Errorf("TRAINING_DEFAULT_EPISODES must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
