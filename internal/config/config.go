package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Notification NotificationConfig
	Storage      StorageConfig
	Seed         SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the notification outbox.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	Channel    string
	ListKey    string
	ListLength int64
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig controls how composed notifications are handed off.
type NotificationConfig struct {
	EmailFrom string
	QueueSize int
}

// StorageConfig selects where complaint images are kept. An empty S3Bucket
// keeps images inline as data URLs.
type StorageConfig struct {
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PathStyle     bool
	S3PublicBaseURL string
	S3KeyPrefix     string
	MaxImageBytes   int64
}

// SeedConfig toggles loading of demo data at start-up.
type SeedConfig struct {
	MockData bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	maxImageBytes, err := strconv.ParseInt(getEnv("IMAGE_MAX_BYTES", "5242880"), 10, 64)
	if err != nil || maxImageBytes <= 0 {
		return nil, fmt.Errorf("invalid IMAGE_MAX_BYTES: %q", os.Getenv("IMAGE_MAX_BYTES"))
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "complaint-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			Channel:    getEnv("REDIS_NOTIFY_CHANNEL", "complaints.notifications"),
			ListKey:    getEnv("REDIS_NOTIFY_LIST", "complaints:notifications"),
			ListLength: int64(getEnvAsInt("REDIS_NOTIFY_LIST_LENGTH", 500)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			EmailFrom: getEnv("NOTIFY_EMAIL_FROM", "noreply@municipality.example"),
			QueueSize: getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
		},
		Storage: StorageConfig{
			S3Bucket:        os.Getenv("IMAGE_S3_BUCKET"),
			S3Region:        getEnv("IMAGE_S3_REGION", "us-east-1"),
			S3Endpoint:      os.Getenv("IMAGE_S3_ENDPOINT"),
			S3PathStyle:     getEnvAsBool("IMAGE_S3_PATH_STYLE", false),
			S3PublicBaseURL: os.Getenv("IMAGE_S3_PUBLIC_BASE_URL"),
			S3KeyPrefix:     getEnv("IMAGE_S3_KEY_PREFIX", "complaints/"),
			MaxImageBytes:   maxImageBytes,
		},
		Seed: SeedConfig{
			MockData: getEnvAsBool("SEED_MOCK_DATA", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// S3Enabled reports whether images go to S3.
func (s StorageConfig) S3Enabled() bool {
	return s.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
