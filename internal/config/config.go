package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Session SessionConfig
	Upload  UploadConfig
	Stub    StubConfig
}

type AppConfig struct {
	Environment  string
	LogFilePath  string
	OtelEnabled  bool
	OtelEndpoint string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Driver   string // "file", "memory" or "redis"
	Path     string
	RedisURL string
	Prefix   string
}

type SessionConfig struct {
	NotificationPollInterval time.Duration
	DefaultTheme             string
	CancelOnNavigate         bool
}

type UploadConfig struct {
	MaxFiles    int
	MaxFileSize int64
	DownloadDir string
}

type StubConfig struct {
	Port      string
	JWTSecret string
	OTPTTL    time.Duration
	UploadDir string
}

const (
	StorageDriverFile   = "file"
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:  getEnv("APP_ENV", "development"),
			LogFilePath:  getEnv("LOG_FILE_PATH", "talentify.log"),
			OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:5000/api"),
			Timeout: getEnvAsDuration("API_TIMEOUT", "60s"),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", StorageDriverFile),
			Path:     getEnv("STORAGE_PATH", defaultStoragePath()),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			Prefix:   getEnv("STORAGE_PREFIX", "epochfolio_"),
		},
		Session: SessionConfig{
			NotificationPollInterval: getEnvAsDuration("NOTIFICATION_POLL_INTERVAL", "30s"),
			DefaultTheme:             getEnv("DEFAULT_THEME", "light"),
			CancelOnNavigate:         getEnvAsBool("CANCEL_ON_NAVIGATE", false),
		},
		Upload: UploadConfig{
			MaxFiles:    getEnvAsInt("UPLOAD_MAX_FILES", 1000),
			MaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 10485760),
			DownloadDir: getEnv("DOWNLOAD_DIR", "./downloads"),
		},
		Stub: StubConfig{
			Port:      getEnv("STUB_PORT", "5000"),
			JWTSecret: getEnv("JWT_SECRET", "default_secret"),
			OTPTTL:    getEnvAsDuration("STUB_OTP_TTL", "15m"),
			UploadDir: getEnv("STUB_UPLOAD_DIR", "./uploads"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".talentify/session.json"
	}
	return dir + "/talentify/session.json"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback string) time.Duration {
	valueStr := getEnv(key, fallback)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(fallback)
	return duration
}
