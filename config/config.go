package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	CacheDir     string
	CacheBackend string
	CacheDBPath  string
	CacheTTL     time.Duration
	DefaultLang  string
	YTDLPPath    string
	FetchTimeout time.Duration
	FetchRate    float64
	FetchBurst   int
	LogLevel     string
	LogFormat    string
	LogFile      string
}

func LoadConfig() *Config {
	cacheDir := GetEnv("CACHE_DIR", filepath.Join(os.TempDir(), "ytcapt_cache"))
	return &Config{
		CacheDir:     cacheDir,
		CacheBackend: GetEnv("CACHE_BACKEND", "file"),
		CacheDBPath:  GetEnv("CACHE_DB_PATH", filepath.Join(cacheDir, "transcripts.db")),
		CacheTTL:     getEnvAsDuration("CACHE_TTL", 7*24*time.Hour),
		DefaultLang:  GetEnv("DEFAULT_LANG", "ko"),
		YTDLPPath:    GetEnv("YTDLP_PATH", "yt-dlp"),
		FetchTimeout: getEnvAsDuration("FETCH_TIMEOUT", 2*time.Minute),
		FetchRate:    getEnvAsFloat("FETCH_RATE", 1),
		FetchBurst:   getEnvAsInt("FETCH_BURST", 2),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
		LogFormat:    GetEnv("LOG_FORMAT", "text"),
		LogFile:      GetEnv("LOG_FILE", ""),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid number, using default")
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.CacheBackend != "file" && cfg.CacheBackend != "sqlite" {
		return errors.Errorf("unsupported cache backend %q (expected file or sqlite)", cfg.CacheBackend)
	}
	if cfg.CacheDir == "" {
		return errors.New("cache directory is required")
	}
	if cfg.CacheBackend == "sqlite" && cfg.CacheDBPath == "" {
		return errors.New("cache database path is required")
	}
	if cfg.CacheTTL <= 0 {
		return errors.New("cache TTL must be greater than 0")
	}
	if cfg.DefaultLang == "" {
		return errors.New("default language is required")
	}
	if cfg.YTDLPPath == "" {
		return errors.New("yt-dlp path is required")
	}
	if cfg.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be greater than 0")
	}
	if cfg.FetchRate <= 0 {
		return errors.New("fetch rate must be greater than 0")
	}
	if cfg.FetchBurst <= 0 {
		return errors.New("fetch burst must be greater than 0")
	}
	return nil
}
