// Package config provides centralized default values for quartzgo
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func loadEnvFile(files ...string) {
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(files...); err == nil {
		log.Println("Loaded configuration overrides from .env file")
	}
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	// Directories
	ContentDir     string
	OutputDir      string
	SiteConfigPath string

	// Build
	BuildConcurrency int
	WatchDebounce    time.Duration

	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	AllowedOrigins     []string

	// Content index
	DBPath         string
	TursoDatabase  string
	TursoAuthToken string

	// Logging
	LogLevel     string
	LogDirectory string
	LogToFile    bool
	LogJSON      bool
)

func init() {
	Load()
}

// Load reads every setting from the environment, after applying overrides
// from the given .env files (".env" when none are given).
func Load(envFiles ...string) {
	loadEnvFile(envFiles...)

	ContentDir = getEnvString("CONTENT_DIR", "content")
	OutputDir = getEnvString("OUTPUT_DIR", "public")
	SiteConfigPath = getEnvString("SITE_CONFIG", "")

	BuildConcurrency = getEnvInt("BUILD_CONCURRENCY", 8)
	WatchDebounce = getEnvDuration("WATCH_DEBOUNCE", 250*time.Millisecond)

	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	AllowedOrigins = getEnvList("ALLOWED_ORIGINS", []string{
		"http://localhost:8080",
		"http://127.0.0.1:8080",
		"http://[::1]:8080",
	})

	DBPath = getEnvString("DB_PATH", ".quartz-cache/index.db")
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")

	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", false)
}
