package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"skoview/internal/tpdb"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultTPDBURL      = "https://integrationer.tjansteplattform.se/tpdb/tpdbapi.php/api/v1/"
	defaultDashboardURL = "https://integrationer.tjansteplattform.se/"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	TPDB                tpdb.Config
	DashboardURL        string
	DataPath            string
	LogDir              string
	MetricsAddr         string
	EnableMermaidCharts bool
	DefaultStatTpID     int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	timeoutSecs := getEnvInt("TPDB_TIMEOUT_SECONDS", 60)
	cacheMinutes := getEnvInt("TPDB_CACHE_TTL_MINUTES", 10)

	cfg := &AppConfig{
		TPDB: tpdb.Config{
			BaseURL:  getEnv("TPDB_URL", defaultTPDBURL),
			Timeout:  time.Duration(timeoutSecs) * time.Second,
			CacheTTL: time.Duration(cacheMinutes) * time.Minute,
		},
		DashboardURL:        getEnv("DASHBOARD_URL", defaultDashboardURL),
		DataPath:            dataPath,
		LogDir:              logDir,
		MetricsAddr:         getEnv("METRICS_ADDR", ""),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		DefaultStatTpID:     getEnvInt("DEFAULT_STAT_TP", 3),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric configuration value")
	}
	return fallback
}
