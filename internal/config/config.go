package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/domain"
)

type Config struct {
	RiotAPIKey        string
	DBPath            string
	ServerPort        string
	LogLevel          string
	DefaultRegion     string
	RiotPlatformURL   string
	DataDragonURL     string
	MaxRetries        int
	RetryDelay        time.Duration
	VersionRefreshTTL time.Duration
	IngestWorkers     int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:      getEnv("RIOT_API_KEY", ""),
		DBPath:          getEnv("DB_PATH", "rchk.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DefaultRegion:   strings.ToUpper(getEnv("DEFAULT_REGION", "NA1")),
		RiotPlatformURL: getEnv("RIOT_PLATFORM_URL", constants.RiotPlatformURL),
		DataDragonURL:   strings.TrimSuffix(getEnv("DATA_DRAGON_URL", constants.DataDragonURL), "/"),
	}

	var err error
	if cfg.MaxRetries, err = getEnvInt("RIOT_MAX_RETRIES", constants.MaxFetchRetries); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = getEnvDuration("RIOT_RETRY_DELAY", constants.RetryDelay); err != nil {
		return nil, err
	}
	if cfg.VersionRefreshTTL, err = getEnvDuration("VERSION_REFRESH_TTL", constants.VersionRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.IngestWorkers, err = getEnvInt("INGEST_WORKERS", constants.DefaultWorkers); err != nil {
		return nil, err
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}
	if !domain.IsRegion(cfg.DefaultRegion) {
		return nil, fmt.Errorf("DEFAULT_REGION %q is not a Riot platform id", cfg.DefaultRegion)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("RIOT_MAX_RETRIES must not be negative")
	}
	if cfg.IngestWorkers < 1 {
		return nil, fmt.Errorf("INGEST_WORKERS must be at least 1")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("default_region", cfg.DefaultRegion).
		Int("max_retries", cfg.MaxRetries).
		Dur("retry_delay", cfg.RetryDelay).
		Dur("version_refresh_ttl", cfg.VersionRefreshTTL).
		Int("ingest_workers", cfg.IngestWorkers).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

var Module = fx.Provide(Load)
