package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string

	JWTSecret string
	TokenTTL  time.Duration

	StorageEndpoint string
	StorageBucket   string
	StorageAPIKey   string

	// Static admin allowlist. When empty the admin check falls back to
	// the is_admin flag on the person row.
	AdminIDs []string

	ProofMaxBytes     int
	ProofMaxDimension int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:            getEnv("DB_PATH", "distance.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          24 * time.Hour,
		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", "distance_proofs"),
		StorageAPIKey:     getEnv("STORAGE_API_KEY", ""),
		AdminIDs:          splitList(getEnv("ADMIN_IDS", "")),
		ProofMaxBytes:     getEnvInt("PROOF_MAX_BYTES", 300*1024),
		ProofMaxDimension: getEnvInt("PROOF_MAX_DIMENSION", 1280),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageEndpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("storage_bucket", cfg.StorageBucket).
		Int("admin_allowlist", len(cfg.AdminIDs)).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
