package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// Matchmaker is the external match-creation service.
	MatchmakerURL     string
	MatchmakerTimeout time.Duration
	MatchmakerRPS     float64

	// Queue lag absorption: how long the completion monitor polls the read
	// model for writes that were enqueued but possibly not yet applied.
	QueuePollAttempts int
	QueuePollDelay    time.Duration

	// ReconcileInterval drives the re-provisioning scan for matches the
	// matchmaker call failed on.
	ReconcileInterval time.Duration

	// Cloudflare R2, used for finished-bracket archives. Optional: archiving
	// is disabled when unset.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	matchmakerURL := os.Getenv("MATCHMAKER_URL")
	if matchmakerURL == "" {
		return nil, fmt.Errorf("MATCHMAKER_URL environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	pollAttempts, err := intEnv("QUEUE_POLL_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	if pollAttempts < 1 {
		return nil, fmt.Errorf("QUEUE_POLL_ATTEMPTS must be at least 1, got %d", pollAttempts)
	}

	pollDelayMs, err := intEnv("QUEUE_POLL_DELAY_MS", 400)
	if err != nil {
		return nil, err
	}

	reconcileSec, err := intEnv("RECONCILE_INTERVAL_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		MatchmakerURL:     matchmakerURL,
		MatchmakerTimeout: 10 * time.Second,
		MatchmakerRPS:     5,
		QueuePollAttempts: pollAttempts,
		QueuePollDelay:    time.Duration(pollDelayMs) * time.Millisecond,
		ReconcileInterval: time.Duration(reconcileSec) * time.Second,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// ArchivingEnabled reports whether the R2 credentials are complete.
func (c *Config) ArchivingEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return value, nil
}
