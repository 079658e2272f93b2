package server

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service, read once at startup.
// Defaults are applied here rather than scattered through handler logic.
type Config struct {
	Addr string // e.g. ":8080"

	DatabaseURL string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	Bucket      string

	PresignExpiry      time.Duration // lifetime of minted download URLs
	MaxUploadBytes     int64         // 0 = unlimited
	DefaultContentType string        // applied when the client omits one
}

// LoadConfig reads configuration from the environment (and a .env file if
// one is present). Missing required keys are reported as an error so the
// binary can refuse to start.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("service=backend msg=%q", "no .env file, using environment")
	}

	cfg := Config{
		Addr:               envString("FIS_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		S3Endpoint:         os.Getenv("FIS_S3_ENDPOINT"),
		S3AccessKey:        os.Getenv("FIS_S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("FIS_S3_SECRET_KEY"),
		Bucket:             os.Getenv("FIS_BUCKET"),
		PresignExpiry:      envDuration("FIS_PRESIGN_EXPIRY", time.Hour),
		DefaultContentType: envString("FIS_DEFAULT_CONTENT_TYPE", "application/octet-stream"),
	}

	limit, err := envInt64("FIS_MAX_UPLOAD_BYTES", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes = limit

	required := map[string]string{
		"DATABASE_URL":      cfg.DatabaseURL,
		"FIS_S3_ENDPOINT":   cfg.S3Endpoint,
		"FIS_S3_ACCESS_KEY": cfg.S3AccessKey,
		"FIS_S3_SECRET_KEY": cfg.S3SecretKey,
		"FIS_BUCKET":        cfg.Bucket,
	}
	for key, v := range required {
		if v == "" {
			return Config{}, fmt.Errorf("missing required env var %s", key)
		}
	}

	return cfg, nil
}

func envString(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("service=backend msg=%q key=%s value=%q", "invalid duration, using default", key, v)
		return def
	}
	return d
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
