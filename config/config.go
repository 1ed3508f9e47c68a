package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type AWSConfig struct {
	Region string
	Bucket string
	// Endpoint overrides the S3 endpoint (localstack in dev/tests).
	Endpoint string
}

func (c *AWSConfig) Validate() error {
	if c.Region == "" {
		return errors.New("AWS_REGION is required")
	}
	if c.Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	return nil
}

type ServiceConfig struct {
	HTTPAddr string
}

// Limits holds the upload admission ceilings and the session lifetime.
type Limits struct {
	SessionTTL          time.Duration
	MaxPhotosPerSession int
	MaxFileSizeMB       int64
}

func (l *Limits) MaxFileSizeBytes() int64 {
	return l.MaxFileSizeMB * 1024 * 1024
}

type Config struct {
	Env string

	AWSConfig     *AWSConfig
	ServiceConfig *ServiceConfig
	Limits        *Limits

	Tracing     bool
	TracingAddr string
}

func LoadConfig() Config {
	return Config{
		Env: envOr("ENV", "dev"),
		AWSConfig: &AWSConfig{
			Region:   envOr("AWS_REGION", "us-east-1"),
			Bucket:   os.Getenv("S3_BUCKET"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
		},
		ServiceConfig: &ServiceConfig{
			HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		},
		Limits: &Limits{
			SessionTTL:          time.Duration(envInt("SESSION_TTL_DAYS", 7)) * 24 * time.Hour,
			MaxPhotosPerSession: envInt("MAX_PHOTOS_PER_SESSION", 50),
			MaxFileSizeMB:       int64(envInt("MAX_FILE_SIZE_MB", 25)),
		},
		Tracing:     envBool("TRACING"),
		TracingAddr: envOr("TRACING_ADDR", "localhost:4318"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
