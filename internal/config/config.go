package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime settings. Limits and allowlists live here rather
// than as package constants so tests can construct variants.
type Config struct {
	Port        string
	OpenAIKey   string
	OpenAIModel string

	STTProvider     string
	GoogleProjectID string
	GoogleKeyFile   string

	DatabaseURL string

	MaxUploadBytes   int64
	AllowedMimeTypes []string
	AllowedOrigin    string

	// Words transcribed below this confidence are fed to the analysis prompt
	// and used to backfill the mispronunciation list.
	LowConfidenceThreshold float64
}

// DefaultMimeTypes covers the audio/video containers recorders commonly produce.
var DefaultMimeTypes = []string{
	"audio/webm",
	"audio/mp4",
	"audio/mpeg",
	"audio/wav",
	"audio/x-wav",
	"audio/ogg",
	"audio/aac",
	"video/webm",
	"video/mp4",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		OpenAIKey:              os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		STTProvider:            getEnv("STT_PROVIDER", "openai"),
		GoogleProjectID:        os.Getenv("GOOGLE_STT_PROJECT_ID"),
		GoogleKeyFile:          os.Getenv("GOOGLE_STT_KEY_FILE"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		MaxUploadBytes:         getEnvInt64("MAX_UPLOAD_BYTES", 25*1024*1024),
		AllowedMimeTypes:       DefaultMimeTypes,
		AllowedOrigin:          getEnv("ALLOWED_ORIGIN", "*"),
		LowConfidenceThreshold: getEnvFloat("LOW_CONFIDENCE_THRESHOLD", 0.6),
	}

	if v := os.Getenv("ALLOWED_MIME_TYPES"); v != "" {
		var types []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		cfg.AllowedMimeTypes = types
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required. Set it as an environment variable or in .env")
	}

	return cfg, nil
}

// MimeAllowed reports whether the declared type is in the allowlist.
// Parameters after ";" (e.g. "audio/webm;codecs=opus") are ignored.
func (c *Config) MimeAllowed(mimeType string) bool {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	for _, t := range c.AllowedMimeTypes {
		if base == t {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
