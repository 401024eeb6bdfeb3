package stt

import (
	"fmt"
	"log"
	"strings"

	"github.com/darthvader-ux740/speakconfident/internal/config"
)

// CreateProvider creates an STT provider based on configuration
func CreateProvider(cfg *config.Config) (Provider, error) {
	name := strings.ToLower(cfg.STTProvider)

	if name == "" {
		name = "openai"
		log.Printf("[STT Factory] STT_PROVIDER not set, defaulting to 'openai'")
	}

	switch name {
	case "openai", "whisper":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai STT provider")
		}
		log.Printf("[STT Factory] Creating OpenAI Whisper provider")
		return NewWhisperProvider(cfg.OpenAIKey), nil
	case "google":
		if cfg.GoogleKeyFile == "" {
			return nil, fmt.Errorf("GOOGLE_STT_KEY_FILE is required for the google STT provider. It can be an API key, a key file path, or a credentials JSON string")
		}
		log.Printf("[STT Factory] Creating Google STT provider")
		return NewGoogleProvider(cfg.GoogleProjectID, cfg.GoogleKeyFile)
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: openai, google", name)
	}
}
