package stt

import (
	"context"

	"github.com/darthvader-ux740/speakconfident/internal/media"
)

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe transcribes a validated media payload and returns the result
	Transcribe(ctx context.Context, payload *media.Payload) (*Result, error)

	// Name returns the name of the provider (e.g., "openai", "google")
	Name() string
}
