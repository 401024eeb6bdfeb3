package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"

	"github.com/sashabaranov/go-openai"

	"github.com/darthvader-ux740/speakconfident/internal/media"
)

// WhisperProvider implements STT using the OpenAI Whisper transcription API
type WhisperProvider struct {
	client *openai.Client
}

// NewWhisperProvider creates a new OpenAI Whisper provider
func NewWhisperProvider(apiKey string) *WhisperProvider {
	return &WhisperProvider{client: openai.NewClient(apiKey)}
}

// Name returns the provider name
func (p *WhisperProvider) Name() string {
	return "openai"
}

// Transcribe decodes the payload and sends it to the Whisper API, requesting
// verbose JSON with word timestamps. Whisper has no per-word confidence, so
// each word inherits an estimate derived from its segment's average logprob.
func (p *WhisperProvider) Transcribe(ctx context.Context, payload *media.Payload) (*Result, error) {
	audioBytes, err := base64.StdEncoding.DecodeString(payload.Base64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	log.Printf("[Whisper] Transcribing %s: %d bytes, type %s",
		payload.FileName, len(audioBytes), payload.MimeType)

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audioBytes),
		FilePath: payload.FileName,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
			openai.TranscriptionTimestampGranularityWord,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w", err)
	}

	words := make([]Word, 0, len(resp.Words))
	for _, w := range resp.Words {
		words = append(words, Word{
			Text:       w.Word,
			Start:      w.Start,
			End:        w.End,
			Confidence: segmentConfidence(&resp, w.Start),
		})
	}

	var confidence float64
	if len(words) > 0 {
		var sum float64
		for _, w := range words {
			sum += w.Confidence
		}
		confidence = sum / float64(len(words))
	}

	result := &Result{
		Transcript:      resp.Text,
		DurationSeconds: resp.Duration,
		Words:           words,
		Confidence:      confidence,
		Provider:        p.Name(),
	}

	log.Printf("[Whisper] Transcription done: %d words, %.1fs, confidence %.2f",
		result.WordCount(), result.DurationSeconds, result.Confidence)

	return result, nil
}

// segmentConfidence maps a word's start offset to the enclosing segment and
// converts that segment's average logprob into a probability.
func segmentConfidence(resp *openai.AudioResponse, start float64) float64 {
	for _, seg := range resp.Segments {
		if start >= seg.Start && start < seg.End {
			return math.Exp(seg.AvgLogprob)
		}
	}
	if len(resp.Segments) > 0 {
		return math.Exp(resp.Segments[len(resp.Segments)-1].AvgLogprob)
	}
	return 0
}
