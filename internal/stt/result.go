package stt

import (
	"sort"
	"strings"

	"github.com/darthvader-ux740/speakconfident/internal/analysis"
)

// Word is a single transcribed word with timing and, when the provider
// supplies it, a per-word confidence estimate.
type Word struct {
	Text       string
	Start      float64 // seconds from clip start
	End        float64
	Confidence float64 // [0,1], 0 when the provider gives none
}

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript      string
	DurationSeconds float64
	Words           []Word
	Confidence      float64 // aggregate confidence, may be 0 if not provided
	Provider        string
	RawResponse     string // raw provider response, for debugging/logging
}

// WordCount prefers the per-word list; falls back to splitting the transcript.
func (r *Result) WordCount() int {
	if len(r.Words) > 0 {
		return len(r.Words)
	}
	return len(strings.Fields(r.Transcript))
}

// LowConfidenceWords returns up to max words transcribed below threshold,
// worst first. Words without a confidence estimate are skipped.
func (r *Result) LowConfidenceWords(threshold float64, max int) []analysis.UnclearWord {
	var unclear []analysis.UnclearWord
	for _, w := range r.Words {
		if w.Confidence > 0 && w.Confidence < threshold {
			unclear = append(unclear, analysis.UnclearWord{
				Word:       w.Text,
				Start:      w.Start,
				Confidence: w.Confidence,
			})
		}
	}
	sort.SliceStable(unclear, func(i, j int) bool {
		return unclear[i].Confidence < unclear[j].Confidence
	})
	if max > 0 && len(unclear) > max {
		unclear = unclear[:max]
	}
	return unclear
}
