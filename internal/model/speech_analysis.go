package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/darthvader-ux740/speakconfident/internal/analysis"
)

// SpeechAnalysis is one persisted analysis row. The full category and
// sub-metric detail lives in a single JSON blob; the columns pulled out of
// it (overall score, transcript, mispronunciations) are the ones history
// views list without unpacking the report.
type SpeechAnalysis struct {
	ID                uuid.UUID                   `json:"id"`
	UserID            uuid.UUID                   `json:"user_id"`
	OverallScore      int                         `json:"overall_score"`
	Transcript        *string                     `json:"transcript,omitempty"`
	Mispronunciations []analysis.Mispronunciation `json:"mispronunciations"`
	Detail            *analysis.Result            `json:"detail"`
	CreatedAt         time.Time                   `json:"created_at"`
}
