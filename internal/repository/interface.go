package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/darthvader-ux740/speakconfident/internal/model"
)

// AnalysisRepository defines the interface for speech analysis data access.
// Reads and deletes are owner-scoped: a caller only ever sees its own rows.
type AnalysisRepository interface {
	// Create inserts a new analysis record
	Create(ctx context.Context, rec *model.SpeechAnalysis) error

	// GetByID retrieves one analysis owned by userID
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.SpeechAnalysis, error)

	// ListByUser retrieves analyses for a user with pagination, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.SpeechAnalysis, error)

	// Delete removes one analysis owned by userID
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ErrNotFound is returned when no row matches the id/owner pair.
var ErrNotFound = errors.New("analysis not found")
