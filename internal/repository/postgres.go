package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/darthvader-ux740/speakconfident/internal/analysis"
	"github.com/darthvader-ux740/speakconfident/internal/model"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) AnalysisRepository {
	return &postgresRepository{db: db}
}

// Create inserts a new analysis record
func (r *postgresRepository) Create(ctx context.Context, rec *model.SpeechAnalysis) error {
	query := `
		INSERT INTO speech_analyses (
			id, user_id, overall_score, transcript, mispronunciations, detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	mispronJSON, err := json.Marshal(rec.Mispronunciations)
	if err != nil {
		return fmt.Errorf("failed to marshal mispronunciations: %w", err)
	}
	detailJSON, err := json.Marshal(rec.Detail)
	if err != nil {
		return fmt.Errorf("failed to marshal detail: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.OverallScore,
		rec.Transcript,
		mispronJSON,
		detailJSON,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}

	return nil
}

// GetByID retrieves one analysis owned by userID
func (r *postgresRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.SpeechAnalysis, error) {
	query := `
		SELECT id, user_id, overall_score, transcript, mispronunciations, detail, created_at
		FROM speech_analyses
		WHERE id = $1 AND user_id = $2
	`

	rec, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// ListByUser retrieves analyses for a user with pagination, newest first
func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.SpeechAnalysis, error) {
	query := `
		SELECT id, user_id, overall_score, transcript, mispronunciations, detail, created_at
		FROM speech_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []model.SpeechAnalysis
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Delete removes one analysis owned by userID
func (r *postgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM speech_analyses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*model.SpeechAnalysis, error) {
	var (
		rec         model.SpeechAnalysis
		mispronJSON []byte
		detailJSON  []byte
		createdAt   time.Time
	)

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.OverallScore,
		&rec.Transcript,
		&mispronJSON,
		&detailJSON,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = createdAt

	if len(mispronJSON) > 0 {
		if err := json.Unmarshal(mispronJSON, &rec.Mispronunciations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal mispronunciations: %w", err)
		}
	}
	if len(detailJSON) > 0 {
		rec.Detail = &analysis.Result{}
		if err := json.Unmarshal(detailJSON, rec.Detail); err != nil {
			return nil, fmt.Errorf("failed to unmarshal detail: %w", err)
		}
	}

	return &rec, nil
}
