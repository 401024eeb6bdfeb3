package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB is the shared connection pool, set by Init.
var DB *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS speech_analyses (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	overall_score INTEGER NOT NULL,
	transcript TEXT,
	mispronunciations JSONB NOT NULL DEFAULT '[]',
	detail JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_speech_analyses_user_created
	ON speech_analyses (user_id, created_at DESC);
`

// Init opens the Postgres pool and ensures the schema exists.
func Init(databaseURL string) error {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	DB = pool
	return nil
}
