package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS generation_runs (
    run_id             TEXT PRIMARY KEY,
    started_at         INTEGER NOT NULL,
    input_path         TEXT NOT NULL,
    input_bytes        INTEGER NOT NULL,
    token_count        INTEGER NOT NULL,
    initial_tokens     INTEGER NOT NULL,
    transition_sources INTEGER NOT NULL,
    output             TEXT NOT NULL,
    train_ms           INTEGER NOT NULL,
    generate_ms        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generation_runs_started ON generation_runs (started_at);
`

// Run is one recorded invocation of the generator. The trained model itself
// is never stored.
type Run struct {
	ID                string
	StartedAt         time.Time
	InputPath         string
	InputBytes        int64
	TokenCount        int
	InitialTokens     int
	TransitionSources int
	Output            string
	TrainDuration     time.Duration
	GenerateDuration  time.Duration
}

// HistoryStore keeps the local run log in a SQLite database.
type HistoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func setupHistorySchema(db *sql.DB) error {
	_, err := db.Exec(historySchema)
	return err
}

// OpenHistory opens (creating if needed) the run log at dataSource.
func OpenHistory(dataSource string, logger *slog.Logger) (*HistoryStore, error) {
	db, err := initDB(dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err = setupHistorySchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup history schema: %w", err)
	}
	return &HistoryStore{db: db, logger: logger}, nil
}

// Close releases the database connection.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Record stores run, assigning it an ID when it has none.
func (h *HistoryStore) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO generation_runs (run_id, started_at, input_path, input_bytes, token_count,
			initial_tokens, transition_sources, output, train_ms, generate_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.InputPath, run.InputBytes, run.TokenCount,
		run.InitialTokens, run.TransitionSources, run.Output,
		run.TrainDuration.Milliseconds(), run.GenerateDuration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}

	h.logger.DebugContext(ctx, "Run recorded", slog.String("run_id", run.ID))
	return nil
}

// Recent returns up to limit runs, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT run_id, started_at, input_path, input_bytes, token_count,
			initial_tokens, transition_sources, output, train_ms, generate_ms
		FROM generation_runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []Run
	for rows.Next() {
		var run Run
		var startedMs, trainMs, generateMs int64
		if err = rows.Scan(&run.ID, &startedMs, &run.InputPath, &run.InputBytes, &run.TokenCount,
			&run.InitialTokens, &run.TransitionSources, &run.Output, &trainMs, &generateMs); err != nil {
			return nil, err
		}
		run.StartedAt = time.UnixMilli(startedMs)
		run.TrainDuration = time.Duration(trainMs) * time.Millisecond
		run.GenerateDuration = time.Duration(generateMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
