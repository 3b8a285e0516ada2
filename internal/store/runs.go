package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"forcealign/internal/align"
	"forcealign/internal/services"
)

// Run sources.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

// Run is one persisted alignment. Result is only populated by Get.
type Run struct {
	ID                string        `json:"id"`
	CreatedAt         time.Time     `json:"created_at"`
	Source            string        `json:"source"`
	Language          string        `json:"language,omitempty"`
	InterpolateMethod string        `json:"interpolate_method"`
	Segments          int           `json:"segments"`
	Sentences         int           `json:"sentences"`
	Words             int           `json:"words"`
	Skipped           int           `json:"skipped"`
	Duration          time.Duration `json:"duration_ns"`
	Result            *align.Result `json:"result,omitempty"`
}

// NewRun summarizes a result for persistence.
func NewRun(source, lang, method string, segments int, result align.Result, elapsed time.Duration) Run {
	return Run{
		Source:            source,
		Language:          lang,
		InterpolateMethod: method,
		Segments:          segments,
		Sentences:         len(result.Segments),
		Words:             len(result.WordSegments),
		Skipped:           len(result.Skipped),
		Duration:          elapsed,
		Result:            &result,
	}
}

const runColumns = "id, created_at, source, language, interpolate_method, segment_count, sentence_count, word_count, skipped_count, duration_ms"

// Insert persists run, assigning an ID and creation time when unset.
func (s *Store) Insert(ctx context.Context, run Run) (Run, error) {
	if run.Result == nil {
		return Run{}, services.Wrap(services.ErrValidation, "store", "insert run", "result is required", nil)
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if strings.TrimSpace(run.Source) == "" {
		run.Source = SourceCLI
	}
	payload, err := json.Marshal(run.Result)
	if err != nil {
		return Run{}, fmt.Errorf("marshal result: %w", err)
	}

	err = s.execWithoutResultRetry(ctx,
		`INSERT INTO runs (
            id, created_at, source, language, interpolate_method,
            segment_count, sentence_count, word_count, skipped_count, duration_ms, result_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		nullableString(run.Language),
		run.InterpolateMethod,
		run.Segments,
		run.Sentences,
		run.Words,
		run.Skipped,
		run.Duration.Milliseconds(),
		string(payload),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Get loads a run including its full result.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+", result_json FROM runs WHERE id = ?", id)

	var payload string
	run, err := scanRun(row, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get run", fmt.Sprintf("run %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var result align.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode run %s result: %w", id, err)
	}
	run.Result = &result
	return run, nil
}

// List returns run summaries, newest first. A limit of zero or less returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Prune deletes runs created before cutoff and reports how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }, payload *string) (*Run, error) {
	var (
		run        Run
		createdRaw string
		lang       sql.NullString
		durationMS int64
	)
	dest := []any{
		&run.ID,
		&createdRaw,
		&run.Source,
		&lang,
		&run.InterpolateMethod,
		&run.Segments,
		&run.Sentences,
		&run.Words,
		&run.Skipped,
		&durationMS,
	}
	if payload != nil {
		dest = append(dest, payload)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	run.CreatedAt = created
	run.Language = lang.String
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
