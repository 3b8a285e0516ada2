package api

import (
	"context"

	"forcealign/internal/store"
)

// RunReader abstracts store interactions needed for run queries.
type RunReader interface {
	List(ctx context.Context, limit int) ([]store.Run, error)
	Get(ctx context.Context, id string) (*store.Run, error)
}

// RunService exposes read-only run operations returning API DTOs.
type RunService struct {
	store RunReader
}

// NewRunService constructs a RunService around the provided reader.
func NewRunService(reader RunReader) *RunService {
	if reader == nil {
		return nil
	}
	return &RunService{store: reader}
}

// List returns run summaries, newest first.
func (s *RunService) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return FromRuns(runs), nil
}

// Describe fetches a single run with its result.
func (s *RunService) Describe(ctx context.Context, id string) (*RunDetail, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromRunDetail(run), nil
}
