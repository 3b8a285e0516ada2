package api_test

import (
	"context"
	"testing"
	"time"

	"forcealign/internal/align"
	"forcealign/internal/api"
	"forcealign/internal/store"
)

type runStoreStub struct {
	runs []store.Run
}

func (s *runStoreStub) List(_ context.Context, limit int) ([]store.Run, error) {
	if limit > 0 && limit < len(s.runs) {
		return s.runs[:limit], nil
	}
	return s.runs, nil
}

func (s *runStoreStub) Get(_ context.Context, id string) (*store.Run, error) {
	for i := range s.runs {
		if s.runs[i].ID == id {
			return &s.runs[i], nil
		}
	}
	return nil, nil
}

func TestRunServiceListConvertsRuns(t *testing.T) {
	created := time.Date(2026, 5, 4, 3, 2, 1, 500_000_000, time.UTC)
	stub := &runStoreStub{runs: []store.Run{{
		ID:                "run-1",
		CreatedAt:         created,
		Source:            store.SourceCLI,
		Language:          "de",
		InterpolateMethod: align.MethodPCHIP,
		Sentences:         3,
		Words:             12,
		Duration:          1500 * time.Millisecond,
	}, {ID: "run-2"}}}

	svc := api.NewRunService(stub)
	runs, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.CreatedAt != "2026-05-04T03:02:01.500Z" {
		t.Fatalf("createdAt = %q", got.CreatedAt)
	}
	if got.DurationMS != 1500 || got.Words != 12 || got.InterpolateMethod != "pchip" {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestRunServiceDescribeIncludesResult(t *testing.T) {
	result := align.Result{WordSegments: []align.WordSegment{{Word: "hi", Start: align.Some(1.0)}}}
	stub := &runStoreStub{runs: []store.Run{{ID: "run-1", Result: &result}}}

	detail, err := api.NewRunService(stub).Describe(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if detail == nil || len(detail.Result.WordSegments) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if missing, _ := api.NewRunService(stub).Describe(context.Background(), "nope"); missing != nil {
		t.Fatalf("expected nil detail for missing run, got %+v", missing)
	}
}

func TestNilRunServiceIsEmpty(t *testing.T) {
	var svc *api.RunService
	runs, err := svc.List(context.Background(), 0)
	if err != nil || runs != nil {
		t.Fatalf("expected empty list, got %v %v", runs, err)
	}
	if api.NewRunService(nil) != nil {
		t.Fatal("expected nil service for nil reader")
	}
}
