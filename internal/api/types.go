package api

import (
	"forcealign/internal/align"
	"forcealign/internal/logging"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// RunSummary describes a stored run without its result body.
type RunSummary struct {
	ID                string `json:"id"`
	CreatedAt         string `json:"createdAt,omitempty"`
	Source            string `json:"source"`
	Language          string `json:"language,omitempty"`
	InterpolateMethod string `json:"interpolateMethod"`
	Segments          int    `json:"segments"`
	Sentences         int    `json:"sentences"`
	Words             int    `json:"words"`
	Skipped           int    `json:"skipped"`
	DurationMS        int64  `json:"durationMs"`
}

// RunDetail is a stored run with its full alignment.
type RunDetail struct {
	RunSummary
	Result align.Result `json:"result"`
}

// RunListResponse wraps a collection of runs.
type RunListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// AlignResponse is returned by POST /v1/align. RunID is empty when the
// store is disabled.
type AlignResponse struct {
	RunID      string       `json:"runId,omitempty"`
	DurationMS int64        `json:"durationMs"`
	Result     align.Result `json:"result"`
}

// HealthResponse reports server readiness.
type HealthResponse struct {
	Status  string   `json:"status"`
	Store   bool     `json:"store"`
	Methods []string `json:"interpolateMethods"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// LogStreamResponse carries buffered server log events. Next is the cursor
// for the following ?since= request.
type LogStreamResponse struct {
	Events []logging.LogEvent `json:"events"`
	Next   uint64             `json:"next"`
}
