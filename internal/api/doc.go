// Package api holds the alignment workflow shared by the CLI and the HTTP
// server, plus the wire-format types both surfaces emit.
//
// # Workflows
//
// Align: builds an align.Aligner from configuration and per-request
// overrides, runs it, and optionally records the run in the store.
//
// DecodeAlignPayload: parses the single-document request body accepted by
// POST /v1/align (transcript, emissions and vocabulary together).
//
// # Run views
//
// RunService wraps the store for read-only run queries and converts
// store.Run records into RunSummary/RunDetail DTOs.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. The embedded align.Result keeps its own
// snake_case layout (segments, word_segments) so CLI files and API bodies are
// interchangeable. Timestamps use RFC3339 with milliseconds.
package api
