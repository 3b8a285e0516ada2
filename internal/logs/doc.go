// Package logs is the HTTP client for a running server's /v1/logs stream.
//
// The CLI uses it to tail or follow the in-memory log hub of `forcealign
// serve` without reading log files. Follow mode long-polls, so callers own
// cancellation through the context.
package logs
