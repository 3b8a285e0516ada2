// Package services defines shared utilities consumed by the alignment core,
// the HTTP API, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, segment indices, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that separate hard
//     failures (validation, configuration) from transient ones and translate
//     them into HTTP status codes.
//
// Use these helpers when wiring new components so operational behaviour (error
// handling, observability) stays uniform across the module.
package services
