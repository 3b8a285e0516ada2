// Package language provides language code normalization and per-language
// alignment metadata.
//
// Transcripts arrive tagged with whatever the upstream recognizer emitted
// ("en", "eng", "English"); everything downstream keys on ISO 639-1. The
// package also knows which languages are written without spaces and which
// CTC alignment model is the conventional default for each language.
package language
