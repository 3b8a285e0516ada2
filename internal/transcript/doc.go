// Package transcript reads alignment inputs from disk or request bodies.
//
// Transcripts use the WhisperX result layout ({"language", "segments"}), so
// recognizer output can be aligned as-is. Emission matrices are stored one
// per segment under "emissions"; a JSON null stands for a log-probability of
// negative infinity.
package transcript
