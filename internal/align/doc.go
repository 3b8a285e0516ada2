// Package align computes character, word and sentence timestamps for a known
// transcript from per-frame emission log-probabilities.
//
// For each segment the text is normalized against the vocabulary, a trellis
// over (frame, token prefix) is filled, the best monotonic path is traced
// back and collapsed into character runs, and those runs are mapped onto the
// original text to produce word and sentence timings. Sentences whose timing
// cannot be resolved are interpolated from their neighbours, and sentences
// that end up sharing a time range are merged.
//
// A segment that cannot be aligned (no scorable characters, starting past the
// end of the audio, or a path that never consumes every token) falls back to
// its original timing with no words. Everything else that goes wrong is a
// caller error and is returned.
package align
