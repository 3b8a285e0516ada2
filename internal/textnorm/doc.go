// Package textnorm prepares transcript text for alignment.
//
// A Vocabulary maps lowercase characters to the integer codes of an acoustic
// model's output layer. The Normalizer reduces a segment's text to the
// characters that vocabulary can score, remembering where each one came from
// so timings can be mapped back onto the original text, and records word and
// sentence structure for the aggregation stage.
package textnorm
