// Package sentence splits text into sentence spans.
//
// Spans are half-open rune offsets that partition the input: every rune
// belongs to exactly one span, and the whitespace between two sentences is
// attached to the sentence before it. The default Punkt tokenizer follows
// the Punkt conventions (abbreviation exceptions, lowercase continuation)
// without a trained model.
package sentence
