package align

// MergeIdenticalSentences merges every sentence sharing an identical
// (start, end) pair into the first one with that pair. Texts are joined with
// a space, or directly for space-less languages; words and chars are
// concatenated in order.
func MergeIdenticalSentences(sentences []SentenceSegment, spaceless bool) []SentenceSegment {
	type key struct{ start, end float64 }

	sep := " "
	if spaceless {
		sep = ""
	}

	merged := make([]SentenceSegment, 0, len(sentences))
	index := make(map[key]int, len(sentences))
	for _, s := range sentences {
		k := key{s.Start, s.End}
		i, ok := index[k]
		if !ok {
			index[k] = len(merged)
			s.Words = append([]WordSegment{}, s.Words...)
			if s.Chars != nil {
				s.Chars = append([]CharTiming{}, s.Chars...)
			}
			merged = append(merged, s)
			continue
		}
		dst := &merged[i]
		dst.Text += sep + s.Text
		dst.Words = append(dst.Words, s.Words...)
		if s.Chars != nil {
			dst.Chars = append(dst.Chars, s.Chars...)
		}
	}
	return merged
}
