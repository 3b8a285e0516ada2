package textnorm

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"forcealign/internal/sentence"
)

// ErrNoAlignableChars reports text with no character the vocabulary scores.
var ErrNoAlignableChars = errors.New("no characters in this segment found in vocabulary")

// DefaultSeparator is the wav2vec2 symbol standing in for a space.
const DefaultSeparator = "|"

// Options configures a Normalizer.
type Options struct {
	// Spaceless treats every character as its own word and keeps spaces as-is.
	Spaceless bool
	// Separator replaces spaces in space-delimited text. Defaults to "|".
	Separator string
	// Tokenizer splits text into sentences. Defaults to Punkt with the
	// default abbreviations.
	Tokenizer sentence.Tokenizer
}

// Normalized is the alignable view of one segment's text.
type Normalized struct {
	// Text holds the original runes; every index below points into it.
	Text []rune
	// Chars are the lowercased, in-vocabulary characters in text order.
	Chars []string
	// Tokens are the vocabulary codes of Chars.
	Tokens []int
	// CharIndex[i] is the rune offset of Chars[i] in Text.
	CharIndex []int
	// WordIndex lists the words containing at least one scored character.
	WordIndex []int
	// Sentences partition Text.
	Sentences []sentence.Span
	// Leading and Trailing count whitespace runes excluded at either end.
	Leading  int
	Trailing int
}

// Transcript returns the clean characters joined together.
func (n Normalized) Transcript() string {
	return strings.Join(n.Chars, "")
}

// Lookup returns the position of rune offset idx within Chars.
func (n Normalized) Lookup(idx int) (int, bool) {
	// CharIndex is strictly increasing.
	lo, hi := 0, len(n.CharIndex)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if n.CharIndex[mid] < idx {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(n.CharIndex) && n.CharIndex[lo] == idx {
		return lo, true
	}
	return 0, false
}

// Normalizer reduces text to the characters a vocabulary can score.
type Normalizer struct {
	vocab *Vocabulary
	opts  Options
}

// NewNormalizer returns a Normalizer for vocab. It is safe for concurrent use
// when the configured tokenizer is.
func NewNormalizer(vocab *Vocabulary, opts Options) *Normalizer {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = sentence.NewPunkt(nil)
	}
	return &Normalizer{vocab: vocab, opts: opts}
}

// Normalize computes clean characters, word indices and sentence spans for
// text. When no character is in the vocabulary the result is still filled in
// and ErrNoAlignableChars is returned.
func (n *Normalizer) Normalize(text string) (Normalized, error) {
	runes := []rune(text)
	out := Normalized{Text: runes}
	caser := cases.Lower(language.Und)

	for out.Leading < len(runes) && unicode.IsSpace(runes[out.Leading]) {
		out.Leading++
	}
	for out.Trailing < len(runes) && unicode.IsSpace(runes[len(runes)-1-out.Trailing]) {
		out.Trailing++
	}

	last := len(runes) - out.Trailing - 1
	for cdx, r := range runes {
		if cdx < out.Leading || cdx > last {
			continue
		}
		char := n.normalizeRune(caser, r)
		code, ok := n.vocab.codes[char]
		if !ok {
			continue
		}
		out.Chars = append(out.Chars, char)
		out.Tokens = append(out.Tokens, code)
		out.CharIndex = append(out.CharIndex, cdx)
	}

	for wdx, word := range n.words(runes) {
		for _, r := range word {
			if _, ok := n.vocab.codes[caser.String(string(r))]; ok {
				out.WordIndex = append(out.WordIndex, wdx)
				break
			}
		}
	}

	out.Sentences = n.opts.Tokenizer.SpanTokenize(text)

	if len(out.Chars) == 0 {
		return out, ErrNoAlignableChars
	}
	return out, nil
}

func (n *Normalizer) normalizeRune(caser cases.Caser, r rune) string {
	if r == ' ' && !n.opts.Spaceless {
		return n.opts.Separator
	}
	return caser.String(string(r))
}

func (n *Normalizer) words(runes []rune) [][]rune {
	if n.opts.Spaceless {
		words := make([][]rune, len(runes))
		for i := range runes {
			words[i] = runes[i : i+1]
		}
		return words
	}
	var words [][]rune
	start := 0
	for i, r := range runes {
		if r == ' ' {
			words = append(words, runes[start:i])
			start = i + 1
		}
	}
	return append(words, runes[start:])
}
