package sentence

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Span is a half-open range [Start, End) of rune offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether rune offset idx falls inside the span.
func (s Span) Contains(idx int) bool { return idx >= s.Start && idx < s.End }

// Slice returns the span's runes of text as a string, clamped to its bounds.
func (s Span) Slice(text []rune) string {
	start, end := max(s.Start, 0), min(s.End, len(text))
	if start >= end {
		return ""
	}
	return string(text[start:end])
}

// Tokenizer produces sentence spans that partition text.
type Tokenizer interface {
	SpanTokenize(text string) []Span
}

// DefaultAbbreviations never terminate a sentence unless configured otherwise.
var DefaultAbbreviations = []string{"dr", "vs", "mr", "mrs", "prof"}

// Punkt is a rule-based sentence splitter in the style of the Punkt
// tokenizer run with a fixed abbreviation list and no learned statistics.
type Punkt struct {
	abbrevs map[string]struct{}
}

// NewPunkt builds a tokenizer with the given abbreviations. Entries are
// matched case-insensitively and a trailing period is ignored. A nil slice
// selects DefaultAbbreviations; an empty non-nil slice disables them.
func NewPunkt(abbrevs []string) *Punkt {
	if abbrevs == nil {
		abbrevs = DefaultAbbreviations
	}
	p := &Punkt{abbrevs: make(map[string]struct{}, len(abbrevs))}
	for _, a := range abbrevs {
		a = strings.TrimSuffix(strings.TrimSpace(a), ".")
		if a == "" {
			continue
		}
		p.abbrevs[cases.Lower(language.Und).String(a)] = struct{}{}
	}
	return p
}

// IsAbbreviation reports whether word (with or without its period) is a
// configured abbreviation.
func (p *Punkt) IsAbbreviation(word string) bool {
	word = strings.TrimSuffix(strings.TrimSpace(word), ".")
	word = strings.TrimLeftFunc(word, isOpeningPunct)
	_, ok := p.abbrevs[cases.Lower(language.Und).String(word)]
	return ok
}

// SpanTokenize splits text into sentence spans. Empty text yields no spans.
func (p *Punkt) SpanTokenize(text string) []Span {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var spans []Span
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !isTerminal(r) && !isWideTerminal(r) {
			continue
		}

		// Consume the whole terminator run plus closing quotes and brackets.
		k := i + 1
		for k < len(runes) && (isTerminal(runes[k]) || isWideTerminal(runes[k]) || isClosingPunct(runes[k])) {
			k++
		}
		if !p.breaksAt(runes, i, k) {
			i = k - 1
			continue
		}
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}
		spans = append(spans, Span{Start: start, End: k})
		start = k
		i = k - 1
	}
	if start < len(runes) {
		spans = append(spans, Span{Start: start, End: len(runes)})
	}
	return spans
}

// breaksAt decides whether the terminator run runes[i:k] ends a sentence.
func (p *Punkt) breaksAt(runes []rune, i, k int) bool {
	if isWideTerminal(runes[i]) {
		return true
	}
	if k < len(runes) && !unicode.IsSpace(runes[k]) {
		return false
	}

	if runes[i] == '.' && (i+1 == k || !isTerminal(runes[i+1])) {
		wordStart := i
		for wordStart > 0 && !unicode.IsSpace(runes[wordStart-1]) {
			wordStart--
		}
		if wordStart < i && p.IsAbbreviation(string(runes[wordStart:i])) {
			return false
		}
	}

	next := k
	for next < len(runes) && unicode.IsSpace(runes[next]) {
		next++
	}
	if next < len(runes) && unicode.IsLower(runes[next]) {
		return false
	}
	return true
}

func isTerminal(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

func isWideTerminal(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func isClosingPunct(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '»', '”', '’', '」', '』':
		return true
	}
	return false
}

func isOpeningPunct(r rune) bool {
	switch r {
	case '"', '\'', '(', '[', '{', '«', '“', '‘', '「', '『':
		return true
	}
	return false
}
