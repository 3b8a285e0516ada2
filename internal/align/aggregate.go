package align

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"forcealign/internal/textnorm"
)

// WordSegment is one word's timing. Absent fields could not be resolved.
type WordSegment struct {
	Word  string            `json:"word"`
	Start Optional[float64] `json:"start,omitzero"`
	End   Optional[float64] `json:"end,omitzero"`
	Score Optional[float64] `json:"score,omitzero"`
}

// CharTiming is one original-text character's timing.
type CharTiming struct {
	Char  string            `json:"char"`
	Start Optional[float64] `json:"start,omitzero"`
	End   Optional[float64] `json:"end,omitzero"`
	Score Optional[float64] `json:"score,omitzero"`
}

// SentenceSegment is one aligned sentence. Chars is only set when character
// detail was requested.
type SentenceSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []WordSegment `json:"words"`
	Chars []CharTiming  `json:"chars,omitzero"`
}

// sentenceDraft is a sentence before its missing bounds are interpolated.
type sentenceDraft struct {
	text  string
	start Optional[float64]
	end   Optional[float64]
	words []WordSegment
	chars []CharTiming
}

type charRecord struct {
	CharTiming
	word int
}

// frameRatio converts trellis frames to segment units. It is derived from
// this segment's own span and channel count only.
func frameRatio(seg Segment, tr *Trellis) float64 {
	channels := seg.Channels
	if channels <= 0 {
		channels = 1
	}
	return (seg.End - seg.Start) * float64(channels) / float64(tr.Rows()-1)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// timeChars assigns every rune of the original text its timing, or none when
// it was not aligned, and tags it with a word index.
func timeChars(seg Segment, norm textnorm.Normalized, chars []CharSegment, ratio float64, spaceless bool) []charRecord {
	records := make([]charRecord, len(norm.Text))
	word := 0
	for cdx, r := range norm.Text {
		rec := charRecord{CharTiming: CharTiming{Char: string(r)}, word: word}
		if i, ok := norm.Lookup(cdx); ok && i < len(chars) {
			cs := chars[i]
			rec.Start = Some(round3(float64(cs.Start)*ratio + seg.Start))
			rec.End = Some(round3(float64(cs.End)*ratio + seg.Start))
			rec.Score = Some(round3(cs.Score))
		}
		records[cdx] = rec

		// A space opens the next word rather than closing this one.
		if spaceless || cdx == len(norm.Text)-1 || norm.Text[cdx+1] == ' ' {
			word++
		}
	}
	return records
}

// aggregate groups character timings into sentences and words.
func aggregate(records []charRecord, norm textnorm.Normalized, withChars bool) []sentenceDraft {
	drafts := make([]sentenceDraft, 0, len(norm.Sentences))
	for _, span := range norm.Sentences {
		lo, hi := max(span.Start, 0), min(span.End, len(records))
		if lo >= hi {
			continue
		}
		curr := records[lo:hi]

		draft := sentenceDraft{
			text:  strings.TrimSpace(span.Slice(norm.Text)),
			words: []WordSegment{},
		}
		for _, rec := range curr {
			draft.start = minOptional(draft.start, rec.Start)
			if rec.Char != " " {
				draft.end = maxOptional(draft.end, rec.End)
			}
		}

		for i1 := 0; i1 < len(curr); {
			i2 := i1
			for i2 < len(curr) && curr[i2].word == curr[i1].word {
				i2++
			}
			if w, ok := wordFromChars(curr[i1:i2]); ok {
				draft.words = append(draft.words, w)
			}
			i1 = i2
		}

		if withChars {
			draft.chars = make([]CharTiming, 0, len(curr))
			for _, rec := range curr {
				draft.chars = append(draft.chars, rec.CharTiming)
			}
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

func wordFromChars(chars []charRecord) (WordSegment, bool) {
	var text strings.Builder
	for _, c := range chars {
		text.WriteString(c.Char)
	}
	w := WordSegment{Word: strings.TrimSpace(text.String())}
	if w.Word == "" {
		return w, false
	}

	var scores []float64
	for _, c := range chars {
		if c.Char == " " {
			continue
		}
		w.Start = minOptional(w.Start, c.Start)
		w.End = maxOptional(w.End, c.End)
		if s, ok := c.Score.Get(); ok {
			scores = append(scores, s)
		}
	}
	if len(scores) > 0 {
		w.Score = Some(round3(stat.Mean(scores, nil)))
	}
	return w, true
}

func minOptional(acc, v Optional[float64]) Optional[float64] {
	x, ok := v.Get()
	if !ok {
		return acc
	}
	if cur, ok := acc.Get(); ok && cur <= x {
		return acc
	}
	return v
}

func maxOptional(acc, v Optional[float64]) Optional[float64] {
	x, ok := v.Get()
	if !ok {
		return acc
	}
	if cur, ok := acc.Get(); ok && cur >= x {
		return acc
	}
	return v
}
