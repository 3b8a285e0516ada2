package align

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CharSegment is a run of path points on the same token. End is exclusive.
type CharSegment struct {
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// Length returns the number of frames the segment spans.
func (s CharSegment) Length() int { return s.End - s.Start }

func (s CharSegment) String() string {
	return fmt.Sprintf("%s\t(%4.2f): [%5d, %5d)", s.Label, s.Score, s.Start, s.End)
}

// MergeRepeats collapses consecutive points on the same token into one
// CharSegment scored by the mean of its points. transcript holds the label of
// every token index.
func MergeRepeats(path []Point, transcript []string) []CharSegment {
	var segments []CharSegment
	for i1 := 0; i1 < len(path); {
		i2 := i1
		for i2 < len(path) && path[i2].TokenIndex == path[i1].TokenIndex {
			i2++
		}
		scores := make([]float64, 0, i2-i1)
		for _, p := range path[i1:i2] {
			scores = append(scores, p.Score)
		}
		label := ""
		if idx := path[i1].TokenIndex; idx >= 0 && idx < len(transcript) {
			label = transcript[idx]
		}
		segments = append(segments, CharSegment{
			Label: label,
			Start: path[i1].TimeIndex,
			End:   path[i2-1].TimeIndex + 1,
			Score: stat.Mean(scores, nil),
		})
		i1 = i2
	}
	return segments
}

// MergeWords groups character segments into words split at separator. A
// word's score is the frame-length weighted mean of its characters.
func MergeWords(segments []CharSegment, separator string) []CharSegment {
	var words []CharSegment
	for i1 := 0; i1 < len(segments); {
		if segments[i1].Label == separator {
			i1++
			continue
		}
		i2 := i1
		for i2 < len(segments) && segments[i2].Label != separator {
			i2++
		}
		var label strings.Builder
		scores := make([]float64, 0, i2-i1)
		lengths := make([]float64, 0, i2-i1)
		for _, seg := range segments[i1:i2] {
			label.WriteString(seg.Label)
			scores = append(scores, seg.Score)
			lengths = append(lengths, float64(seg.Length()))
		}
		words = append(words, CharSegment{
			Label: label.String(),
			Start: segments[i1].Start,
			End:   segments[i2-1].End,
			Score: stat.Mean(scores, lengths),
		})
		i1 = i2
	}
	return words
}
