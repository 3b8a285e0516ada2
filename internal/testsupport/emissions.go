package testsupport

import (
	"math"
	"testing"
)

// EnglishAlphabet is the character set of EnglishVocabulary.
const EnglishAlphabet = "abcdefghijklmnopqrstuvwxyz'"

// EnglishVocabulary returns a wav2vec2-style vocabulary: "<pad>" is 0, the
// word separator "|" is 1, then the alphabet.
func EnglishVocabulary() map[string]int {
	dict := map[string]int{"<pad>": 0, "|": 1}
	for i, r := range EnglishAlphabet {
		dict[string(r)] = i + 2
	}
	return dict
}

// Tokens maps a normalized transcript (spaces already replaced by "|") onto
// dict codes.
func Tokens(t testing.TB, dict map[string]int, transcript string) []int {
	t.Helper()
	tokens := make([]int, 0, len(transcript))
	for _, r := range transcript {
		code, ok := dict[string(r)]
		if !ok {
			t.Fatalf("character %q not in test vocabulary", r)
		}
		tokens = append(tokens, code)
	}
	return tokens
}

// SyntheticEmission builds log-probabilities whose best path emits token k at
// frame 1+k*framesPerToken and blank everywhere else. The result has
// 1+len(tokens)*framesPerToken frames of the given width.
func SyntheticEmission(tokens []int, width, blank, framesPerToken int) [][]float64 {
	if framesPerToken < 1 {
		framesPerToken = 1
	}
	const peak = 0.9
	high := math.Log(peak)
	low := math.Log((1 - peak) / float64(width-1))

	frame := func(code int) []float64 {
		row := make([]float64, width)
		for i := range row {
			row[i] = low
		}
		row[code] = high
		return row
	}

	rows := [][]float64{frame(blank)}
	for _, tok := range tokens {
		rows = append(rows, frame(tok))
		for range framesPerToken - 1 {
			rows = append(rows, frame(blank))
		}
	}
	return rows
}

// AlignPayload builds a POST /v1/align document for one English segment
// per entry of normalized (spaces written as "|"). texts holds the raw
// segment text; each segment spans exactly its frame count starting at 0.
func AlignPayload(t testing.TB, texts, normalized []string, framesPerToken int) map[string]any {
	t.Helper()
	if len(texts) != len(normalized) {
		t.Fatalf("AlignPayload: %d texts for %d transcripts", len(texts), len(normalized))
	}
	dict := EnglishVocabulary()
	segments := make([]map[string]any, 0, len(texts))
	emissions := make([][][]float64, 0, len(texts))
	offset := 0.0
	for i, text := range texts {
		rows := SyntheticEmission(Tokens(t, dict, normalized[i]), len(dict), 0, framesPerToken)
		segments = append(segments, map[string]any{
			"start": offset,
			"end":   offset + float64(len(rows)),
			"text":  text,
		})
		emissions = append(emissions, rows)
		offset += float64(len(rows))
	}
	return map[string]any{
		"language":      "en",
		"segments":      segments,
		"emissions":     emissions,
		"vocabulary":    dict,
		"audioDuration": offset,
	}
}
