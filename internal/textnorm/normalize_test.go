package textnorm

import (
	"errors"
	"reflect"
	"testing"

	"forcealign/internal/sentence"
)

func englishVocab(t *testing.T) *Vocabulary {
	t.Helper()
	dict := map[string]int{"<pad>": 0, "|": 1}
	for i, r := range "abcdefghijklmnopqrstuvwxyz" {
		dict[string(r)] = i + 2
	}
	vocab, err := NewVocabulary(dict, "")
	if err != nil {
		t.Fatalf("NewVocabulary returned error: %v", err)
	}
	return vocab
}

func TestNormalizeSpaceDelimited(t *testing.T) {
	n := NewNormalizer(englishVocab(t), Options{})

	got, err := n.Normalize("  Hi, yo 42 ")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got.Leading != 2 || got.Trailing != 1 {
		t.Fatalf("unexpected whitespace extents: leading=%d trailing=%d", got.Leading, got.Trailing)
	}
	if got.Transcript() != "hi|yo|" {
		t.Fatalf("Transcript = %q, want %q", got.Transcript(), "hi|yo|")
	}
	if want := []int{2, 3, 5, 6, 7, 8}; !reflect.DeepEqual(got.CharIndex, want) {
		t.Fatalf("CharIndex = %v, want %v", got.CharIndex, want)
	}
	if want := []int{9, 10, 1, 26, 16, 1}; !reflect.DeepEqual(got.Tokens, want) {
		t.Fatalf("Tokens = %v, want %v", got.Tokens, want)
	}
	// Words: "", "", "Hi,", "yo", "42", "".
	if want := []int{2, 3}; !reflect.DeepEqual(got.WordIndex, want) {
		t.Fatalf("WordIndex = %v, want %v", got.WordIndex, want)
	}
	if len(got.Sentences) != 1 || got.Sentences[0] != (sentence.Span{Start: 0, End: 12}) {
		t.Fatalf("unexpected sentences: %v", got.Sentences)
	}
	if idx, ok := got.Lookup(6); !ok || idx != 3 {
		t.Fatalf("Lookup(6) = %d,%v want 3,true", idx, ok)
	}
	if _, ok := got.Lookup(4); ok {
		t.Fatal("Lookup(4) should miss the comma")
	}
}

func TestNormalizeSpaceless(t *testing.T) {
	vocab, err := NewVocabulary(map[string]int{"<pad>": 0, "你": 1, "好": 2}, "")
	if err != nil {
		t.Fatalf("NewVocabulary returned error: %v", err)
	}
	n := NewNormalizer(vocab, Options{Spaceless: true})

	got, err := n.Normalize("你 好。")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(got.Chars, []string{"你", "好"}) {
		t.Fatalf("Chars = %v", got.Chars)
	}
	if want := []int{0, 2}; !reflect.DeepEqual(got.WordIndex, want) {
		t.Fatalf("WordIndex = %v, want %v", got.WordIndex, want)
	}
}

func TestNormalizeNoAlignableChars(t *testing.T) {
	n := NewNormalizer(englishVocab(t), Options{})
	got, err := n.Normalize(" 123 !? ")
	if !errors.Is(err, ErrNoAlignableChars) {
		t.Fatalf("expected ErrNoAlignableChars, got %v", err)
	}
	if len(got.Chars) != 0 || len(got.Sentences) == 0 {
		t.Fatalf("expected empty chars with sentences, got %+v", got)
	}

	if _, err := n.Normalize("   "); !errors.Is(err, ErrNoAlignableChars) {
		t.Fatalf("expected ErrNoAlignableChars for whitespace, got %v", err)
	}
}

func TestNormalizeUsesConfiguredTokenizer(t *testing.T) {
	n := NewNormalizer(englishVocab(t), Options{Tokenizer: sentence.NewPunkt([]string{"dr"})})
	got, err := n.Normalize("Hello. Dr. Smith left.")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(got.Sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %v", got.Sentences)
	}
}
