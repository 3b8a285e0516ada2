package textnorm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewVocabularyResolvesBlank(t *testing.T) {
	tests := []struct {
		name  string
		dict  map[string]int
		token string
		blank int
	}{
		{"bracket pad", map[string]int{"[PAD]": 3, "a": 0}, "", 3},
		{"angle pad", map[string]int{"<pad>": 0, "a": 1}, "", 0},
		{"override", map[string]int{"<pad>": 0, "<blank>": 7, "a": 1}, "<BLANK>", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vocab, err := NewVocabulary(tt.dict, tt.token)
			if err != nil {
				t.Fatalf("NewVocabulary returned error: %v", err)
			}
			if vocab.BlankID() != tt.blank {
				t.Fatalf("BlankID = %d, want %d", vocab.BlankID(), tt.blank)
			}
		})
	}
}

func TestNewVocabularyRequiresBlank(t *testing.T) {
	_, err := NewVocabulary(map[string]int{"a": 0, "b": 1}, "")
	if !errors.Is(err, ErrMissingBlank) {
		t.Fatalf("expected ErrMissingBlank, got %v", err)
	}
	if _, err := NewVocabulary(map[string]int{"<pad>": 0}, "[blank]"); !errors.Is(err, ErrMissingBlank) {
		t.Fatalf("expected ErrMissingBlank for missing override, got %v", err)
	}
	if _, err := NewVocabulary(nil, ""); err == nil {
		t.Fatal("expected error for empty vocabulary")
	}
	if _, err := NewVocabulary(map[string]int{"<pad>": 0, "a": -1}, ""); err == nil {
		t.Fatal("expected error for negative code")
	}
}

func TestVocabularyLookupIsCaseInsensitive(t *testing.T) {
	vocab, err := NewVocabulary(map[string]int{"<pad>": 0, "A": 4, "b": 2, "B": 9}, "")
	if err != nil {
		t.Fatalf("NewVocabulary returned error: %v", err)
	}
	if code, ok := vocab.Code("a"); !ok || code != 4 {
		t.Fatalf("Code(a) = %d,%v want 4,true", code, ok)
	}
	if code, ok := vocab.Code("B"); !ok || code != 2 {
		t.Fatalf("Code(B) = %d,%v want 2 (lowercase key wins)", code, ok)
	}
	if vocab.Contains("z") {
		t.Fatal("unexpected z in vocabulary")
	}
	if vocab.Size() != 5 {
		t.Fatalf("Size = %d, want 5", vocab.Size())
	}
	tokens, err := vocab.Encode([]string{"a", "b"})
	if err != nil || len(tokens) != 2 || tokens[0] != 4 || tokens[1] != 2 {
		t.Fatalf("Encode = %v, %v", tokens, err)
	}
	if _, err := vocab.Encode([]string{"z"}); err == nil {
		t.Fatal("expected Encode error for unknown character")
	}
}

func TestLoadVocabularyFormats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "vocab.json")
	yamlPath := filepath.Join(dir, "vocab.yaml")
	if err := os.WriteFile(jsonPath, []byte(`{"<pad>": 0, "|": 1, "a": 2}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("\"[pad]\": 5\n\"|\": 1\na: 2\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	vocab, err := LoadVocabulary(jsonPath, "")
	if err != nil {
		t.Fatalf("LoadVocabulary json: %v", err)
	}
	if vocab.BlankID() != 0 || !vocab.Contains("|") {
		t.Fatalf("unexpected json vocabulary: blank=%d", vocab.BlankID())
	}

	vocab, err = LoadVocabulary(yamlPath, "")
	if err != nil {
		t.Fatalf("LoadVocabulary yaml: %v", err)
	}
	if vocab.BlankID() != 5 {
		t.Fatalf("unexpected yaml blank: %d", vocab.BlankID())
	}

	if _, err := LoadVocabulary(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}
