package textnorm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrMissingBlank reports a vocabulary without a blank/pad entry.
var ErrMissingBlank = errors.New("vocabulary has no blank token")

// blankCandidates are the pad symbols used by wav2vec2-style vocabularies.
var blankCandidates = []string{"[pad]", "<pad>"}

// Vocabulary is a read-only, case-insensitive character to code mapping with
// one designated blank code.
type Vocabulary struct {
	codes map[string]int
	size  int
	blank int
}

// NewVocabulary lowercases dict keys and resolves the blank entry. When
// blankToken is empty the first of "[pad]" or "<pad>" present is used.
func NewVocabulary(dict map[string]int, blankToken string) (*Vocabulary, error) {
	if len(dict) == 0 {
		return nil, errors.New("vocabulary is empty")
	}

	v := &Vocabulary{codes: make(map[string]int, len(dict))}

	// Sort keys so collisions after lowercasing resolve the same way every run:
	// a key that is already lowercase wins, then the smaller code.
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		code := dict[key]
		if code < 0 {
			return nil, fmt.Errorf("vocabulary entry %q has negative code %d", key, code)
		}
		lowered := lower(key)
		if existing, ok := v.codes[lowered]; ok {
			if _, exact := dict[lowered]; exact && key != lowered {
				continue
			}
			if key != lowered && existing <= code {
				continue
			}
		}
		v.codes[lowered] = code
	}
	for _, code := range v.codes {
		v.size = max(v.size, code+1)
	}

	candidates := blankCandidates
	if token := strings.TrimSpace(blankToken); token != "" {
		candidates = []string{lower(token)}
	}
	for _, candidate := range candidates {
		if code, ok := v.codes[candidate]; ok {
			v.blank = code
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w (looked for %s)", ErrMissingBlank, strings.Join(candidates, ", "))
}

// LoadVocabulary reads a vocab.json style mapping. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func LoadVocabulary(path, blankToken string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	dict, err := decodeVocabulary(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode vocabulary %s: %w", filepath.Base(path), err)
	}
	return NewVocabulary(dict, blankToken)
}

func decodeVocabulary(data []byte, ext string) (map[string]int, error) {
	var dict map[string]int
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dict); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

// BlankID returns the code of the blank/pad entry.
func (v *Vocabulary) BlankID() int { return v.blank }

// Size returns one past the largest code, the minimum emission width.
func (v *Vocabulary) Size() int { return v.size }

// Code looks up a character, case-insensitively.
func (v *Vocabulary) Code(char string) (int, bool) {
	code, ok := v.codes[char]
	if !ok {
		code, ok = v.codes[lower(char)]
	}
	return code, ok
}

// Contains reports whether the vocabulary scores char.
func (v *Vocabulary) Contains(char string) bool {
	_, ok := v.Code(char)
	return ok
}

// Encode maps already-normalized characters to their codes.
func (v *Vocabulary) Encode(chars []string) ([]int, error) {
	tokens := make([]int, len(chars))
	for i, c := range chars {
		code, ok := v.codes[c]
		if !ok {
			return nil, fmt.Errorf("character %q not in vocabulary", c)
		}
		tokens[i] = code
	}
	return tokens, nil
}

// lower folds s with a fresh Caser; Casers are stateful and must not be
// shared between goroutines.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
