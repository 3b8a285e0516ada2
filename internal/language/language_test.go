package language

import (
	"errors"
	"strings"
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"ger", "de"},
		{"jpn", "ja"},
		{"chi", "zh"},
		{"english", "en"},
		{"Japanese", "ja"},
		{"xy", "xy"},
		{"xyz", ""},
		{"", ""},
		{" ", ""},
	}

	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"zho", "Chinese"},
		{"", "Unknown"},
		{"xx", "XX"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDefaultAlignModel(t *testing.T) {
	model, err := DefaultAlignModel("english")
	if err != nil {
		t.Fatalf("DefaultAlignModel returned error: %v", err)
	}
	if model != "jonatasgrosman/wav2vec2-large-xlsr-53-english" {
		t.Fatalf("unexpected model %q", model)
	}

	if _, err := DefaultAlignModel("sv"); !errors.Is(err, ErrNoDefaultModel) {
		t.Fatalf("expected ErrNoDefaultModel for sv, got %v", err)
	}
	if _, err := DefaultAlignModel("xx"); !errors.Is(err, ErrNoDefaultModel) {
		t.Fatalf("expected ErrNoDefaultModel for xx, got %v", err)
	}
}

func TestIsSpaceless(t *testing.T) {
	spaceless := []string{"ja", "zh"}
	tests := []struct {
		input string
		want  bool
	}{
		{"ja", true},
		{"jpn", true},
		{"Chinese", true},
		{"en", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSpaceless(tt.input, spaceless); got != tt.want {
			t.Errorf("IsSpaceless(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if IsSpaceless("ja", nil) {
		t.Error("expected no space-less languages when list is empty")
	}
}

func TestCodesRoundTrip(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 || codes[0] != "en" {
		t.Fatalf("unexpected codes: %v", codes)
	}
	for _, code := range codes {
		if ToISO2(code) != code {
			t.Errorf("ToISO2(%q) = %q", code, ToISO2(code))
		}
		if DisplayName(code) == strings.ToUpper(code) {
			t.Errorf("missing display name for %q", code)
		}
	}
}
