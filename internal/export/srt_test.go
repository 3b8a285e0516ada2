package export

import (
	"bytes"
	"strings"
	"testing"

	"forcealign/internal/align"
)

func sampleResult() align.Result {
	return align.Result{
		Segments: []align.SentenceSegment{
			{Text: "Hello there.", Start: 16000, End: 40000},
			{Text: "  ", Start: 40000, End: 48000},
			{Text: "Bye.", Start: 48000, End: 64000},
		},
		WordSegments: []align.WordSegment{
			{Word: "Hello", Start: align.Some(16000.0), End: align.Some(24000.0)},
			{Word: "there.", Start: align.Some(24000.0)},
			{Word: "Bye.", Start: align.Some(48000.0), End: align.Some(64000.0)},
		},
	}
}

func TestCuesSentenceLevelConvertsSamples(t *testing.T) {
	cues := Cues(sampleResult(), LevelSentence, 16000)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", cues)
	}
	if cues[0].Start != 1 || cues[0].End != 2.5 || cues[1].Index != 2 {
		t.Fatalf("unexpected cues %+v", cues)
	}
}

func TestCuesWordLevelSkipsUnresolved(t *testing.T) {
	cues := Cues(sampleResult(), LevelWord, 16000)
	if len(cues) != 2 || cues[0].Text != "Hello" || cues[1].Text != "Bye." {
		t.Fatalf("unexpected word cues %+v", cues)
	}
}

func TestWriteAndReadSRT(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0.5, End: 1.25, Text: "Hello there."},
		{Index: 2, Start: 3661.001, End: 3662, Text: "Bye."},
	}
	var buf bytes.Buffer
	if err := WriteSRT(&buf, cues); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}
	want := "1\n00:00:00,500 --> 00:00:01,250\nHello there.\n\n2\n01:01:01,001 --> 01:01:02,000\nBye.\n"
	if buf.String() != want {
		t.Fatalf("unexpected SRT:\n%s\nwant:\n%s", buf.String(), want)
	}

	parsed, err := ReadSRT(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ReadSRT returned error: %v", err)
	}
	if len(parsed) != 2 || parsed[1].Start != 3661.001 || parsed[0].Text != "Hello there." {
		t.Fatalf("unexpected parsed cues %+v", parsed)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"00:00:01,500", 1.5, true},
		{"01:00:00.000", 3600, true},
		{"", 0, false},
		{"00:01,000", 0, false},
		{"aa:00:00,000", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, %v", tt.in, got, err)
		}
	}
	if FormatTimestamp(-3) != "00:00:00,000" {
		t.Fatal("negative timestamps should clamp to zero")
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel(""); err != nil || l != LevelSentence {
		t.Fatalf("ParseLevel(\"\") = %q, %v", l, err)
	}
	if l, err := ParseLevel("WORD"); err != nil || l != LevelWord {
		t.Fatalf("ParseLevel(WORD) = %q, %v", l, err)
	}
	if _, err := ParseLevel("char"); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}
