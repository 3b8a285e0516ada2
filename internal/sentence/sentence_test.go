package sentence_test

import (
	"reflect"
	"testing"

	"forcealign/internal/sentence"
)

func texts(text string, spans []sentence.Span) []string {
	runes := []rune(text)
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.Slice(runes))
	}
	return out
}

func assertPartition(t *testing.T, text string, spans []sentence.Span) {
	t.Helper()
	n := len([]rune(text))
	if n == 0 {
		if len(spans) != 0 {
			t.Fatalf("expected no spans for empty text, got %v", spans)
		}
		return
	}
	if len(spans) == 0 {
		t.Fatalf("expected spans for %q", text)
	}
	if spans[0].Start != 0 {
		t.Fatalf("first span starts at %d, want 0", spans[0].Start)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start != spans[i-1].End {
			t.Fatalf("gap or overlap between spans %v and %v", spans[i-1], spans[i])
		}
		if spans[i].Len() <= 0 {
			t.Fatalf("empty span %v", spans[i])
		}
	}
	if last := spans[len(spans)-1]; last.End != n {
		t.Fatalf("last span ends at %d, want %d", last.End, n)
	}
}

func TestSpanTokenizeAbbreviations(t *testing.T) {
	tok := sentence.NewPunkt([]string{"dr", "vs", "mr", "mrs", "prof"})
	text := "Hello. Dr. Smith left."

	spans := tok.SpanTokenize(text)
	assertPartition(t, text, spans)

	got := texts(text, spans)
	want := []string{"Hello. ", "Dr. Smith left."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sentences: got %q want %q", got, want)
	}
}

func TestSpanTokenizeWithoutAbbreviationSplits(t *testing.T) {
	tok := sentence.NewPunkt([]string{})
	text := "Hello. Dr. Smith left."
	if got := len(tok.SpanTokenize(text)); got != 3 {
		t.Fatalf("expected 3 sentences without abbreviations, got %d", got)
	}
}

func TestSpanTokenizeCases(t *testing.T) {
	tok := sentence.NewPunkt(nil)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "just one sentence", []string{"just one sentence"}},
		{"question and exclaim", "Really? Yes! Fine.", []string{"Really? ", "Yes! ", "Fine."}},
		{"lowercase continuation", "It was 5 p.m. and late. Then", []string{"It was 5 p.m. and late. ", "Then"}},
		{"decimal", "Pi is 3.14 today. Ok", []string{"Pi is 3.14 today. ", "Ok"}},
		{"closing quote", `He said "stop." She left.`, []string{`He said "stop." `, "She left."}},
		{"ellipsis", "Wait... Go on.", []string{"Wait... ", "Go on."}},
		{"leading whitespace", "  Hi there. Bye.", []string{"  Hi there. ", "Bye."}},
		{"trailing whitespace", "Hi there.   ", []string{"Hi there.   "}},
		{"quoted abbreviation", `("Prof. Plum") Left.`, []string{`("Prof. Plum") Left.`}},
		{"wide stops", "你好。再见！", []string{"你好。", "再见！"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := tok.SpanTokenize(tt.text)
			assertPartition(t, tt.text, spans)
			got := texts(tt.text, spans)
			if len(tt.want) == 0 && len(got) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestIsAbbreviation(t *testing.T) {
	tok := sentence.NewPunkt([]string{"Dr.", " etc "})
	for _, word := range []string{"dr", "Dr.", "DR", "(dr", "etc."} {
		if !tok.IsAbbreviation(word) {
			t.Errorf("expected %q to be an abbreviation", word)
		}
	}
	if tok.IsAbbreviation("mr") {
		t.Error("mr should not be an abbreviation when not configured")
	}
}

func TestSpanHelpers(t *testing.T) {
	span := sentence.Span{Start: 2, End: 5}
	if span.Len() != 3 {
		t.Fatalf("Len = %d, want 3", span.Len())
	}
	if !span.Contains(2) || span.Contains(5) {
		t.Fatal("Contains should be half-open")
	}
	if got := span.Slice([]rune("héllo")); got != "llo" {
		t.Fatalf("Slice = %q, want llo", got)
	}
	if got := (sentence.Span{Start: 4, End: 9}).Slice([]rune("abc")); got != "" {
		t.Fatalf("out of range Slice = %q, want empty", got)
	}
}
