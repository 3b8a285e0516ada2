package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"forcealign/internal/api"
	"forcealign/internal/services"
	"forcealign/internal/store"
	"forcealign/internal/testsupport"
)

func payloadBytes(t *testing.T, payload map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func decodeHelloWorld(t *testing.T) api.AlignInput {
	t.Helper()
	body := payloadBytes(t, testsupport.AlignPayload(t, []string{"Hello world."}, []string{"hello|world"}, 2))
	input, err := api.DecodeAlignPayload(body, "")
	if err != nil {
		t.Fatalf("DecodeAlignPayload returned error: %v", err)
	}
	return input
}

func TestDecodeAlignPayload(t *testing.T) {
	input := decodeHelloWorld(t)
	if input.Transcript.Language != "en" || len(input.Transcript.Segments) != 1 {
		t.Fatalf("unexpected transcript: %+v", input.Transcript)
	}
	if len(input.Emissions) != 1 {
		t.Fatalf("expected one emission matrix, got %d", len(input.Emissions))
	}
	if input.Vocabulary.BlankID() != 0 {
		t.Fatalf("blank id = %d, want 0", input.Vocabulary.BlankID())
	}
	if input.AudioDuration != input.Transcript.Segments[0].End {
		t.Fatalf("audio duration = %v, want %v", input.AudioDuration, input.Transcript.Segments[0].End)
	}
}

func TestDecodeAlignPayloadRejectsBadInput(t *testing.T) {
	base := testsupport.AlignPayload(t, []string{"Hi."}, []string{"hi"}, 1)

	tests := []struct {
		name   string
		mutate func(map[string]any)
		raw    string
	}{
		{name: "invalid json", raw: "{"},
		{name: "missing vocabulary", mutate: func(p map[string]any) { delete(p, "vocabulary") }},
		{name: "unknown method", mutate: func(p map[string]any) { p["interpolateMethod"] = "cubic" }},
		{name: "ragged emissions", mutate: func(p map[string]any) {
			p["emissions"] = [][][]float64{{{0, 0}, {0}}}
		}},
		{name: "segment ends before start", mutate: func(p map[string]any) {
			p["segments"] = []map[string]any{{"start": 5, "end": 1, "text": "Hi."}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(tt.raw)
			if tt.mutate != nil {
				payload := make(map[string]any, len(base))
				for k, v := range base {
					payload[k] = v
				}
				tt.mutate(payload)
				body = payloadBytes(t, payload)
			}
			_, err := api.DecodeAlignPayload(body, "")
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAlignRecordsRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	input := decodeHelloWorld(t)

	outcome, err := api.Align(context.Background(), api.AlignRequest{
		Config:        cfg,
		Store:         st,
		Source:        store.SourceAPI,
		Transcript:    input.Transcript,
		Emissions:     input.Emissions,
		Vocabulary:    input.Vocabulary,
		AudioDuration: input.AudioDuration,
	})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if outcome.RunID == "" {
		t.Fatal("expected run id")
	}
	if outcome.Method != "nearest" {
		t.Fatalf("method = %q, want nearest", outcome.Method)
	}
	if len(outcome.Result.WordSegments) != 2 {
		t.Fatalf("expected 2 words, got %+v", outcome.Result.WordSegments)
	}

	run, err := st.Get(context.Background(), outcome.RunID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if run.Source != store.SourceAPI || run.Language != "en" || run.Words != 2 {
		t.Fatalf("unexpected stored run: %+v", run)
	}
}

func TestAlignOverridesCharOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := decodeHelloWorld(t)
	enabled := true

	outcome, err := api.Align(context.Background(), api.AlignRequest{
		Config:     cfg,
		Transcript: input.Transcript,
		Emissions:  input.Emissions,
		Vocabulary: input.Vocabulary,
		Overrides:  api.AlignOverrides{InterpolateMethod: " Linear ", ReturnCharAlignments: &enabled},
	})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if outcome.RunID != "" {
		t.Fatalf("expected no run id without a store, got %q", outcome.RunID)
	}
	if outcome.Method != "linear" {
		t.Fatalf("method = %q, want linear", outcome.Method)
	}
	chars := outcome.Result.Segments[0].Chars
	var text strings.Builder
	for _, c := range chars {
		text.WriteString(c.Char)
	}
	if text.String() != "Hello world." {
		t.Fatalf("chars do not cover sentence: %q", text.String())
	}
}

func TestAlignRequiresConfig(t *testing.T) {
	_, err := api.Align(context.Background(), api.AlignRequest{})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
