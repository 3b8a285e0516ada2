package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"forcealign/internal/align"
	"forcealign/internal/services"
)

// Transcript is a language-tagged list of segments to align.
type Transcript struct {
	Language string          `json:"language"`
	Segments []align.Segment `json:"segments"`
}

// Text joins the trimmed segment texts with spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

type segmentPayload struct {
	Start    float64 `json:"start" yaml:"start"`
	End      float64 `json:"end" yaml:"end"`
	Text     string  `json:"text" yaml:"text"`
	Channels int     `json:"channels" yaml:"channels"`
}

type transcriptPayload struct {
	Language string           `json:"language" yaml:"language"`
	Segments []segmentPayload `json:"segments" yaml:"segments"`
}

// Format selects the decoder for a payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func unmarshal(data []byte, format Format, v any) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// Load reads a transcript file.
func Load(path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	return Decode(data, FormatForPath(path))
}

// Decode parses and validates a transcript payload.
func Decode(data []byte, format Format) (Transcript, error) {
	var payload transcriptPayload
	if err := unmarshal(data, format, &payload); err != nil {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "decode", string(format), err)
	}
	t := Transcript{Language: strings.TrimSpace(payload.Language), Segments: make([]align.Segment, 0, len(payload.Segments))}
	for i, seg := range payload.Segments {
		if seg.End < seg.Start {
			return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "decode",
				fmt.Sprintf("segment %d ends (%v) before it starts (%v)", i, seg.End, seg.Start), nil)
		}
		if seg.Channels < 0 {
			return Transcript{}, services.Wrap(services.ErrValidation, "transcript", "decode",
				fmt.Sprintf("segment %d has negative channel count", i), nil)
		}
		t.Segments = append(t.Segments, align.Segment(seg))
	}
	return t, nil
}

// logProb decodes a JSON null as negative infinity.
type logProb float64

func (l *logProb) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*l = logProb(math.Inf(-1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*l = logProb(f)
	return nil
}

type emissionsPayload struct {
	Emissions [][][]logProb `json:"emissions" yaml:"emissions"`
}

// LoadEmissions reads one emission matrix per segment from a file.
func LoadEmissions(path string) ([]*align.Emission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read emissions: %w", err)
	}
	return DecodeEmissions(data, FormatForPath(path))
}

// DecodeEmissions parses and validates an emissions payload.
func DecodeEmissions(data []byte, format Format) ([]*align.Emission, error) {
	var payload emissionsPayload
	if err := unmarshal(data, format, &payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "decode emissions", string(format), err)
	}
	return BuildEmissions(toFloats(payload.Emissions))
}

// BuildEmissions validates raw matrices, one per segment.
func BuildEmissions(raw [][][]float64) ([]*align.Emission, error) {
	out := make([]*align.Emission, 0, len(raw))
	for i, rows := range raw {
		em, err := align.NewEmission(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "transcript", "decode emissions", fmt.Sprintf("matrix %d", i), err)
		}
		out = append(out, em)
	}
	return out, nil
}

func toFloats(raw [][][]logProb) [][][]float64 {
	out := make([][][]float64, len(raw))
	for i, matrix := range raw {
		out[i] = make([][]float64, len(matrix))
		for t, row := range matrix {
			out[i][t] = make([]float64, len(row))
			for v, x := range row {
				out[i][t][v] = float64(x)
			}
		}
	}
	return out
}
