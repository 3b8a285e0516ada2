package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"forcealign/internal/align"
)

// Level selects what one cue covers.
type Level string

const (
	LevelSentence Level = "sentence"
	LevelWord     Level = "word"
)

// ParseLevel accepts "sentence" (the default for empty input) or "word".
func ParseLevel(value string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(value))) {
	case "", LevelSentence:
		return LevelSentence, nil
	case LevelWord:
		return LevelWord, nil
	default:
		return "", fmt.Errorf("unsupported srt level %q", value)
	}
}

// Cue is a single subtitle with timing in seconds.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Cues converts a result into cues. unitsPerSecond converts segment units to
// seconds (the sample rate when segments are in samples); zero or less means
// the units already are seconds. Words without resolved bounds are skipped.
func Cues(result align.Result, level Level, unitsPerSecond float64) []Cue {
	if unitsPerSecond <= 0 {
		unitsPerSecond = 1
	}
	var cues []Cue
	add := func(start, end float64, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: start / unitsPerSecond,
			End:   end / unitsPerSecond,
			Text:  text,
		})
	}

	switch level {
	case LevelWord:
		for _, w := range result.WordSegments {
			start, okStart := w.Start.Get()
			end, okEnd := w.End.Get()
			if okStart && okEnd {
				add(start, end, w.Word)
			}
		}
	default:
		for _, s := range result.Segments {
			add(s.Start, s.End, s.Text)
		}
	}
	return cues
}

// WriteSRT writes cues in SubRip format.
func WriteSRT(w io.Writer, cues []Cue) error {
	var sb strings.Builder
	for i, cue := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp reads HH:MM:SS,mmm (a period is accepted for the comma).
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// ReadSRT parses SubRip cues, skipping malformed blocks.
func ReadSRT(r io.Reader) ([]Cue, error) {
	var (
		cues  []Cue
		block []string
	)
	flush := func() {
		defer func() { block = block[:0] }()
		if len(block) < 3 {
			return
		}
		index, err := strconv.Atoi(strings.TrimSpace(block[0]))
		if err != nil {
			return
		}
		parts := strings.Split(block[1], "-->")
		if len(parts) != 2 {
			return
		}
		start, err := ParseTimestamp(parts[0])
		if err != nil {
			return
		}
		end, err := ParseTimestamp(parts[1])
		if err != nil {
			return
		}
		cues = append(cues, Cue{Index: index, Start: start, End: end, Text: strings.Join(block[2:], "\n")})
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	flush()
	return cues, nil
}
