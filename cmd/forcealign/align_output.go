package main

import (
	"fmt"
	"strconv"
	"strings"

	"forcealign/internal/align"
)

func formatUnits(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func formatOptional(value align.Optional[float64]) string {
	if v, ok := value.Get(); ok {
		return formatUnits(v)
	}
	return "-"
}

// renderAlignment prints one row per sentence followed by a summary line.
func renderAlignment(result align.Result) string {
	rows := make([][]string, 0, len(result.Segments))
	for i, s := range result.Segments {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatUnits(s.Start),
			formatUnits(s.End),
			strconv.Itoa(len(s.Words)),
			s.Text,
		})
	}
	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"#", "Start", "End", "Words", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(&b, "\n%d sentences, %d words", len(result.Segments), len(result.WordSegments))
	if n := len(result.Skipped); n > 0 {
		fmt.Fprintf(&b, ", %d segments unaligned", n)
	}
	return b.String()
}

// renderWords prints one row per word with its score.
func renderWords(words []align.WordSegment) string {
	rows := make([][]string, 0, len(words))
	for _, w := range words {
		rows = append(rows, []string{
			w.Word,
			formatOptional(w.Start),
			formatOptional(w.End),
			formatOptional(w.Score),
		})
	}
	return renderTable(
		[]string{"Word", "Start", "End", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
