package api

import "forcealign/internal/store"

// FromRun converts a stored run to its summary representation.
func FromRun(run store.Run) RunSummary {
	dto := RunSummary{
		ID:                run.ID,
		Source:            run.Source,
		Language:          run.Language,
		InterpolateMethod: run.InterpolateMethod,
		Segments:          run.Segments,
		Sentences:         run.Sentences,
		Words:             run.Words,
		Skipped:           run.Skipped,
		DurationMS:        run.Duration.Milliseconds(),
	}
	if !run.CreatedAt.IsZero() {
		dto.CreatedAt = run.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromRuns converts a slice of runs, preserving order.
func FromRuns(runs []store.Run) []RunSummary {
	out := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromRun(run))
	}
	return out
}

// FromRunDetail converts a run loaded with its result.
func FromRunDetail(run *store.Run) *RunDetail {
	if run == nil {
		return nil
	}
	detail := &RunDetail{RunSummary: FromRun(*run)}
	if run.Result != nil {
		detail.Result = *run.Result
	}
	return detail
}
