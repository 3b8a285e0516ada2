package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"forcealign/internal/api"
	"forcealign/internal/export"
	"forcealign/internal/language"
	"forcealign/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded alignment runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsPruneCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				runs, err := api.NewRunService(st).List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					if runs == nil {
						runs = []api.RunSummary{}
					}
					return writeJSON(out, api.RunListResponse{Runs: runs})
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderRuns(runs []api.RunSummary) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		created := run.CreatedAt
		if ts, err := time.Parse(time.RFC3339Nano, run.CreatedAt); err == nil {
			created = ts.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			run.ID,
			created,
			run.Source,
			language.DisplayName(run.Language),
			run.InterpolateMethod,
			strconv.Itoa(run.Sentences),
			strconv.Itoa(run.Words),
			strconv.Itoa(run.Skipped),
			(time.Duration(run.DurationMS) * time.Millisecond).String(),
		})
	}
	return renderTable(
		[]string{"ID", "Created", "Source", "Language", "Method", "Sentences", "Words", "Skipped", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var format string
	var srtLevel string
	var words bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := export.ParseLevel(srtLevel)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				detail, err := api.NewRunService(st).Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				resolved, err := resolveFormat(format, "", out)
				if err != nil {
					return err
				}
				switch resolved {
				case "json":
					return writeJSON(out, detail)
				case "srt":
					rate := float64(ctx.configValue().Alignment.SampleRate)
					return export.WriteSRT(out, export.Cues(detail.Result, level, rate))
				}
				fmt.Fprintf(out, "Run %s (%s, %s interpolation, %s)\n",
					detail.ID, language.DisplayName(detail.Language), detail.InterpolateMethod, detail.CreatedAt)
				if words {
					fmt.Fprintln(out, renderWords(detail.Result.WordSegments))
					return nil
				}
				fmt.Fprintln(out, renderAlignment(detail.Result))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, table or srt")
	cmd.Flags().StringVar(&srtLevel, "srt-level", "sentence", "SRT cue granularity: sentence or word")
	cmd.Flags().BoolVar(&words, "words", false, "List words instead of sentences in table output")
	return cmd
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				removed, err := st.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age cutoff (e.g. 72h)")
	return cmd
}
