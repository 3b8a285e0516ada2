package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"forcealign/internal/api"
	"forcealign/internal/export"
	"forcealign/internal/store"
	"forcealign/internal/textnorm"
	"forcealign/internal/transcript"
)

type alignFlags struct {
	transcriptPath string
	emissionsPath  string
	vocabPath      string
	language       string
	blankToken     string
	interpolate    string
	audioDuration  float64
	chars          bool
	format         string
	srtLevel       string
	outputPath     string
	noStore        bool
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var flags alignFlags

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align a transcript against per-segment emission matrices",
		Long: `Align a transcript against per-segment emission matrices.

The transcript (JSON or YAML) lists segments with start, end and text. The
emissions file holds one frames x vocabulary matrix of log-probabilities per
segment under "emissions". The vocabulary maps characters to matrix columns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd, ctx, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.transcriptPath, "transcript", "t", "", "Transcript file (.json, .yaml)")
	cmd.Flags().StringVarP(&flags.emissionsPath, "emissions", "e", "", "Emission matrices file (.json, .yaml)")
	cmd.Flags().StringVar(&flags.vocabPath, "vocab", "", "Vocabulary file mapping characters to columns (.json, .yaml)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Override the transcript language")
	cmd.Flags().StringVar(&flags.blankToken, "blank-token", "", "Override alignment.blank_token")
	cmd.Flags().StringVar(&flags.interpolate, "interpolate", "", "Override alignment.interpolate_method")
	cmd.Flags().Float64Var(&flags.audioDuration, "audio-duration", 0, "Audio length in segment units; segments starting later are skipped (0 disables)")
	cmd.Flags().BoolVar(&flags.chars, "chars", false, "Include per-character timings")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: json, table or srt (default table on a terminal, json otherwise)")
	cmd.Flags().StringVar(&flags.srtLevel, "srt-level", "sentence", "SRT cue granularity: sentence or word")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Do not record the run in history")
	_ = cmd.MarkFlagRequired("transcript")
	_ = cmd.MarkFlagRequired("emissions")
	_ = cmd.MarkFlagRequired("vocab")

	return cmd
}

func runAlign(cmd *cobra.Command, ctx *commandContext, flags alignFlags) error {
	cfg := ctx.configValue()
	if cfg == nil {
		return fmt.Errorf("configuration unavailable")
	}

	format, err := resolveFormat(flags.format, flags.outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	level, err := export.ParseLevel(flags.srtLevel)
	if err != nil {
		return err
	}

	tr, err := transcript.Load(flags.transcriptPath)
	if err != nil {
		return err
	}
	if lang := strings.TrimSpace(flags.language); lang != "" {
		tr.Language = lang
	}
	emissions, err := transcript.LoadEmissions(flags.emissionsPath)
	if err != nil {
		return err
	}
	blank := cfg.Alignment.BlankToken
	if b := strings.TrimSpace(flags.blankToken); b != "" {
		blank = b
	}
	vocab, err := textnorm.LoadVocabulary(flags.vocabPath, blank)
	if err != nil {
		return err
	}

	logger, err := ctx.newLogger()
	if err != nil {
		return err
	}

	req := api.AlignRequest{
		Config:        cfg,
		Logger:        logger,
		Source:        store.SourceCLI,
		Transcript:    tr,
		Emissions:     emissions,
		Vocabulary:    vocab,
		AudioDuration: flags.audioDuration,
		Overrides:     api.AlignOverrides{InterpolateMethod: flags.interpolate},
	}
	if cmd.Flags().Changed("chars") {
		chars := flags.chars
		req.Overrides.ReturnCharAlignments = &chars
	}
	if !flags.noStore {
		st, err := ctx.openStore(cmd.Context())
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
			req.Store = st
		}
	}

	outcome, err := api.Align(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.outputPath != "" {
		file, err := os.Create(flags.outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch format {
	case "json":
		err = writeJSON(out, outcome.Result)
	case "srt":
		err = export.WriteSRT(out, export.Cues(outcome.Result, level, float64(cfg.Alignment.SampleRate)))
	default:
		_, err = fmt.Fprintln(out, renderAlignment(outcome.Result))
	}
	if err != nil {
		return fmt.Errorf("write %s output: %w", format, err)
	}

	printAlignNotes(cmd.ErrOrStderr(), outcome)
	return nil
}

func resolveFormat(value, outputPath string, stdout io.Writer) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(value)); format {
	case "json", "table", "srt":
		return format, nil
	case "":
		if outputPath == "" && isTerminal(stdout) {
			return "table", nil
		}
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported format %q (use json, table or srt)", value)
	}
}

func printAlignNotes(w io.Writer, outcome api.AlignOutcome) {
	for _, skipped := range outcome.Result.Skipped {
		fmt.Fprintf(w, "Segment %d kept its original timing: %s\n", skipped.Index, skipped.Reason)
	}
	if outcome.RunID != "" {
		fmt.Fprintf(w, "Recorded run %s (%s interpolation, %s)\n", outcome.RunID, outcome.Method, outcome.Elapsed.Round(time.Millisecond))
	}
}
