package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"forcealign/internal/api"
	"forcealign/internal/logging"
	"forcealign/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var component string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display recent logs from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			client, err := logs.NewStreamClient(cfg.API.Bind, cfg.API.Token)
			if err != nil {
				return fmt.Errorf("log client: %w", err)
			}

			query := logs.StreamQuery{Limit: lines, Component: component}
			if query.Limit <= 0 {
				query.Limit = 200
			}
			out := cmd.OutOrStdout()

			resp, err := client.Fetch(cmd.Context(), query)
			if err != nil {
				if logs.IsAPIUnavailable(err) {
					return fmt.Errorf("no forcealign server reachable at %s; start one with `forcealign serve`", cfg.API.Bind)
				}
				return err
			}
			printLogEvents(out, resp.Events)
			if !follow {
				if len(resp.Events) == 0 {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			query.Since = resp.Next
			query.Limit = 200
			return client.Follow(cmd.Context(), query, func(resp api.LogStreamResponse) error {
				printLogEvents(out, resp.Events)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of recent entries to show")
	cmd.Flags().StringVar(&component, "component", "", "Only show entries from this component")
	return cmd
}

func printLogEvents(w io.Writer, events []logging.LogEvent) {
	for _, evt := range events {
		fmt.Fprintln(w, formatLogEvent(evt))
	}
}

func formatLogEvent(evt logging.LogEvent) string {
	level := strings.ToUpper(strings.TrimSpace(evt.Level))
	if level == "" {
		level = "INFO"
	}
	parts := []string{evt.Timestamp.Local().Format("2006-01-02 15:04:05"), level}
	if c := strings.TrimSpace(evt.Component); c != "" {
		parts = append(parts, "["+c+"]")
	}
	line := strings.Join(parts, " ")
	if msg := strings.TrimSpace(evt.Message); msg != "" {
		line += " " + msg
	}
	if evt.RunID != "" {
		line += " run=" + evt.RunID
	}
	if evt.CorrelationID != "" {
		line += " request=" + evt.CorrelationID
	}
	if len(evt.Fields) == 0 {
		return line
	}
	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(line)
	for _, k := range keys {
		b.WriteString("\n    - ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(evt.Fields[k])
	}
	return b.String()
}
