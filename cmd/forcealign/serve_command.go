package main

import (
	"strings"

	"github.com/spf13/cobra"

	"forcealign/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the alignment HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if b := strings.TrimSpace(bind); b != "" {
				cfg.API.Bind = b
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			var runs server.RunStore
			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
				runs = st
			}

			srv, err := server.New(cfg, runs, logger)
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override api.bind (host:port)")
	return cmd
}
