package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forcealign/internal/language"
)

type languageInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	AlignModel string `json:"alignModel,omitempty"`
	Spaceless  bool   `json:"spaceless"`
}

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List known languages and their conventional alignment models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			infos := make([]languageInfo, 0, len(language.Codes()))
			for _, code := range language.Codes() {
				model, _ := language.DefaultAlignModel(code)
				infos = append(infos, languageInfo{
					Code:       code,
					Name:       language.DisplayName(code),
					AlignModel: model,
					Spaceless:  cfg.IsSpaceless(code),
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, infos)
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				model := info.AlignModel
				if model == "" {
					model = "-"
				}
				rows = append(rows, []string{info.Code, info.Name, model, yesNo(info.Spaceless)})
			}
			fmt.Fprintln(out, renderTable([]string{"Code", "Name", "Align model", "Space-less"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
