package main

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Classify reviews from a file (one per line, or a JSON array)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, meta, err := readTexts(args[0])
			if err != nil {
				return err
			}
			a, err := ro.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Analysis.AnalyzeTexts(texts, meta)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
