package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"reviewlens/internal/app"
)

func newExportCmd(ro *rootOptions) *cobra.Command {
	var (
		format      string
		reviewsPath string
		out         string
		question    string
		product     string
		from, to    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write filtered reviews as csv, xlsx or docx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := readReviews(reviewsPath)
			if err != nil {
				return err
			}
			dr, err := dateRangeFlags(from, to)
			if err != nil {
				return err
			}
			a, err := ro.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Export.Export(cmd.Context(), app.ExportRequest{
				Format:    format,
				Reviews:   reviews,
				Question:  question,
				DateRange: dr,
				ProductID: product,
			})
			if err != nil {
				return err
			}
			if out == "" {
				out = res.Filename
			}
			if err := os.WriteFile(out, res.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info().Str("path", out).Int("rows", res.Rows).Msg("export written")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "csv, xlsx or docx")
	cmd.Flags().StringVarP(&reviewsPath, "reviews", "r", "", "JSON file of reviews (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: generated file name)")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question whose date range filters the rows, e.g. \"last 30 days\"")
	cmd.Flags().StringVarP(&product, "product", "p", "", "only reviews of this product id")
	cmd.Flags().StringVar(&from, "from", "", "range start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "range end, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("reviews")
	return cmd
}
