package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reviewlens/internal/app"
)

func newAskCmd(ro *rootOptions) *cobra.Command {
	var (
		reviewsPath string
		product     string
		from, to    string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about a review file",
		Args:  cobra.ExactArgs(1),
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

			res, err := a.Questions.Ask(cmd.Context(), app.AskRequest{
				Question:  args[0],
				Reviews:   reviews,
				DateRange: dr,
				ProductID: product,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n(model: %s, reviews: %d)\n", res.Answer, res.Model, res.AppliedFilters.ReviewCount)
			return err
		},
	}
	cmd.Flags().StringVarP(&reviewsPath, "reviews", "r", "", "JSON file of reviews (required)")
	cmd.Flags().StringVarP(&product, "product", "p", "", "only reviews of this product id")
	cmd.Flags().StringVar(&from, "from", "", "range start, YYYY-MM-DD (used when the question names no range)")
	cmd.Flags().StringVar(&to, "to", "", "range end, YYYY-MM-DD")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	_ = cmd.MarkFlagRequired("reviews")
	return cmd
}
