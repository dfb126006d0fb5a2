package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"reviewlens/internal/adapters/observability"
	"reviewlens/internal/app"
	"reviewlens/internal/domain"
)

type fetchLine struct {
	Target string           `json:"target"`
	Review domain.RawReview `json:"review"`
}

func newFetchCmd(ro *rootOptions) *cobra.Command {
	var (
		stores         []string
		feeds          []string
		token          string
		reviewApp      string
		reviewAppToken string
		limit          int
		workers        int
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch reviews from several stores or feeds concurrently, as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var targets []domain.FetchCriteria
			for _, s := range stores {
				targets = append(targets, domain.FetchCriteria{
					Source:         app.SourceShopify,
					StoreDomain:    s,
					AccessToken:    token,
					ReviewApp:      reviewApp,
					ReviewAppToken: reviewAppToken,
					Limit:          limit,
				})
			}
			for _, f := range feeds {
				targets = append(targets, domain.FetchCriteria{Source: app.SourceFeed, FeedURL: f, Limit: limit})
			}
			if len(targets) == 0 {
				return fmt.Errorf("give at least one --store or --feed")
			}

			a, err := ro.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if workers <= 0 {
				workers = a.Cfg.SourceWorkers
			}
			return fetchAll(cmd, a.Analysis, targets, workers)
		},
	}
	cmd.Flags().StringArrayVar(&stores, "store", nil, "Shopify store domain (repeatable)")
	cmd.Flags().StringArrayVar(&feeds, "feed", nil, "RSS/Atom review feed URL (repeatable)")
	cmd.Flags().StringVar(&token, "token", "", "Shopify Admin API access token")
	cmd.Flags().StringVar(&reviewApp, "review-app", "", "review app, e.g. judge_me")
	cmd.Flags().StringVar(&reviewAppToken, "review-app-token", "", "review app API token")
	cmd.Flags().IntVar(&limit, "limit", 0, "max reviews per target (default FETCH_LIMIT)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent targets (default SOURCE_WORKERS)")
	return cmd
}

func targetName(c domain.FetchCriteria) string {
	if c.Source == app.SourceFeed {
		return c.FeedURL
	}
	return c.StoreDomain
}

// fetchAll fans out one goroutine per target, bounded by a semaphore. Each target's reviews are
// written together. It fails only when every target failed.
func fetchAll(cmd *cobra.Command, svc *app.AnalysisService, targets []domain.FetchCriteria, workers int) error {
	ctx := cmd.Context()
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	out := cmd.OutOrStdout()

	for _, t := range targets {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(c domain.FetchCriteria) {
			defer wg.Done()
			defer sem.Release(1)

			name := targetName(c)
			raws, err := svc.Fetch(ctx, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Warn().Str("target", name).Str("kind", observability.LabelErr(err)).Err(err).Msg("fetch failed")
				return
			}
			if err := writeLines(out, name, raws); err != nil {
				failed++
				log.Error().Str("target", name).Err(err).Msg("write failed")
				return
			}
			log.Info().Str("target", name).Int("reviews", len(raws)).Msg("fetch ok")
		}(t)
	}

	wg.Wait()
	if failed == len(targets) {
		return fmt.Errorf("all %d targets failed", failed)
	}
	return nil
}

func writeLines(w io.Writer, target string, raws []domain.RawReview) error {
	enc := json.NewEncoder(w)
	for _, r := range raws {
		if err := enc.Encode(fetchLine{Target: target, Review: r}); err != nil {
			return err
		}
	}
	return nil
}
