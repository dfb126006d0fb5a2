// Package bootstrap assembles the services from configuration. cmd/api, cmd/reviewctl and the
// end-to-end test share it.
package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"reviewlens/internal/adapters/feed"
	"reviewlens/internal/adapters/groq"
	server "reviewlens/internal/adapters/http_server"
	"reviewlens/internal/adapters/memcache"
	"reviewlens/internal/adapters/observability"
	redisad "reviewlens/internal/adapters/redis"
	"reviewlens/internal/adapters/report"
	"reviewlens/internal/adapters/shopify"
	"reviewlens/internal/analytics"
	"reviewlens/internal/app"
	"reviewlens/internal/domain"
	"reviewlens/internal/sentiment"
	"reviewlens/internal/shared"
)

const memoryCacheEntries = 10000

type App struct {
	Cfg       shared.Config
	Cache     domain.Cache // nil when CACHE_BACKEND=none
	Generator domain.Generator
	Sources   map[string]domain.ReviewSource
	Analysis  *app.AnalysisService
	Questions *app.QuestionService
	Export    *app.ExportService

	closers []io.Closer
}

// Options overrides collaborators, mostly for tests.
type Options struct {
	Generator  domain.Generator
	HTTPClient *http.Client
	Now        func() time.Time
}

func Build(ctx context.Context, cfg shared.Config, opt Options) (*App, error) {
	a := &App{Cfg: cfg}

	cache, closer := buildCache(ctx, cfg)
	a.Cache = cache
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	gen := opt.Generator
	if gen == nil {
		var err error
		if gen, err = buildGenerator(cfg, opt.HTTPClient); err != nil {
			return nil, err
		}
	}
	if gen != nil && cache != nil {
		gen = app.NewCachedGenerator(gen, cache, cfg.CacheTTL)
	}
	a.Generator = gen

	a.Sources = map[string]domain.ReviewSource{
		app.SourceShopify: shopify.New(shopify.Config{
			APIVersion: cfg.ShopifyAPIVersion,
			RPS:        cfg.SourceRPS,
			Workers:    cfg.SourceWorkers,
			Timeout:    cfg.SourceTimeout,
			HTTPClient: opt.HTTPClient,
		}),
		app.SourceFeed: feed.New(feed.Config{RPS: cfg.SourceRPS, Timeout: cfg.SourceTimeout, HTTPClient: opt.HTTPClient}),
	}

	clf := sentiment.NewAnalyzer()
	resolver := analytics.NewResolver(opt.Now)
	assistant := app.NewAssistant(resolver, gen, app.AssistantConfig{
		Model:       cfg.GroqModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	}, observability.AssistantMetrics{})

	a.Analysis = app.NewAnalysisService(clf, a.Sources, cfg.JudgeMeToken, cfg.FetchLimit)
	a.Questions = app.NewQuestionService(a.Analysis, assistant, resolver, cfg.HistoryFetchLimit)
	a.Export = app.NewExportService(resolver, clf, report.Writers()...)
	return a, nil
}

// Server mounts every route plus /metrics on a fresh router.
func (a *App) Server() *server.Server {
	srv := server.New(a.Cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{Analysis: a.Analysis, Questions: a.Questions, Export: a.Export})
	return srv
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// buildCache falls back to the in-process map when Redis is unreachable at startup.
func buildCache(ctx context.Context, cfg shared.Config) (domain.Cache, io.Closer) {
	switch cfg.CacheBackend {
	case "none":
		return nil, nil
	case "redis":
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("component", "cache").Str("addr", cfg.RedisAddr).Msg("redis unreachable, using memory cache")
			_ = rc.Close()
			return memcache.New(memoryCacheEntries), nil
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ready")
		return rc, rc
	default:
		return memcache.New(memoryCacheEntries), nil
	}
}

// buildGenerator returns nil without error when the key is missing; answers then come from templates.
func buildGenerator(cfg shared.Config, hc *http.Client) (domain.Generator, error) {
	if cfg.LLMProvider == "stub" {
		return groq.Stub{}, nil
	}
	c, err := groq.New(groq.Config{APIKey: cfg.GroqAPIKey, BaseURL: cfg.GroqBaseURL, Model: cfg.GroqModel, HTTPClient: hc})
	if errors.Is(err, domain.ErrMissingCredentials) {
		log.Warn().Str("component", "generator").Msg("GROQ_API_KEY not set, free-form answers use templates")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
