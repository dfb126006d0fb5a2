package shared

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration

	CacheBackend string // memory|redis|none
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	CacheTTL     time.Duration

	LLMProvider    string // groq|stub
	GroqAPIKey     string
	GroqBaseURL    string
	GroqModel      string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	JudgeMeToken      string
	ShopifyAPIVersion string
	SourceRPS         int
	SourceWorkers     int
	SourceTimeout     time.Duration
	FetchLimit        int
	HistoryFetchLimit int
}

// Load reads .env (when present), then the YAML file named by REVIEWLENS_CONFIG, then the
// environment. Environment variables win over the file; the file wins over defaults.
// File keys are the environment names in any case, e.g. groq_model: llama-3.1-8b-instant.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	file, err := readFile(os.Getenv("REVIEWLENS_CONFIG"))
	if err != nil {
		return Config{}, err
	}
	src := source{file: file}

	c := Config{
		AppEnv:         src.str("APP_ENV", "prod"),
		LogLevel:       src.str("LOG_LEVEL", "info"),
		HTTPAddr:       src.str("HTTP_ADDR", ":8080"),
		MetricsAddr:    src.str("METRICS_ADDR", ""),
		RequestTimeout: src.seconds("REQUEST_TIMEOUT_SECONDS", 45),

		CacheBackend: strings.ToLower(src.str("CACHE_BACKEND", "memory")),
		RedisAddr:    src.str("REDIS_ADDR", "localhost:6379"),
		RedisDB:      src.atoi("REDIS_DB", 0),
		RedisPass:    src.str("REDIS_PASSWORD", ""),
		CacheTTL:     src.seconds("CACHE_TTL_SECONDS", 86400),

		LLMProvider:    strings.ToLower(src.str("LLM_PROVIDER", "groq")),
		GroqAPIKey:     src.str("GROQ_API_KEY", ""),
		GroqBaseURL:    src.str("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:      src.str("GROQ_MODEL", "llama-3.1-8b-instant"),
		LLMTemperature: src.atof("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:   src.atoi("LLM_MAX_TOKENS", 256),
		LLMTimeout:     src.seconds("LLM_TIMEOUT_SECONDS", 30),

		JudgeMeToken:      src.str("JUDGE_ME_API_TOKEN", ""),
		ShopifyAPIVersion: src.str("SHOPIFY_API_VERSION", "2024-01"),
		SourceRPS:         src.atoi("SOURCE_RPS", 5),
		SourceWorkers:     src.atoi("SOURCE_WORKERS", 4),
		SourceTimeout:     src.seconds("SOURCE_TIMEOUT_SECONDS", 30),
		FetchLimit:        src.atoi("FETCH_LIMIT", 500),
		HistoryFetchLimit: src.atoi("HISTORY_FETCH_LIMIT", 2000),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	if c.LLMProvider == "groq" && c.GroqAPIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is empty, free-form questions get the template answer")
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v int64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	positive("REQUEST_TIMEOUT_SECONDS", int64(c.RequestTimeout))
	positive("CACHE_TTL_SECONDS", int64(c.CacheTTL))
	positive("LLM_MAX_TOKENS", int64(c.LLMMaxTokens))
	positive("LLM_TIMEOUT_SECONDS", int64(c.LLMTimeout))
	positive("SOURCE_RPS", int64(c.SourceRPS))
	positive("SOURCE_WORKERS", int64(c.SourceWorkers))
	positive("SOURCE_TIMEOUT_SECONDS", int64(c.SourceTimeout))
	positive("FETCH_LIMIT", int64(c.FetchLimit))
	positive("HISTORY_FETCH_LIMIT", int64(c.HistoryFetchLimit))

	if c.FetchLimit > 10000 || c.HistoryFetchLimit > 10000 {
		errs = append(errs, errors.New("FETCH_LIMIT and HISTORY_FETCH_LIMIT must not exceed 10000"))
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		errs = append(errs, errors.New("LLM_TEMPERATURE must be between 0 and 2"))
	}
	switch c.CacheBackend {
	case "memory", "redis", "none":
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q is not one of memory, redis, none", c.CacheBackend))
	}
	switch c.LLMProvider {
	case "groq", "stub":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not one of groq, stub", c.LLMProvider))
	}
	return errors.Join(errs...)
}

func readFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v != nil {
			out[strings.ToUpper(k)] = fmt.Sprint(v)
		}
	}
	return out, nil
}

// source resolves one key: environment, then file, then the default.
type source struct{ file map[string]string }

func (s source) str(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	if v := s.file[k]; v != "" {
		return v
	}
	return def
}

func (s source) atoi(k string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s.str(k, ""))); err == nil {
		return n
	}
	return def
}

func (s source) atof(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s.str(k, "")), 64); err == nil {
		return f
	}
	return def
}

func (s source) seconds(k string, def int) time.Duration {
	return time.Duration(s.atoi(k, def)) * time.Second
}
