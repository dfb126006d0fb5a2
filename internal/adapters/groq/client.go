// Package groq implements the generative collaborator over Groq's OpenAI-compatible chat API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"reviewlens/internal/adapters/observability"
	"reviewlens/internal/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	client openai.Client
	model  string
}

var _ domain.Generator = (*Client)(nil)

// New returns ErrMissingCredentials when no API key is configured.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("groq: %w", domain.ErrMissingCredentials)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		// the assistant has its own fallback chain; retrying here only delays it
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &Client{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    toParams(req.Messages()),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		switch {
		case errors.As(err, &apiErr):
			observability.ObserveExternal("groq", "chat.completions", apiErr.StatusCode, time.Since(start))
			msg := apiErr.Message
			if msg == "" {
				msg = strings.TrimSpace(apiErr.Error())
			}
			return domain.Completion{}, &domain.StatusError{Service: "groq", Code: apiErr.StatusCode, Message: msg}
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			observability.ObserveExternal("groq", "chat.completions", 0, time.Since(start))
			return domain.Completion{}, fmt.Errorf("groq: %w", domain.ErrGeneratorTimeout)
		default:
			observability.ObserveExternal("groq", "chat.completions", 0, time.Since(start))
			return domain.Completion{}, fmt.Errorf("groq: %w", err)
		}
	}
	observability.ObserveExternal("groq", "chat.completions", http.StatusOK, time.Since(start))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return domain.Completion{}, fmt.Errorf("groq: %w", domain.ErrGeneratorEmpty)
	}
	got := resp.Model
	if got == "" {
		got = model
	}
	return domain.Completion{Text: strings.TrimSpace(resp.Choices[0].Message.Content), Model: got}, nil
}

func toParams(msgs []domain.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
