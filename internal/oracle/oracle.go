// Package oracle exposes a generative-AI backend as a plain text-completion
// service: one prompt in, free text out.
package oracle

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roadcheck/internal/config"
	"github.com/sells-group/roadcheck/pkg/anthropic"
	"github.com/sells-group/roadcheck/pkg/perplexity"
)

// Oracle answers a single user prompt with free text.
type Oracle interface {
	// Complete returns the full response text.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream returns the full response text and passes each chunk to
	// onChunk as it arrives. onChunk may be nil.
	Stream(ctx context.Context, req Request, onChunk func(string)) (string, error)
}

// Request is one oracle call.
type Request struct {
	Prompt string
	// Search allows the backend to consult the web before answering.
	Search bool
	// Recency narrows search results to recent pages ("hour", "day",
	// "week", "month"). Backends without such a filter ignore it.
	Recency string
	// Phase labels the call in usage logs ("road", "weather", "verdict").
	Phase string
}

// New builds the Oracle selected by cfg.Oracle.Provider.
func New(cfg *config.Config) (Oracle, error) {
	switch cfg.Oracle.Provider {
	case config.ProviderAnthropic:
		client := anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
		return NewAnthropic(client, AnthropicOptions{
			Model:         cfg.Anthropic.Model,
			MaxTokens:     cfg.Anthropic.MaxTokens,
			SearchMaxUses: cfg.Anthropic.SearchMaxUses,
			AllowSearch:   cfg.Oracle.Search,
		}), nil
	case config.ProviderPerplexity:
		client := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		return NewPerplexity(client, cfg.Oracle.Search), nil
	default:
		return nil, eris.Errorf("oracle: unknown provider %q", cfg.Oracle.Provider)
	}
}

