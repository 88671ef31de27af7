package oracle

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roadcheck/pkg/anthropic"
)

// AnthropicOptions configures the Anthropic-backed oracle.
type AnthropicOptions struct {
	Model         string
	MaxTokens     int64
	SearchMaxUses int64
	// AllowSearch gates the web search tool. Requests asking for search are
	// sent without it when false.
	AllowSearch bool
}

// Anthropic is an Oracle backed by the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	opts   AnthropicOptions
}

// NewAnthropic wraps client as an Oracle.
func NewAnthropic(client anthropic.Client, opts AnthropicOptions) *Anthropic {
	return &Anthropic{client: client, opts: opts}
}

// Complete implements Oracle.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := a.client.CreateMessage(ctx, a.messageRequest(req))
	if err != nil {
		return "", eris.Wrapf(err, "oracle: anthropic %s", phaseName(req))
	}
	resp.Usage.LogCost(a.opts.Model, phaseName(req))
	return resp.Text(), nil
}

// Stream implements Oracle.
func (a *Anthropic) Stream(ctx context.Context, req Request, onChunk func(string)) (string, error) {
	resp, err := a.client.StreamMessage(ctx, a.messageRequest(req), onChunk)
	if err != nil {
		return "", eris.Wrapf(err, "oracle: anthropic stream %s", phaseName(req))
	}
	resp.Usage.LogCost(a.opts.Model, phaseName(req))
	return resp.Text(), nil
}

func (a *Anthropic) messageRequest(req Request) anthropic.MessageRequest {
	mr := anthropic.MessageRequest{
		Model:     a.opts.Model,
		MaxTokens: a.opts.MaxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	}
	if req.Search && a.opts.AllowSearch {
		mr.WebSearch = &anthropic.WebSearch{MaxUses: a.opts.SearchMaxUses}
	}
	return mr
}

func phaseName(req Request) string {
	if req.Phase == "" {
		return "completion"
	}
	return req.Phase
}
