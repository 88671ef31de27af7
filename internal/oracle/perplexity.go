package oracle

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roadcheck/pkg/perplexity"
)

// Perplexity is an Oracle backed by Perplexity chat completions. Sonar
// models search by default, so Request.Search only ever turns search off.
type Perplexity struct {
	client      perplexity.Client
	allowSearch bool
}

// NewPerplexity wraps client as an Oracle.
func NewPerplexity(client perplexity.Client, allowSearch bool) *Perplexity {
	return &Perplexity{client: client, allowSearch: allowSearch}
}

// Complete implements Oracle.
func (p *Perplexity) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.ChatCompletion(ctx, p.chatRequest(req))
	if err != nil {
		return "", eris.Wrapf(err, "oracle: perplexity %s", phaseName(req))
	}
	logUsage(resp, phaseName(req))
	return resp.Content(), nil
}

// Stream implements Oracle.
func (p *Perplexity) Stream(ctx context.Context, req Request, onChunk func(string)) (string, error) {
	resp, err := p.client.ChatCompletionStream(ctx, p.chatRequest(req), onChunk)
	if err != nil {
		return "", eris.Wrapf(err, "oracle: perplexity stream %s", phaseName(req))
	}
	logUsage(resp, phaseName(req))
	return resp.Content(), nil
}

func (p *Perplexity) chatRequest(req Request) perplexity.ChatCompletionRequest {
	search := req.Search && p.allowSearch
	cr := perplexity.ChatCompletionRequest{
		Messages:      []perplexity.Message{{Role: "user", Content: req.Prompt}},
		DisableSearch: !search,
	}
	if search {
		cr.SearchRecencyFilter = req.Recency
	}
	return cr
}

func logUsage(resp *perplexity.ChatCompletionResponse, phase string) {
	zap.L().Info("cost attribution",
		zap.String("model", resp.Model),
		zap.String("phase", phase),
		zap.Int("input_tokens", resp.Usage.PromptTokens),
		zap.Int("output_tokens", resp.Usage.CompletionTokens),
		zap.Int("citations", len(resp.Citations)),
	)
}
