// Package anthropic wraps the Anthropic Messages API behind a small
// interface with its own request and response types.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Client defines the Anthropic API operations used by the oracle.
type Client interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)
	// StreamMessage sends req as a streaming request. onText, when non-nil,
	// receives each text delta as it arrives. The returned response holds
	// the accumulated message.
	StreamMessage(ctx context.Context, req MessageRequest, onText func(string)) (*MessageResponse, error)
}

// MessageRequest is our own request type for CreateMessage.
type MessageRequest struct {
	Model     string
	MaxTokens int64
	Messages  []Message
	// WebSearch enables the server-side web search tool when non-nil.
	WebSearch *WebSearch
}

// WebSearch configures the server-side web search tool.
type WebSearch struct {
	MaxUses int64 // 0 leaves the API default
}

// Message represents a single conversational message.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// MessageResponse is our own response type from CreateMessage.
type MessageResponse struct {
	ID           string
	Model        string
	Content      []ContentBlock
	StopReason   string
	Usage        TokenUsage
	StopSequence string
}

// Text joins the text blocks that follow the last tool block. With web
// search on, text written before or between searches is narration and is
// not part of the answer.
func (r *MessageResponse) Text() string {
	start := 0
	for i, c := range r.Content {
		if isToolBlock(c.Type) {
			start = i + 1
		}
	}

	var b strings.Builder
	for _, c := range r.Content[start:] {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

func isToolBlock(blockType string) bool {
	switch blockType {
	case "tool_use", "server_tool_use", "web_search_tool_result":
		return true
	}
	return false
}

// ContentBlock represents a block of content in a response.
type ContentBlock struct {
	Type string
	Text string
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens       int64
	OutputTokens      int64
	WebSearchRequests int64
}

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {1.00, 5.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-opus-4-6":            {15.00, 75.00},
}

// webSearchCost is the per-request price of the web search tool in USD.
const webSearchCost = 0.01

// EstimateCost computes an estimated cost in USD from a TokenUsage and model ID.
// Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	inCost := (float64(u.InputTokens) / 1e6) * pricing[0]
	outCost := (float64(u.OutputTokens) / 1e6) * pricing[1]
	searchCost := float64(u.WebSearchRequests) * webSearchCost
	return inCost + outCost + searchCost
}

// LogCost logs token usage and estimated cost with structured zap fields.
func (u TokenUsage) LogCost(model, phase string) {
	cost := u.EstimateCost(model)
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Int64("web_search_requests", u.WebSearchRequests),
		zap.Float64("estimated_cost_usd", cost),
	)
}

// Option configures the SDK client.
type Option func(*[]option.RequestOption)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(opts *[]option.RequestOption) {
		if url != "" {
			*opts = append(*opts, option.WithBaseURL(url))
		}
	}
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
}

// NewClient creates a new Anthropic client backed by the SDK. SDK retries
// are disabled: every call reaches the API exactly once.
func NewClient(apiKey string, opts ...Option) Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	for _, o := range opts {
		o(&reqOpts)
	}
	return &sdkClient{
		client: sdk.NewClient(reqOpts...),
	}
}

func (c *sdkClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	msg, err := c.client.Messages.New(ctx, toSDKParams(req))
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	return fromSDKMessage(msg), nil
}

func (c *sdkClient) StreamMessage(ctx context.Context, req MessageRequest, onText func(string)) (*MessageResponse, error) {
	stream := c.client.Messages.NewStreaming(ctx, toSDKParams(req))
	defer stream.Close() //nolint:errcheck

	var msg sdk.Message
	answer := newAnswerFilter(onText, req.WebSearch != nil)
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return nil, eris.Wrap(err, "anthropic: accumulate stream")
		}
		answer.observe(event)
	}
	if err := stream.Err(); err != nil {
		return nil, eris.Wrap(err, "anthropic: stream message")
	}
	answer.flush()

	return fromSDKMessage(&msg), nil
}

// answerFilter forwards the text deltas that belong to the answer. With
// search enabled, text before the first search result is held back. Held
// text is dropped when a tool block starts and flushed when the stream ends.
type answerFilter struct {
	onText  func(string)
	hold    bool
	pending strings.Builder
}

func newAnswerFilter(onText func(string), search bool) *answerFilter {
	return &answerFilter{onText: onText, hold: search}
}

func (f *answerFilter) observe(event sdk.MessageStreamEventUnion) {
	if f.onText == nil {
		return
	}
	switch event.Type {
	case "content_block_start":
		if isToolBlock(event.ContentBlock.Type) {
			f.pending.Reset()
			f.hold = event.ContentBlock.Type != "web_search_tool_result"
		}
	case "content_block_delta":
		if event.Delta.Type != "text_delta" {
			return
		}
		if f.hold {
			f.pending.WriteString(event.Delta.Text)
			return
		}
		f.onText(event.Delta.Text)
	}
}

func (f *answerFilter) flush() {
	if f.onText != nil && f.pending.Len() > 0 {
		f.onText(f.pending.String())
		f.pending.Reset()
	}
}

// --- SDK type conversion helpers ---

func toSDKParams(req MessageRequest) sdk.MessageNewParams {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  toSDKMessages(req.Messages),
	}

	if req.WebSearch != nil {
		tool := &sdk.WebSearchTool20250305Param{}
		if req.WebSearch.MaxUses > 0 {
			tool.MaxUses = sdk.Int(req.WebSearch.MaxUses)
		}
		params.Tools = []sdk.ToolUnionParam{{OfWebSearchTool20250305: tool}}
	}

	return params
}

func toSDKMessages(msgs []Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, len(msgs))
	for i, m := range msgs {
		block := sdk.NewTextBlock(m.Content)
		switch m.Role {
		case "assistant":
			out[i] = sdk.NewAssistantMessage(block)
		default:
			out[i] = sdk.NewUserMessage(block)
		}
	}
	return out
}

func fromSDKMessage(msg *sdk.Message) *MessageResponse {
	blocks := make([]ContentBlock, 0, len(msg.Content))
	for _, b := range msg.Content {
		blocks = append(blocks, ContentBlock{
			Type: b.Type,
			Text: b.Text,
		})
	}

	return &MessageResponse{
		ID:           msg.ID,
		Model:        string(msg.Model),
		Content:      blocks,
		StopReason:   string(msg.StopReason),
		StopSequence: msg.StopSequence,
		Usage: TokenUsage{
			InputTokens:       msg.Usage.InputTokens,
			OutputTokens:      msg.Usage.OutputTokens,
			WebSearchRequests: msg.Usage.ServerToolUse.WebSearchRequests,
		},
	}
}
