package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_TextJoinsTextBlocks(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Tunis: "},
			{Type: "text", Text: "24°C, clear"},
		},
	}
	assert.Equal(t, "Tunis: 24°C, clear", resp.Text())
}

func TestMessageResponse_TextSkipsSearchNarration(t *testing.T) {
	tests := []struct {
		name    string
		content []ContentBlock
		want    string
	}{
		{
			name: "narration before search",
			content: []ContentBlock{
				{Type: "text", Text: "I'll search to see whether it is rainy or sunny in Tunis."},
				{Type: "server_tool_use"},
				{Type: "web_search_tool_result"},
				{Type: "text", Text: "24°C, sunny"},
			},
			want: "24°C, sunny",
		},
		{
			name: "narration between searches",
			content: []ContentBlock{
				{Type: "server_tool_use"},
				{Type: "web_search_tool_result"},
				{Type: "text", Text: "Let me check for foggy conditions too."},
				{Type: "server_tool_use"},
				{Type: "web_search_tool_result"},
				{Type: "text", Text: "highway"},
			},
			want: "highway",
		},
		{
			name: "answer split around citations",
			content: []ContentBlock{
				{Type: "server_tool_use"},
				{Type: "web_search_tool_result"},
				{Type: "text", Text: "18°C, "},
				{Type: "text", Text: "light rain"},
			},
			want: "18°C, light rain",
		},
		{
			name: "search without answer",
			content: []ContentBlock{
				{Type: "text", Text: "Searching for snowy roads."},
				{Type: "server_tool_use"},
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, (&MessageResponse{Content: tt.content}).Text())
		})
	}
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 6.0, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
	assert.InDelta(t, 18.0, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
}

func TestTokenUsage_EstimateCostWithSearch(t *testing.T) {
	u := TokenUsage{WebSearchRequests: 3}
	assert.InDelta(t, 0.03, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
}

func TestTokenUsage_UnknownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 500, OutputTokens: 500, WebSearchRequests: 1}
	assert.Zero(t, u.EstimateCost("gpt-4o"))
}

func TestTokenUsage_LogCostDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		TokenUsage{InputTokens: 10}.LogCost("claude-haiku-4-5-20251001", "road")
	})
}
