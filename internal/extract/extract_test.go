package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeanTater/llm-pareto/pkg/anthropic"
)

// fakeClient returns canned responses (or errors) in call order and records
// every request it saw.
type fakeClient struct {
	responses []*anthropic.MessageResponse
	errs      []error
	requests  []anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	var resp *anthropic.MessageResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return resp, err
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:         "msg_test",
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

const fencedRows = "```json\n" + `[
  {"model_id": "gpt-4o", "model_name": "GPT-4o", "input_per_1m_tokens": 5.0, "output_per_1m_tokens": 15.0},
  {"model_id": "gpt-4o-mini", "model_name": "GPT-4o mini", "input_per_1m_tokens": 0.15, "output_per_1m_tokens": 0.6, "notes": "standard tier"}
]` + "\n```"

func TestPricing_ParsesFencedArray(t *testing.T) {
	fc := &fakeClient{responses: []*anthropic.MessageResponse{textResponse(fencedRows)}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	rows, err := e.Pricing(context.Background(), "OpenAI", "<html>pricing table</html>")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "gpt-4o", rows[0].ModelID)
	assert.Equal(t, "GPT-4o", rows[0].ModelName)
	assert.InDelta(t, 5.0, rows[0].InputPer1MTokens, 0.001)
	assert.InDelta(t, 15.0, rows[0].OutputPer1MTokens, 0.001)
	assert.Equal(t, "standard tier", rows[1].Notes)

	require.Len(t, fc.requests, 1)
	req := fc.requests[0]
	assert.Equal(t, "claude-sonnet-4-5-20250929", req.Model)
	assert.Equal(t, int64(4096), req.MaxTokens)
	require.Len(t, req.System, 1)
	assert.Equal(t, systemPrompt, req.System[0].Text)
	require.NotNil(t, req.System[0].CacheControl)
	assert.Equal(t, "5m", req.System[0].CacheControl.TTL)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "OpenAI")
	assert.Contains(t, req.Messages[0].Content, "<html>pricing table</html>")
}

func TestPricing_RetriesOnMalformedJSON(t *testing.T) {
	fc := &fakeClient{responses: []*anthropic.MessageResponse{
		textResponse("Sorry, I could not find a pricing table."),
		textResponse(`[{"model_id": "claude-3-5-sonnet", "model_name": "Claude 3.5 Sonnet", "input_per_1m_tokens": 3.0, "output_per_1m_tokens": 15.0}]`),
	}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	rows, err := e.Pricing(context.Background(), "Anthropic", "page")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "claude-3-5-sonnet", rows[0].ModelID)
	assert.Len(t, fc.requests, 2)
}

func TestPricing_UnparseableAfterRetries(t *testing.T) {
	fc := &fakeClient{responses: []*anthropic.MessageResponse{
		textResponse("no json here"),
		textResponse("still no json"),
	}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	_, err := e.Pricing(context.Background(), "Google", "page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable after 2 attempts")
	assert.Len(t, fc.requests, 2)
}

func TestPricing_APIErrorFailsImmediately(t *testing.T) {
	fc := &fakeClient{errs: []error{assert.AnError}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	_, err := e.Pricing(context.Background(), "OpenAI", "page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract: OpenAI pricing")
	assert.Len(t, fc.requests, 1)
}

func TestPricing_TruncatesLongPages(t *testing.T) {
	fc := &fakeClient{responses: []*anthropic.MessageResponse{textResponse("[]")}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	page := strings.Repeat("x", maxPageChars+5000)
	_, err := e.Pricing(context.Background(), "OpenAI", page)
	require.NoError(t, err)

	sent := fc.requests[0].Messages[0].Content
	assert.Contains(t, sent, "... [truncated]")
	assert.Less(t, len(sent), len(page))
}

func TestWarm_PrimesCache(t *testing.T) {
	fc := &fakeClient{responses: []*anthropic.MessageResponse{textResponse("Acknowledged.")}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	err := e.Warm(context.Background())
	require.NoError(t, err)

	require.Len(t, fc.requests, 1)
	req := fc.requests[0]
	assert.Equal(t, int64(16), req.MaxTokens)
	require.Len(t, req.System, 1)
	assert.Equal(t, systemPrompt, req.System[0].Text)
}

func TestWarm_Error(t *testing.T) {
	fc := &fakeClient{errs: []error{assert.AnError}}
	e := New(fc, "claude-sonnet-4-5-20250929", 4096)

	err := e.Warm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primer request")
}

func TestCleanJSON_PlainArray(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, cleanJSON(`[{"a":1}]`))
}

func TestCleanJSON_FencedWithLanguageTag(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, cleanJSON(in))
}

func TestCleanJSON_FencedWithoutLanguageTag(t *testing.T) {
	in := "```\n[1, 2]\n```"
	assert.Equal(t, "[1, 2]", cleanJSON(in))
}

func TestCleanJSON_ProseAroundArray(t *testing.T) {
	in := `Here are the extracted models: [{"model_id": "m"}] Let me know if you need more.`
	assert.Equal(t, `[{"model_id": "m"}]`, cleanJSON(in))
}

func TestCleanJSON_ProseAroundObject(t *testing.T) {
	in := `The result is {"models": []} as requested.`
	assert.Equal(t, `{"models": []}`, cleanJSON(in))
}

func TestCleanJSON_NoJSON(t *testing.T) {
	assert.Equal(t, "nothing here", cleanJSON("nothing here"))
}

func TestExtractText_ConcatenatesTextBlocks(t *testing.T) {
	resp := &anthropic.MessageResponse{Content: []anthropic.ContentBlock{
		{Type: "text", Text: "part one "},
		{Type: "tool_use", Text: "skipped"},
		{Type: "text", Text: "part two"},
	}}
	assert.Equal(t, "part one part two", extractText(resp))
}

func TestExtractText_NilResponse(t *testing.T) {
	assert.Equal(t, "", extractText(nil))
}

func TestTruncatePage_ShortPageUnchanged(t *testing.T) {
	page := strings.Repeat("a", maxPageChars)
	assert.Equal(t, page, truncatePage(page))
}
