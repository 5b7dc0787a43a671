// Package extract turns fetched provider pricing pages into structured
// pricing rows using the Anthropic extraction client.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/SeanTater/llm-pareto/pkg/anthropic"
)

const (
	// maxPageChars caps how much of a fetched page goes into the prompt.
	maxPageChars = 15000

	// maxParseAttempts re-asks the model when it returns unparseable JSON.
	maxParseAttempts = 2
)

// systemPrompt carries the extraction instructions. It is identical for
// every source in a run, so it goes out as a cached system block.
const systemPrompt = `You extract language-model pricing from provider pages.

Given page text, return a JSON array with this exact structure:
[
  {
    "model_id": "gpt-4o",
    "model_name": "GPT-4o",
    "input_per_1m_tokens": 5.00,
    "output_per_1m_tokens": 15.00,
    "notes": "any relevant notes or context"
  }
]

Rules:
- Convert all prices to dollars per 1 million tokens
- Use lowercase-with-hyphens for model_id (e.g., "gpt-4o", "claude-3-5-sonnet")
- Include only current production models (not deprecated or legacy ones)
- If a model has multiple pricing tiers, use the standard tier
- Return ONLY the JSON array, no other text`

// PricingRow is one model's pricing as the extraction model read it off a
// provider page.
type PricingRow struct {
	ModelID           string  `json:"model_id"`
	ModelName         string  `json:"model_name"`
	InputPer1MTokens  float64 `json:"input_per_1m_tokens"`
	OutputPer1MTokens float64 `json:"output_per_1m_tokens"`
	Notes             string  `json:"notes,omitempty"`
}

// Extractor asks the LLM to read provider pages.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates an Extractor using the given client and model.
func New(client anthropic.Client, model string, maxTokens int64) *Extractor {
	return &Extractor{client: client, model: model, maxTokens: maxTokens}
}

// Warm primes the prompt cache with the extraction instructions so that
// concurrent per-source requests read the cache instead of each writing it.
func (e *Extractor) Warm(ctx context.Context) error {
	req := anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 16,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: "Acknowledge the instructions."},
		},
	}
	resp, err := anthropic.PrimerRequest(ctx, e.client, req)
	if err != nil {
		return err
	}
	resp.Usage.LogCost(e.model, "primer")
	return nil
}

// Pricing extracts a pricing row for every current model on a provider page.
// A response that does not parse as JSON is retried once with the same
// request before giving up.
func (e *Extractor) Pricing(ctx context.Context, provider, page string) ([]PricingRow, error) {
	req := anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(
				"Extract pricing for all %s language models from this page:\n\n%s",
				provider, truncatePage(page),
			)},
		},
	}

	var lastErr error
	for attempt := range maxParseAttempts {
		resp, err := e.client.CreateMessage(ctx, req)
		if err != nil {
			return nil, eris.Wrapf(err, "extract: %s pricing", provider)
		}
		resp.Usage.LogCost(e.model, "extract")

		rows, err := parseRows(extractText(resp))
		if err == nil {
			return rows, nil
		}
		lastErr = err
		zap.L().Debug("extraction JSON parse failed",
			zap.String("provider", provider),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, eris.Wrapf(lastErr, "extract: %s pricing unparseable after %d attempts", provider, maxParseAttempts)
}

func parseRows(text string) ([]PricingRow, error) {
	var rows []PricingRow
	if err := json.Unmarshal([]byte(cleanJSON(text)), &rows); err != nil {
		return nil, eris.Wrap(err, "decode pricing rows")
	}
	return rows, nil
}

// extractText concatenates all text content blocks.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "" || b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// cleanJSON strips markdown fences and extracts the JSON array or object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	switch {
	case arrStart >= 0 && (objStart < 0 || arrStart < objStart):
		if end := strings.LastIndex(text, "]"); end > arrStart {
			text = text[arrStart : end+1]
		}
	case objStart >= 0:
		if end := strings.LastIndex(text, "}"); end > objStart {
			text = text[objStart : end+1]
		}
	}

	return strings.TrimSpace(text)
}

func truncatePage(page string) string {
	if len(page) <= maxPageChars {
		return page
	}
	return page[:maxPageChars] + "\n... [truncated]"
}
