package claudecli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JunsikChoi/second-brain-kit/provider"
)

// cliPayload is the JSON object `claude -p --output-format json` prints.
// Pointer fields distinguish absent keys from zero values so the fallback
// chain (result → text, total_cost_usd → cost_usd) works across schema
// drift between CLI versions.
type cliPayload struct {
	Result       *string  `json:"result"`
	Text         *string  `json:"text"`
	SessionID    string   `json:"session_id"`
	TotalCostUSD *float64 `json:"total_cost_usd"`
	CostUSD      *float64 `json:"cost_usd"`
	DurationMS   *int64   `json:"duration_ms"`
	IsError      bool     `json:"is_error"`
}

// parseOutput turns the CLI's combined output into a Response. The CLI may
// surround its single JSON object with banners, npm warnings, or partial
// text, so the payload is located by scanning for the first '{' and the
// last '}'.
//
// Known limitation, kept for compatibility with the CLI's actual output
// shape: a stray '}' after the real payload would widen the slice and fail
// the parse. A sentinel-delimited frame would remove the ambiguity if the
// CLI ever offers one.
func parseOutput(raw string, elapsed time.Duration) (*provider.Response, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	// No JSON at all: surface the raw output as an in-band error so the
	// caller renders it rather than dropping the turn.
	if start < 0 || end < start {
		return &provider.Response{
			Text:       strings.TrimSpace(raw),
			DurationMS: elapsed.Milliseconds(),
			IsError:    true,
		}, nil
	}

	var payload cliPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		// Braces were present but the span between them is not valid
		// JSON. Never coerced into a guessed Response.
		return nil, fmt.Errorf("%w: %v", provider.ErrParse, err)
	}

	resp := &provider.Response{
		SessionID:  payload.SessionID,
		DurationMS: elapsed.Milliseconds(),
		IsError:    payload.IsError,
	}
	switch {
	case payload.Result != nil:
		resp.Text = *payload.Result
	case payload.Text != nil:
		resp.Text = *payload.Text
	}
	switch {
	case payload.TotalCostUSD != nil:
		resp.CostUSD = *payload.TotalCostUSD
	case payload.CostUSD != nil:
		resp.CostUSD = *payload.CostUSD
	}
	if payload.DurationMS != nil {
		resp.DurationMS = *payload.DurationMS
	}
	return resp, nil
}
