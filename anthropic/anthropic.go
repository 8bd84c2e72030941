// Package anthropic implements the network-backed provider: one stateless
// Anthropic Messages API call per turn, chat-only, with cost estimated
// from reported token usage. Conversation history is supplied by the
// caller on every call; the client retains none.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JunsikChoi/second-brain-kit/model"
	"github.com/JunsikChoi/second-brain-kit/provider"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	apiVersion     = "2023-06-01"

	// maxOutputTokens is the fixed output ceiling for every turn. Chat
	// replies are rendered into 2000-char messages anyway, so a larger
	// ceiling only buys cost.
	maxOutputTokens = 4096

	// stopEndTurn is the stop reason of a normal completion; anything
	// else (max_tokens, refusal) is surfaced as an in-band error.
	stopEndTurn = "end_turn"
)

// Client talks to the Anthropic Messages API. Safe for concurrent use.
type Client struct {
	apiKey       string
	modelName    string
	systemPrompt string
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the default model short-name or identifier.
func WithModel(name string) Option {
	return func(c *Client) { c.modelName = name }
}

// WithSystemPrompt sets the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) { c.systemPrompt = prompt }
}

// WithBaseURL overrides the API endpoint. Primarily for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a network-backed provider. The credential is required up
// front: this check happens once, at construction, not per call.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api_key is required for the network backend", provider.ErrConfiguration)
	}
	c := &Client{
		apiKey:    apiKey,
		modelName: "sonnet",
		baseURL:   defaultBaseURL,
		// Model responses can take a long time before headers arrive;
		// the context still bounds the overall call.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     slog.Default().With("provider", provider.SelectorNetwork),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Wire types for the Messages API.

type apiRequest struct {
	Model     string       `json:"model"`
	Messages  []apiMessage `json:"messages"`
	System    string       `json:"system,omitempty"`
	MaxTokens int          `json:"max_tokens"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Run implements provider.Provider. Call failures (network error, non-2xx,
// timeout) never reject: they come back as IsError responses so the caller
// renders them as a chat reply, mirroring the process backend's contract.
func (c *Client) Run(ctx context.Context, prompt string, opts provider.RunOptions) (*provider.Response, error) {
	start := time.Now()

	modelName := c.modelName
	if opts.Model != "" {
		modelName = opts.Model
	}
	modelID := model.Resolve(modelName)

	system := c.systemPrompt
	if opts.SystemPrompt != "" {
		system = opts.SystemPrompt
	}

	// Caller-supplied history in order, then the current turn.
	msgs := make([]apiMessage, 0, len(opts.Messages)+1)
	for _, m := range opts.Messages {
		msgs = append(msgs, apiMessage{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, apiMessage{Role: string(provider.RoleUser), Content: prompt})

	resp, err := c.post(ctx, apiRequest{
		Model:     modelID,
		Messages:  msgs,
		System:    system,
		MaxTokens: maxOutputTokens,
	})
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("messages call failed", "model", modelID, "error", err)
		return &provider.Response{
			Text:       "Error: " + err.Error(),
			DurationMS: elapsed.Milliseconds(),
			IsError:    true,
		}, nil
	}

	texts := make([]string, 0, len(resp.Content))
	for _, block := range resp.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}

	cost := model.EstimateCost(modelID, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	c.logger.Debug("messages call complete",
		"model", modelID,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
		"cost_usd", cost,
	)

	return &provider.Response{
		Text:       strings.Join(texts, "\n"),
		CostUSD:    cost,
		DurationMS: elapsed.Milliseconds(),
		IsError:    resp.StopReason != stopEndTurn,
	}, nil
}

// Kill implements provider.Provider for interface symmetry only. No
// cancellation token is wired into an in-flight HTTP call, so this backend
// cannot interrupt a turn; callers that need that must cancel the Run
// context instead.
func (c *Client) Kill(channelID string) {
	c.logger.Warn("kill is not supported by the network backend", "channel", channelID)
}

func (c *Client) post(ctx context.Context, req apiRequest) (*apiResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, fmt.Errorf("anthropic API error %d: %s", httpResp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}
