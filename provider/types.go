package provider

// DefaultChannel is the channel ID used when RunOptions.ChannelID is empty.
const DefaultChannel = "default"

// RunOptions carries per-call overrides for a single turn.
//
// SessionID and WorkDir are meaningful only to the process-backed provider;
// Messages only to the network-backed one (the CLI carries its own history
// inside the resumed session). Unknown fields are ignored by the backend
// that does not understand them.
type RunOptions struct {
	// ChannelID scopes the call to one logical conversation thread.
	// Defaults to DefaultChannel when empty.
	ChannelID string

	// SessionID resumes a prior exchange (opaque, backend-assigned).
	SessionID string

	// Model overrides the configured model for this call only.
	Model string

	// SystemPrompt overrides the configured system prompt for this call.
	SystemPrompt string

	// WorkDir overrides the working directory of the spawned process.
	WorkDir string

	// Messages is caller-supplied conversation history, oldest first.
	// The provider itself retains none.
	Messages []Message
}

// Channel returns the effective channel ID.
func (o RunOptions) Channel() string {
	if o.ChannelID == "" {
		return DefaultChannel
	}
	return o.ChannelID
}

// Message is one prior conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Response is the outcome of one turn. Every non-fatal path produces one;
// IsError distinguishes turns the caller should render as an error reply
// from turns that simply succeeded.
type Response struct {
	// Text is the assistant's reply, possibly empty.
	Text string `json:"text"`

	// SessionID is the backend-assigned resume token. Empty for backends
	// with no session concept.
	SessionID string `json:"session_id,omitempty"`

	// CostUSD is the reported or estimated cost of this turn.
	CostUSD float64 `json:"cost_usd"`

	// DurationMS is the backend-reported duration, falling back to
	// measured wall-clock time.
	DurationMS int64 `json:"duration_ms"`

	// IsError marks in-band failures: the turn completed in the sense
	// that there is text to show, but it is an error message.
	IsError bool `json:"is_error"`
}
