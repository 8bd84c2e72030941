// Package session tracks per-channel conversation state: the backend's
// resume token, the channel's chosen model and system prompt, accumulated
// spend, and a short rolling history for the chat-only backend.
//
// The provider abstraction itself keeps no conversation state; this store
// is where the bot layer keeps it between turns.
package session

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/JunsikChoi/second-brain-kit/model"
	"github.com/JunsikChoi/second-brain-kit/provider"
)

// maxHistory bounds the rolling history per channel. Older turns fall off;
// the process backend carries full context in its resumed session anyway.
const maxHistory = 20

// userMsgCap truncates stored user messages; history exists to give the
// chat-only backend context, not to archive prompts.
const userMsgCap = 200

// Session is one channel's conversation state.
type Session struct {
	// SessionID is the process backend's resume token. Empty until the
	// first successful turn, and always empty on the network backend.
	SessionID string

	// Model is the channel's chosen model short-name.
	Model string

	// SystemPrompt overrides the configured system prompt for this
	// channel. Empty means use the default.
	SystemPrompt string

	// TotalCostUSD accumulates reported per-turn costs.
	TotalCostUSD float64

	// Turns counts completed turns.
	Turns int

	CreatedAt time.Time
	LastUsed  time.Time

	// History holds recent turns, oldest first, for callers that supply
	// history per call (the network backend).
	History []provider.Message
}

// Store maps channel IDs to sessions. Safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	defaultModel string
	costs        *model.CostTracker
}

// NewStore creates a session store. Channels start on defaultModel.
func NewStore(defaultModel string) *Store {
	return &Store{
		sessions:     make(map[string]*Session),
		defaultModel: defaultModel,
		costs:        model.NewCostTracker(),
	}
}

// Get returns the channel's session, creating it on first use.
func (s *Store) Get(channelID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(channelID)
}

func (s *Store) get(channelID string) *Session {
	sess, ok := s.sessions[channelID]
	if !ok {
		now := time.Now()
		sess = &Session{Model: s.defaultModel, CreatedAt: now, LastUsed: now}
		s.sessions[channelID] = sess
	}
	return sess
}

// Reset discards the channel's session. The next Get starts fresh.
func (s *Store) Reset(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, channelID)
}

// SetModel changes the channel's model for subsequent turns.
func (s *Store) SetModel(channelID, modelName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(channelID).Model = modelName
}

// SetSystemPrompt changes the channel's system prompt. Empty clears it.
func (s *Store) SetSystemPrompt(channelID, prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(channelID).SystemPrompt = prompt
}

// UpdateAfterResponse records the outcome of one completed turn: the new
// resume token (kept only when the backend assigned one) and its cost.
func (s *Store) UpdateAfterResponse(channelID string, resp *provider.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(channelID)
	if resp.SessionID != "" {
		sess.SessionID = resp.SessionID
	}
	sess.TotalCostUSD += resp.CostUSD
	sess.Turns++
	sess.LastUsed = time.Now()
}

// RecordUsage feeds token usage into the store's aggregate cost tracker.
// Only the network backend reports token counts.
func (s *Store) RecordUsage(modelName string, inputTokens, outputTokens int) {
	s.costs.Record(modelName, inputTokens, outputTokens)
}

// AddHistory appends one exchanged turn to the channel's rolling history.
func (s *Store) AddHistory(channelID, userMsg, botMsg string) {
	if len(userMsg) > userMsgCap {
		// Back the cut up to a rune boundary; a torn multibyte char
		// would put invalid UTF-8 into API-bound history.
		cut := userMsgCap
		for cut > 0 && !utf8.RuneStart(userMsg[cut]) {
			cut--
		}
		userMsg = userMsg[:cut]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(channelID)
	sess.History = append(sess.History,
		provider.Message{Role: provider.RoleUser, Content: userMsg},
		provider.Message{Role: provider.RoleAssistant, Content: botMsg},
	)
	if len(sess.History) > maxHistory {
		sess.History = sess.History[len(sess.History)-maxHistory:]
	}
}

// History returns a copy of the channel's rolling history.
func (s *Store) History(channelID string) []provider.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(channelID)
	out := make([]provider.Message, len(sess.History))
	copy(out, sess.History)
	return out
}

// TotalCost sums reported spend across all channels.
func (s *Store) TotalCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, sess := range s.sessions {
		total += sess.TotalCostUSD
	}
	return total
}

// EstimatedTokenCost returns the rate-table estimate for all recorded
// token usage. Differs from TotalCost when backends report their own
// per-turn figures.
func (s *Store) EstimatedTokenCost() float64 {
	return s.costs.EstimatedCost()
}

// All returns a snapshot of every channel's session.
func (s *Store) All() map[string]Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Session, len(s.sessions))
	for id, sess := range s.sessions {
		out[id] = *sess
	}
	return out
}
