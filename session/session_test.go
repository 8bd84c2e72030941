package session

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JunsikChoi/second-brain-kit/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCreatesSession(t *testing.T) {
	s := NewStore("sonnet")

	sess := s.Get("c1")
	require.NotNil(t, sess)
	assert.Equal(t, "sonnet", sess.Model)
	assert.Zero(t, sess.Turns)
	assert.False(t, sess.CreatedAt.IsZero())

	assert.Same(t, sess, s.Get("c1"))
}

func TestReset(t *testing.T) {
	s := NewStore("sonnet")
	s.SetModel("c1", "opus")
	s.Reset("c1")

	assert.Equal(t, "sonnet", s.Get("c1").Model, "reset returns the channel to defaults")
}

func TestUpdateAfterResponse(t *testing.T) {
	s := NewStore("sonnet")

	s.UpdateAfterResponse("c1", &provider.Response{SessionID: "sess-1", CostUSD: 0.05})
	s.UpdateAfterResponse("c1", &provider.Response{CostUSD: 0.03})

	sess := s.Get("c1")
	assert.Equal(t, "sess-1", sess.SessionID, "empty session IDs never clobber the resume token")
	assert.InDelta(t, 0.08, sess.TotalCostUSD, 1e-9)
	assert.Equal(t, 2, sess.Turns)
	assert.InDelta(t, 0.08, s.TotalCost(), 1e-9)
}

func TestHistoryRollsAndCaps(t *testing.T) {
	s := NewStore("sonnet")

	longPrompt := strings.Repeat("x", 500)
	s.AddHistory("c1", longPrompt, "reply")

	hist := s.History("c1")
	require.Len(t, hist, 2)
	assert.Len(t, hist[0].Content, userMsgCap)
	assert.Equal(t, provider.RoleUser, hist[0].Role)
	assert.Equal(t, provider.RoleAssistant, hist[1].Role)

	for i := 0; i < 30; i++ {
		s.AddHistory("c1", "q", "a")
	}
	assert.Len(t, s.History("c1"), maxHistory)
}

func TestHistoryTruncatesOnRuneBoundary(t *testing.T) {
	s := NewStore("sonnet")

	// 3-byte runes that do not divide the byte cap evenly, so a naive
	// byte slice would tear the rune at the cut.
	s.AddHistory("c1", strings.Repeat("가", 100), "reply")

	got := s.History("c1")[0].Content
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), userMsgCap)
	assert.Equal(t, strings.Repeat("가", 66), got)
}

func TestHistoryIsACopy(t *testing.T) {
	s := NewStore("sonnet")
	s.AddHistory("c1", "q", "a")

	hist := s.History("c1")
	hist[0].Content = "mutated"
	assert.Equal(t, "q", s.History("c1")[0].Content)
}

func TestSetSystemPrompt(t *testing.T) {
	s := NewStore("sonnet")
	s.SetSystemPrompt("c1", "be terse")
	assert.Equal(t, "be terse", s.Get("c1").SystemPrompt)

	s.SetSystemPrompt("c1", "")
	assert.Empty(t, s.Get("c1").SystemPrompt)
}

func TestEstimatedTokenCost(t *testing.T) {
	s := NewStore("sonnet")
	s.RecordUsage("sonnet", 1_000_000, 1_000_000)
	assert.InDelta(t, 18.0, s.EstimatedTokenCost(), 1e-9)
}

func TestAllSnapshot(t *testing.T) {
	s := NewStore("sonnet")
	s.Get("c1")
	s.Get("c2")

	all := s.All()
	assert.Len(t, all, 2)

	// Snapshot is detached from the store.
	snap := all["c1"]
	snap.Model = "opus"
	assert.Equal(t, "sonnet", s.Get("c1").Model)
}
