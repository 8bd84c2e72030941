package claudecli

import (
	"testing"
	"time"

	"github.com/JunsikChoi/second-brain-kit/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name     string
		cli      *CLI
		prompt   string
		opts     provider.RunOptions
		contains []string
		excludes []string
	}{
		{
			name:   "defaults",
			cli:    New(),
			prompt: "hello",
			contains: []string{
				"-p", "hello",
				"--output-format", "json",
				"--dangerously-skip-permissions",
				"--model", "sonnet",
				"--max-budget-usd", "1.00",
			},
			excludes: []string{"--resume", "--system-prompt", "--allowedTools", "--json-schema"},
		},
		{
			name:     "model override from options",
			cli:      New(WithModel("sonnet")),
			prompt:   "x",
			opts:     provider.RunOptions{Model: "opus"},
			contains: []string{"--model", "opus"},
		},
		{
			name:     "session resume",
			cli:      New(),
			prompt:   "x",
			opts:     provider.RunOptions{SessionID: "sess-123"},
			contains: []string{"--resume", "sess-123"},
		},
		{
			name:     "system prompt from client",
			cli:      New(WithSystemPrompt("be brief")),
			prompt:   "x",
			contains: []string{"--system-prompt", "be brief"},
		},
		{
			name:     "system prompt override from options",
			cli:      New(WithSystemPrompt("client default")),
			prompt:   "x",
			opts:     provider.RunOptions{SystemPrompt: "per call"},
			contains: []string{"--system-prompt", "per call"},
			excludes: []string{"client default"},
		},
		{
			name:     "allowed tools joined",
			cli:      New(WithAllowedTools([]string{"Read", "Grep"})),
			prompt:   "x",
			contains: []string{"--allowedTools", "Read,Grep"},
		},
		{
			name:     "budget formatting",
			cli:      New(WithMaxBudgetUSD(2.5)),
			prompt:   "x",
			contains: []string{"--max-budget-usd", "2.50"},
		},
		{
			name:     "json schema",
			cli:      New(WithJSONSchema(`{"type":"object"}`)),
			prompt:   "x",
			contains: []string{"--json-schema", `{"type":"object"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.cli.buildArgs(tt.prompt, tt.opts)
			for _, want := range tt.contains {
				assert.Contains(t, args, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, args, bad)
			}
		})
	}
}

func TestBuildArgsOrder(t *testing.T) {
	args := New().buildArgs("hi", provider.RunOptions{})
	require.GreaterOrEqual(t, len(args), 9)
	assert.Equal(t, []string{
		"-p", "hi",
		"--output-format", "json",
		"--dangerously-skip-permissions",
		"--model", "sonnet",
		"--max-budget-usd", "1.00",
	}, args)
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantText    string
		wantCost    float64
		wantSession string
		wantIsError bool
		wantErr     error
	}{
		{
			name:        "clean payload",
			raw:         `{"result":"hi there","total_cost_usd":0.01,"session_id":"abc","duration_ms":1200,"is_error":false}`,
			wantText:    "hi there",
			wantCost:    0.01,
			wantSession: "abc",
		},
		{
			name:        "payload surrounded by noise",
			raw:         "npm warn old lockfile\n{\"result\":\"ok\",\"total_cost_usd\":0.02,\"session_id\":\"s1\"}\ntrailing",
			wantText:    "ok",
			wantCost:    0.02,
			wantSession: "s1",
		},
		{
			name:     "text fallback key",
			raw:      `{"text":"fallback body","cost_usd":0.03}`,
			wantText: "fallback body",
			wantCost: 0.03,
		},
		{
			name:     "result preferred over text",
			raw:      `{"result":"primary","text":"secondary"}`,
			wantText: "primary",
		},
		{
			name:     "total_cost_usd preferred over cost_usd",
			raw:      `{"result":"x","total_cost_usd":0.10,"cost_usd":0.99}`,
			wantText: "x",
			wantCost: 0.10,
		},
		{
			name:        "in-band error flag",
			raw:         `{"result":"budget exceeded","is_error":true}`,
			wantText:    "budget exceeded",
			wantIsError: true,
		},
		{
			name:        "no json at all",
			raw:         "  command not found: claude  ",
			wantText:    "command not found: claude",
			wantIsError: true,
		},
		{
			name:    "malformed json between braces",
			raw:     `{"result": "unterminated`,
			wantErr: provider.ErrParse,
		},
		{
			name:    "braces around non-json",
			raw:     "{this is not json}",
			wantErr: provider.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseOutput(tt.raw, 50*time.Millisecond)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, tt.wantCost, resp.CostUSD)
			assert.Equal(t, tt.wantSession, resp.SessionID)
			assert.Equal(t, tt.wantIsError, resp.IsError)
		})
	}
}

func TestParseOutputDuration(t *testing.T) {
	// Payload duration wins over wall clock.
	resp, err := parseOutput(`{"result":"x","duration_ms":777}`, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(777), resp.DurationMS)

	// Wall clock fills in when the payload omits it.
	resp, err = parseOutput(`{"result":"x"}`, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), resp.DurationMS)
}

func TestSetEnvVar(t *testing.T) {
	env := []string{"HOME=/root", "PATH=/usr/bin"}

	env = setEnvVar(env, "PATH", "/opt/bin")
	assert.Contains(t, env, "PATH=/opt/bin")
	assert.NotContains(t, env, "PATH=/usr/bin")

	env = setEnvVar(env, "NEW_VAR", "value")
	assert.Contains(t, env, "NEW_VAR=value")
	assert.Len(t, env, 3)
}
