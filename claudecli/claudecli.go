// Package claudecli implements the process-backed provider: each turn runs
// the Claude Code CLI as a child process, parses the single JSON object it
// prints on exit, and tracks the live process per channel so a turn can be
// cancelled from chat.
package claudecli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/JunsikChoi/second-brain-kit/provider"
)

// CLI drives the Claude Code CLI binary. Safe for concurrent use across
// distinct channel IDs; overlapping Run calls on the same channel silently
// replace the tracked process (see provider.Provider).
type CLI struct {
	path         string
	model        string
	maxBudgetUSD float64
	systemPrompt string
	workdir      string
	allowedTools []string
	jsonSchema   string
	timeout      time.Duration
	extraEnv     map[string]string

	mu    sync.Mutex
	procs map[string]*exec.Cmd
}

// Option configures a CLI.
type Option func(*CLI)

// New creates a process-backed provider. Assumes "claude" is on PATH
// unless overridden with WithCLIPath.
func New(opts ...Option) *CLI {
	c := &CLI{
		path:         "claude",
		model:        "sonnet",
		maxBudgetUSD: 1.00,
		procs:        make(map[string]*exec.Cmd),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCLIPath sets the path to the claude binary.
func WithCLIPath(path string) Option {
	return func(c *CLI) { c.path = path }
}

// WithModel sets the default model passed to the CLI.
func WithModel(model string) Option {
	return func(c *CLI) { c.model = model }
}

// WithMaxBudgetUSD sets the per-turn spending ceiling.
func WithMaxBudgetUSD(amount float64) Option {
	return func(c *CLI) { c.maxBudgetUSD = amount }
}

// WithSystemPrompt sets the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(c *CLI) { c.systemPrompt = prompt }
}

// WithWorkdir sets the default working directory for CLI execution.
func WithWorkdir(dir string) Option {
	return func(c *CLI) { c.workdir = dir }
}

// WithAllowedTools limits which tools the CLI may use.
func WithAllowedTools(tools []string) Option {
	return func(c *CLI) { c.allowedTools = tools }
}

// WithJSONSchema forces structured output matching the given JSON schema.
// See SchemaFor to derive a schema from a Go struct.
func WithJSONSchema(schema string) Option {
	return func(c *CLI) { c.jsonSchema = schema }
}

// WithTimeout bounds each turn with a deadline. Zero means no deadline
// beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *CLI) { c.timeout = d }
}

// WithEnv adds environment variables to the CLI process, merged over the
// inherited environment.
func WithEnv(env map[string]string) Option {
	return func(c *CLI) {
		if c.extraEnv == nil {
			c.extraEnv = make(map[string]string, len(env))
		}
		for k, v := range env {
			c.extraEnv[k] = v
		}
	}
}

// Run implements provider.Provider. It launches one CLI invocation,
// accumulates stdout and stderr independently until exit, then parses the
// combined output. Errors the CLI reports in-band come back as
// Response.IsError; only spawn failures and unparseable output reject.
func (c *CLI) Run(ctx context.Context, prompt string, opts provider.RunOptions) (*provider.Response, error) {
	start := time.Now()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.buildArgs(prompt, opts)
	cmd := exec.CommandContext(ctx, c.path, args...)
	c.setupCmd(cmd, opts)

	// On cancellation take down the whole process group, not just the
	// direct child; otherwise a spawned grandchild keeps the output pipe
	// open and Wait blocks past the deadline.
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	channel := opts.Channel()
	slog.Info("running claude", "channel", channel, "model", argValue(args, "--model"))

	if err := cmd.Start(); err != nil {
		return nil, provider.NewError(provider.SelectorProcess, "run",
			fmt.Errorf("%w: %v", provider.ErrBackendUnavailable, err))
	}
	c.track(channel, cmd)
	waitErr := cmd.Wait()
	c.untrack(channel, cmd)

	raw := stdout.String()
	if strings.TrimSpace(raw) == "" {
		raw = stderr.String()
	}

	if strings.TrimSpace(raw) == "" {
		if waitErr != nil {
			return nil, provider.NewError(provider.SelectorProcess, "run",
				fmt.Errorf("claude exited without output: %w", waitErr))
		}
		return &provider.Response{
			Text:       "(no response from claude)",
			DurationMS: time.Since(start).Milliseconds(),
			IsError:    true,
		}, nil
	}

	resp, err := parseOutput(raw, time.Since(start))
	if err != nil {
		return nil, provider.NewError(provider.SelectorProcess, "run", err)
	}
	return resp, nil
}

// Kill implements provider.Provider. It sends SIGTERM to the channel's
// process group and removes the table entry immediately, without waiting
// for the OS to confirm termination; Run's exit path tolerates the race
// with a normal exit. No-op when nothing is tracked for the channel.
func (c *CLI) Kill(channelID string) {
	if channelID == "" {
		channelID = provider.DefaultChannel
	}
	c.mu.Lock()
	cmd, ok := c.procs[channelID]
	if ok {
		delete(c.procs, channelID)
	}
	c.mu.Unlock()

	if !ok || cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM); err != nil {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}
	slog.Info("killed claude process", "channel", channelID)
}

// Running reports whether a process is tracked for the channel.
func (c *CLI) Running(channelID string) bool {
	if channelID == "" {
		channelID = provider.DefaultChannel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.procs[channelID]
	return ok
}

// RunningCount returns the number of tracked processes.
func (c *CLI) RunningCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.procs)
}

func (c *CLI) track(channel string, cmd *exec.Cmd) {
	c.mu.Lock()
	// A second Run on the same channel overwrites the prior entry: the
	// table does not serialize same-channel calls.
	c.procs[channel] = cmd
	c.mu.Unlock()
}

func (c *CLI) untrack(channel string, cmd *exec.Cmd) {
	c.mu.Lock()
	if c.procs[channel] == cmd {
		delete(c.procs, channel)
	}
	c.mu.Unlock()
}

// buildArgs composes the invocation deterministically: prompt, output
// format, permissions, model, budget, then the optional resume/system/tool
// flags. The order is stable so tests can assert on it.
func (c *CLI) buildArgs(prompt string, opts provider.RunOptions) []string {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--dangerously-skip-permissions",
		"--model", model,
		"--max-budget-usd", strconv.FormatFloat(c.maxBudgetUSD, 'f', 2, 64),
	}
	if opts.SessionID != "" {
		args = append(args, "--resume", opts.SessionID)
	}
	system := c.systemPrompt
	if opts.SystemPrompt != "" {
		system = opts.SystemPrompt
	}
	if system != "" {
		args = append(args, "--system-prompt", system)
	}
	if len(c.allowedTools) > 0 {
		args = append(args, "--allowedTools", strings.Join(c.allowedTools, ","))
	}
	if c.jsonSchema != "" {
		args = append(args, "--json-schema", c.jsonSchema)
	}
	return args
}

// setupCmd configures working directory, environment, and process group.
func (c *CLI) setupCmd(cmd *exec.Cmd, opts provider.RunOptions) {
	dir := c.workdir
	if opts.WorkDir != "" {
		dir = opts.WorkDir
	}
	if dir != "" {
		cmd.Dir = dir
	}

	// Run in its own process group so Kill can take down subprocesses
	// (test runners, MCP servers) the CLI spawns.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdin = nil

	if len(c.extraEnv) > 0 {
		cmd.Env = os.Environ()
		for k, v := range c.extraEnv {
			cmd.Env = setEnvVar(cmd.Env, k, v)
		}
	}
}

// setEnvVar updates or adds an environment variable in an env slice.
func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// argValue returns the value following a flag, for logging.
func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
