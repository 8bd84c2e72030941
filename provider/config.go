package provider

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend selectors. The set is closed: configuration resolves to exactly
// one of these at startup, never per call.
const (
	SelectorProcess = "process"
	SelectorNetwork = "network"
)

// Config holds validated runtime settings for the active backend.
// Exactly one of CLIPath / APIKey is operationally required, depending on
// the selector.
type Config struct {
	// Provider selects the backend: "process" or "network". Required.
	Provider string `toml:"provider"`

	// CLIPath is the Claude CLI executable (process backend).
	// Default: "claude", resolved via PATH.
	CLIPath string `toml:"cli_path"`

	// APIKey is the Anthropic API credential (network backend).
	// Required when Provider is "network".
	APIKey string `toml:"api_key"`

	// Model is the default model short-name (e.g. "sonnet").
	Model string `toml:"model"`

	// MaxBudgetUSD caps spending for a single turn. Must be > 0.
	MaxBudgetUSD float64 `toml:"max_budget_usd"`

	// SystemPrompt is prepended to every turn unless overridden per call.
	SystemPrompt string `toml:"system_prompt"`

	// WorkDir is the default working directory for CLI execution.
	WorkDir string `toml:"work_dir"`

	// AllowedTools limits which tools the CLI may use. Empty allows all.
	AllowedTools []string `toml:"allowed_tools"`

	// Timeout bounds a single turn. Zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration `toml:"timeout"`
}

// DefaultConfig returns a Config with shipping defaults. Provider must
// still be set before use.
func DefaultConfig() Config {
	return Config{
		CLIPath:      "claude",
		Model:        "sonnet",
		MaxBudgetUSD: 1.00,
	}
}

// LoadFile reads a TOML config file over the receiver's current values.
func (c *Config) LoadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv populates config fields from SBK_-prefixed environment
// variables, which take precedence over existing values.
//
// Supported variables: SBK_PROVIDER, SBK_CLI_PATH, SBK_API_KEY (falling
// back to ANTHROPIC_API_KEY), SBK_MODEL, SBK_MAX_BUDGET_USD,
// SBK_SYSTEM_PROMPT, SBK_WORK_DIR, SBK_ALLOWED_TOOLS (comma-separated),
// SBK_TIMEOUT (Go duration).
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("SBK_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("SBK_CLI_PATH"); v != "" {
		c.CLIPath = v
	}
	if v := os.Getenv("SBK_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("SBK_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("SBK_MAX_BUDGET_USD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxBudgetUSD = f
		}
	}
	if v := os.Getenv("SBK_SYSTEM_PROMPT"); v != "" {
		c.SystemPrompt = v
	}
	if v := os.Getenv("SBK_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("SBK_ALLOWED_TOOLS"); v != "" {
		var tools []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tools = append(tools, t)
			}
		}
		c.AllowedTools = tools
	}
	if v := os.Getenv("SBK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// FromEnv creates a Config from environment variables over defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks the configuration for the selected backend. Backend
// factories re-check their own required fields defensively; callers should
// still validate at load time so failures surface before startup completes.
func (c *Config) Validate() error {
	switch c.Provider {
	case SelectorProcess:
		if c.CLIPath == "" {
			return fmt.Errorf("%w: cli_path is required for the process backend", ErrConfiguration)
		}
	case SelectorNetwork:
		if c.APIKey == "" {
			return fmt.Errorf("%w: api_key is required for the network backend", ErrConfiguration)
		}
	case "":
		return fmt.Errorf("%w: provider is required", ErrConfiguration)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
	if c.MaxBudgetUSD <= 0 {
		return fmt.Errorf("%w: max_budget_usd must be > 0, got %v", ErrConfiguration, c.MaxBudgetUSD)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be >= 0, got %v", ErrConfiguration, c.Timeout)
	}
	return nil
}
