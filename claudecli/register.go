package claudecli

import (
	"fmt"

	"github.com/JunsikChoi/second-brain-kit/provider"
)

func init() {
	provider.Register(provider.SelectorProcess, newFromConfig)
}

// newFromConfig is the factory registered for the "process" selector.
// Required fields are re-checked here even though config loading validates
// them: the factory is the last gate before a half-configured backend
// would start serving turns.
func newFromConfig(cfg provider.Config) (provider.Provider, error) {
	if cfg.CLIPath == "" {
		return nil, fmt.Errorf("%w: cli_path is required for the process backend", provider.ErrConfiguration)
	}
	if cfg.MaxBudgetUSD <= 0 {
		return nil, fmt.Errorf("%w: max_budget_usd must be > 0, got %v", provider.ErrConfiguration, cfg.MaxBudgetUSD)
	}

	opts := []Option{
		WithCLIPath(cfg.CLIPath),
		WithMaxBudgetUSD(cfg.MaxBudgetUSD),
	}
	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}
	if cfg.SystemPrompt != "" {
		opts = append(opts, WithSystemPrompt(cfg.SystemPrompt))
	}
	if cfg.WorkDir != "" {
		opts = append(opts, WithWorkdir(cfg.WorkDir))
	}
	if len(cfg.AllowedTools) > 0 {
		opts = append(opts, WithAllowedTools(cfg.AllowedTools))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	return New(opts...), nil
}
