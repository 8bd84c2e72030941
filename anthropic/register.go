package anthropic

import (
	"net/http"

	"github.com/JunsikChoi/second-brain-kit/provider"
)

func init() {
	provider.Register(provider.SelectorNetwork, newFromConfig)
}

// newFromConfig is the factory registered for the "network" selector.
// The credential check lives in New so direct construction fails the same
// way factory construction does.
func newFromConfig(cfg provider.Config) (provider.Provider, error) {
	opts := make([]Option, 0, 3)
	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}
	if cfg.SystemPrompt != "" {
		opts = append(opts, WithSystemPrompt(cfg.SystemPrompt))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return New(cfg.APIKey, opts...)
}
