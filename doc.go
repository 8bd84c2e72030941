// Package secondbrainkit is the backend toolkit for a personal
// "second brain" chat assistant: a Discord-style bot that talks to a
// reasoning backend and files what it learns into a Markdown vault.
//
// The load-bearing piece is the provider abstraction. A single Provider
// interface is implemented by two structurally different backends:
//
//   - claudecli: drives the Claude Code CLI as a child process per turn,
//     with per-channel process tracking and cooperative cancellation
//   - anthropic: one stateless Anthropic Messages API call per turn,
//     with token-based cost estimation
//
// Each subpackage is usable independently:
//
//   - provider: shared request/response types, factory, error taxonomy
//   - claudecli: the process-backed provider
//   - anthropic: the network-backed provider
//   - model: model name resolution and published per-token rates
//   - session: per-channel conversation state and spend tracking
//   - vault: Obsidian-compatible Markdown vault with tag indexing
//   - splitter: chat message chunking that preserves code fences
//   - mcpconfig: MCP server registry and ~/.claude.json installer
//
// # Quick Start
//
//	import (
//	    "github.com/JunsikChoi/second-brain-kit/provider"
//	    _ "github.com/JunsikChoi/second-brain-kit/providers"
//	)
//
//	cfg := provider.FromEnv()
//	p, err := provider.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := p.Run(ctx, "summarize my inbox", provider.RunOptions{ChannelID: "c1"})
package secondbrainkit
