// Package provider defines the unified interface for reasoning backends.
//
// The bot layer holds exactly one Provider for its process lifetime,
// selected once at startup from configuration. Two backends implement the
// interface:
//
//   - "process": the Claude Code CLI run as a child process per turn
//     (package claudecli). Supports session resumption and per-channel
//     cancellation via Kill.
//   - "network": the Anthropic Messages API, one stateless call per turn
//     (package anthropic). Conversation history is supplied by the caller;
//     Kill is a documented no-op.
//
// # Usage
//
// Blank-import the providers package so both backends register themselves,
// then construct from configuration:
//
//	import _ "github.com/JunsikChoi/second-brain-kit/providers"
//
//	p, err := provider.New(provider.Config{
//	    Provider:     provider.SelectorProcess,
//	    Model:        "sonnet",
//	    MaxBudgetUSD: 1.00,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := p.Run(ctx, "what did I note about Go generics?", provider.RunOptions{
//	    ChannelID: "c1",
//	})
package provider

import "context"

// Provider is the uniform contract between the bot layer and a reasoning
// backend. Run may be called concurrently across distinct channel IDs.
// Overlapping Run calls on the same channel are not serialized here: a
// second call silently replaces the channel's tracked process, orphaning
// cancellation of the first. Single-flight per channel is the caller's
// discipline.
type Provider interface {
	// Run executes one conversation turn and returns a Response.
	// Non-fatal failures (network errors, non-zero CLI exits with readable
	// output, abnormal stop reasons) are reported as Response.IsError=true,
	// not as a returned error. A returned error means the turn could not be
	// executed or its output could not be interpreted at all; see the
	// package error taxonomy.
	//
	// The context bounds the call; backends impose no deadline of their
	// own unless configured with one.
	Run(ctx context.Context, prompt string, opts RunOptions) (*Response, error)

	// Kill cancels in-flight work for a channel. It is a no-op when the
	// channel has nothing running, and for backends that cannot interrupt
	// a call mid-flight.
	Kill(channelID string)
}
