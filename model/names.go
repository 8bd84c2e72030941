// Package model maps model short-names to full identifiers and estimates
// costs from token usage using published per-million-token rates.
package model

import "strings"

// Name represents a normalized model family name.
type Name string

// Claude model family constants.
const (
	Opus   Name = "opus"
	Sonnet Name = "sonnet"
	Haiku  Name = "haiku"
)

// fullNames maps short tier labels to the pinned full identifiers the
// Messages API expects. Short names are what users type in chat ("/model
// sonnet"); the CLI accepts them natively.
var fullNames = map[Name]string{
	Opus:   "claude-opus-4-5-20251101",
	Sonnet: "claude-sonnet-4-5-20250929",
	Haiku:  "claude-haiku-4-5-20251001",
}

// Resolve maps a short name to its full model identifier. Names outside
// the table pass through unchanged, so future or unknown identifiers work
// without code changes here.
func Resolve(name string) string {
	if full, ok := fullNames[Name(strings.ToLower(name))]; ok {
		return full
	}
	return name
}

// Normalize converts a full model identifier to its family alias, e.g.
// "claude-sonnet-4-5-20250929" becomes "sonnet". Names that match no known
// family are returned as-is.
func Normalize(name string) Name {
	switch Name(name) {
	case Opus, Sonnet, Haiku:
		return Name(name)
	}
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "opus"):
		return Opus
	case strings.Contains(lower, "sonnet"):
		return Sonnet
	case strings.Contains(lower, "haiku"):
		return Haiku
	}
	return Name(name)
}
