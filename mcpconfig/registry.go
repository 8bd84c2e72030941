// Package mcpconfig manages MCP (Model Context Protocol) server entries in
// the Claude CLI's ~/.claude.json: a built-in registry of supported
// servers and an editor that installs or removes them without disturbing
// the file's other keys.
package mcpconfig

import (
	"fmt"
	"sort"
)

// Server is one mcpServers entry in ~/.claude.json. Stdio servers carry
// Command/Args/Env; http servers carry URL.
type Server struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// ServerDef describes a supported MCP server in the built-in registry.
type ServerDef struct {
	Name        string
	DisplayName string
	Description string

	// Type is the transport: "stdio" or "http".
	Type string

	// Command and Args apply to stdio transport.
	Command string
	Args    []string

	// URL applies to http transport.
	URL string

	// EnvVars maps required environment variable names to a hint shown
	// to the user when one is missing.
	EnvVars map[string]string

	// SetupGuide is markdown rendered in chat to walk the user through
	// credentials.
	SetupGuide string
}

// ToServer converts the definition to its ~/.claude.json entry, filling
// required env vars from envValues.
func (d ServerDef) ToServer(envValues map[string]string) Server {
	if d.Type == "http" {
		return Server{Type: "http", URL: d.URL}
	}
	s := Server{Type: "stdio", Command: d.Command, Args: append([]string(nil), d.Args...)}
	if len(d.EnvVars) > 0 && len(envValues) > 0 {
		s.Env = make(map[string]string)
		for k := range d.EnvVars {
			if v, ok := envValues[k]; ok {
				s.Env[k] = v
			}
		}
	}
	return s
}

// MissingEnv returns required env var names absent from envValues.
func (d ServerDef) MissingEnv(envValues map[string]string) []string {
	var missing []string
	for k := range d.EnvVars {
		if _, ok := envValues[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// Registry lists the MCP servers the bot knows how to install.
var Registry = map[string]ServerDef{
	"google-calendar": {
		Name:        "google-calendar",
		DisplayName: "Google Calendar",
		Description: "Read and manage Google Calendar events",
		Type:        "stdio",
		Command:     "npx",
		Args:        []string{"-y", "@cocal/google-calendar-mcp"},
		EnvVars: map[string]string{
			"GOOGLE_OAUTH_CREDENTIALS": "Path to Google OAuth credentials JSON file",
		},
		SetupGuide: "**Google Calendar MCP Setup**\n\n" +
			"1. Go to the Google Cloud Console\n" +
			"2. Create a project and enable the Calendar API\n" +
			"3. Create OAuth 2.0 credentials (Desktop app type)\n" +
			"4. Download the credentials JSON file\n" +
			"5. Install with: `/mcp install name:google-calendar env:GOOGLE_OAUTH_CREDENTIALS=/path/to/credentials.json`",
	},
	"todoist": {
		Name:        "todoist",
		DisplayName: "Todoist",
		Description: "Manage Todoist tasks, projects, and labels",
		Type:        "http",
		URL:         "https://ai.todoist.net/mcp",
		SetupGuide: "**Todoist MCP Setup**\n\n" +
			"No configuration needed! Todoist MCP uses the hosted endpoint.\n" +
			"Just run `/mcp install name:todoist` to enable.",
	},
	"rss-reader": {
		Name:        "rss-reader",
		DisplayName: "RSS Reader",
		Description: "Fetch and read RSS/Atom feed entries",
		Type:        "stdio",
		Command:     "npx",
		Args:        []string{"-y", "rss-reader-mcp"},
		SetupGuide: "**RSS Reader MCP Setup**\n\n" +
			"No configuration needed!\n" +
			"Just run `/mcp install name:rss-reader` to enable.",
	},
}

// Lookup returns a registry entry by name.
func Lookup(name string) (ServerDef, error) {
	def, ok := Registry[name]
	if !ok {
		names := make([]string, 0, len(Registry))
		for n := range Registry {
			names = append(names, n)
		}
		sort.Strings(names)
		return ServerDef{}, fmt.Errorf("unknown MCP server %q (available: %v)", name, names)
	}
	return def, nil
}
