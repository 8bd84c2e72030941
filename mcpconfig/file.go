package mcpconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File edits the mcpServers section of a Claude CLI config file
// (~/.claude.json by default) while leaving every other key in the file
// untouched.
type File struct {
	path string
}

// DefaultPath returns ~/.claude.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude.json"), nil
}

// NewFile returns an editor for the given config path. An empty path uses
// DefaultPath.
func NewFile(path string) (*File, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &File{path: path}, nil
}

// Path returns the config file path being edited.
func (f *File) Path() string {
	return f.path
}

// load reads the config into a generic map so unknown top-level keys
// survive a write. A missing file reads as an empty config.
func (f *File) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if cfg == nil {
		cfg = map[string]json.RawMessage{}
	}
	return cfg, nil
}

// save writes through a temp file and renames it into place, so a crash
// mid-write cannot leave ~/.claude.json truncated for the CLI.
func (f *File) save(cfg map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) servers(cfg map[string]json.RawMessage) (map[string]Server, error) {
	raw, ok := cfg["mcpServers"]
	if !ok {
		return map[string]Server{}, nil
	}
	var servers map[string]Server
	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil, fmt.Errorf("parse mcpServers: %w", err)
	}
	if servers == nil {
		servers = map[string]Server{}
	}
	return servers, nil
}

// Installed lists the names of configured MCP servers, sorted.
func (f *File) Installed() ([]string, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	servers, err := f.servers(cfg)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// IsInstalled reports whether the named server is configured.
func (f *File) IsInstalled(name string) (bool, error) {
	cfg, err := f.load()
	if err != nil {
		return false, err
	}
	servers, err := f.servers(cfg)
	if err != nil {
		return false, err
	}
	_, ok := servers[name]
	return ok, nil
}

// Install adds a registry server to the config. The server must exist in
// Registry; env must cover its required variables or the error includes
// the server's setup guide.
func (f *File) Install(name string, env map[string]string) (ServerDef, error) {
	def, err := Lookup(name)
	if err != nil {
		return ServerDef{}, err
	}
	if missing := def.MissingEnv(env); len(missing) > 0 {
		return def, fmt.Errorf("missing required env vars for %s: %s\n\n%s",
			def.DisplayName, strings.Join(missing, ", "), def.SetupGuide)
	}

	cfg, err := f.load()
	if err != nil {
		return def, err
	}
	servers, err := f.servers(cfg)
	if err != nil {
		return def, err
	}
	servers[name] = def.ToServer(env)

	raw, err := json.Marshal(servers)
	if err != nil {
		return def, fmt.Errorf("marshal mcpServers: %w", err)
	}
	cfg["mcpServers"] = raw
	return def, f.save(cfg)
}

// Remove deletes a configured server. Returns false when the server was
// not configured.
func (f *File) Remove(name string) (bool, error) {
	cfg, err := f.load()
	if err != nil {
		return false, err
	}
	servers, err := f.servers(cfg)
	if err != nil {
		return false, err
	}
	if _, ok := servers[name]; !ok {
		return false, nil
	}
	delete(servers, name)

	raw, err := json.Marshal(servers)
	if err != nil {
		return false, fmt.Errorf("marshal mcpServers: %w", err)
	}
	cfg["mcpServers"] = raw
	return true, f.save(cfg)
}

// StatusEntry pairs a registry definition with its installed state.
type StatusEntry struct {
	Def       ServerDef
	Installed bool
}

// Status reports every registry server and whether it is configured,
// sorted by name.
func (f *File) Status() ([]StatusEntry, error) {
	installed := map[string]bool{}
	names, err := f.Installed()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		installed[n] = true
	}

	entries := make([]StatusEntry, 0, len(Registry))
	for name, def := range Registry {
		entries = append(entries, StatusEntry{Def: def, Installed: installed[name]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Def.Name < entries[j].Def.Name })
	return entries, nil
}
