// Package vault manages an Obsidian-compatible knowledge vault: a
// directory tree of Markdown notes with YAML frontmatter, with listing,
// search, a tag index, and an fsnotify-backed watcher that keeps the index
// fresh while the bot is running.
package vault

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Note is a single markdown note with YAML frontmatter.
type Note struct {
	// RelPath is the note's path relative to the vault root, always
	// ending in ".md".
	RelPath string

	// Frontmatter holds the parsed YAML header. Nil when absent.
	Frontmatter map[string]any

	// Body is the markdown content after the frontmatter block.
	Body string
}

// Tags returns frontmatter tags normalized to a string slice. Accepts
// both list form and a comma-separated string, since hand-edited vaults
// contain both.
func (n *Note) Tags() []string {
	raw, ok := n.Frontmatter["tags"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		var tags []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			tags = append(tags, fmt.Sprint(t))
		}
		return tags
	}
	return nil
}

// Title returns the frontmatter title, falling back to the filename stem.
func (n *Note) Title() string {
	if t, ok := n.Frontmatter["title"]; ok {
		return fmt.Sprint(t)
	}
	return strings.TrimSuffix(filepath.Base(n.RelPath), ".md")
}

// Markdown serializes the note back to its on-disk form.
func (n *Note) Markdown() (string, error) {
	if len(n.Frontmatter) == 0 {
		return n.Body, nil
	}
	fm, err := yaml.Marshal(n.Frontmatter)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	return "---\n" + strings.TrimRight(string(fm), "\n") + "\n---\n" + n.Body, nil
}

// parseNote splits raw file content into frontmatter and body. A
// malformed YAML header is treated as absent rather than failing the
// read; vaults accumulate hand-edited files.
func parseNote(relPath, text string) *Note {
	note := &Note{RelPath: relPath, Body: text}

	rest, found := strings.CutPrefix(text, "---\n")
	if !found {
		return note
	}
	header, body, found := strings.Cut(rest, "\n---")
	if !found {
		return note
	}
	body = strings.TrimPrefix(body, "\n")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil || fm == nil {
		return note
	}
	note.Frontmatter = fm
	note.Body = body
	return note
}

// normalizeTag lowercases a tag and strips a leading '#'.
func normalizeTag(tag string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "#")
}
