package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Vault manages a directory of markdown notes.
type Vault struct {
	root string
}

// Open validates the vault root and returns a Vault.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", abs)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

// within reports whether an already-cleaned absolute path is the vault
// root or inside it. The separator suffix matters: a sibling directory
// sharing the root's name as a prefix must not pass.
func (v *Vault) within(path string) bool {
	return path == v.root || strings.HasPrefix(path, v.root+string(filepath.Separator))
}

// resolve maps a relative note path to an absolute path, rejecting
// anything that escapes the vault root or is not a markdown file.
func (v *Vault) resolve(relPath string) (string, error) {
	if !strings.HasSuffix(relPath, ".md") {
		return "", fmt.Errorf("not a markdown file: %s", relPath)
	}
	full := filepath.Join(v.root, relPath)
	if !v.within(full) {
		return "", fmt.Errorf("path escapes vault root: %s", relPath)
	}
	return full, nil
}

// Read parses a single note by vault-relative path.
func (v *Vault) Read(relPath string) (*Note, error) {
	full, err := v.resolve(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read note: %w", err)
	}
	return parseNote(relPath, string(data)), nil
}

// Write serializes a note to disk, creating parent directories as needed.
func (v *Vault) Write(note *Note) error {
	full, err := v.resolve(note.RelPath)
	if err != nil {
		return err
	}
	md, err := note.Markdown()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create note directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

// Create writes a new note, refusing to clobber an existing one unless
// overwrite is set.
func (v *Vault) Create(relPath, body string, frontmatter map[string]any, overwrite bool) (*Note, error) {
	full, err := v.resolve(relPath)
	if err != nil {
		return nil, err
	}
	if !overwrite {
		if _, err := os.Stat(full); err == nil {
			return nil, fmt.Errorf("note already exists: %s", relPath)
		}
	}
	note := &Note{RelPath: relPath, Frontmatter: frontmatter, Body: body}
	if err := v.Write(note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note.
func (v *Vault) Delete(relPath string) error {
	full, err := v.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// List returns all notes under folder (entire vault when empty), sorted
// by relative path.
func (v *Vault) List(folder string) ([]*Note, error) {
	base := v.root
	if folder != "" {
		base = filepath.Join(v.root, folder)
		if !v.within(base) {
			return nil, fmt.Errorf("path escapes vault root: %s", folder)
		}
	}

	var notes []*Note
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		notes = append(notes, parseNote(rel, string(data)))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list notes: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].RelPath < notes[j].RelPath })
	return notes, nil
}

// Search matches the query case-insensitively against filename, tags, and
// body, in that order of preference.
func (v *Vault) Search(query, folder string) ([]*Note, error) {
	notes, err := v.List(folder)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var results []*Note
	for _, note := range notes {
		switch {
		case strings.Contains(strings.ToLower(note.Title()), q):
			results = append(results, note)
		case strings.Contains(strings.ToLower(strings.Join(note.Tags(), " ")), q):
			results = append(results, note)
		case strings.Contains(strings.ToLower(note.Body), q):
			results = append(results, note)
		}
	}
	return results, nil
}

// FindByTags returns notes whose tags include all of the given tags.
func (v *Vault) FindByTags(tags []string) ([]*Note, error) {
	notes, err := v.List("")
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[normalizeTag(t)] = true
	}

	var results []*Note
	for _, note := range notes {
		have := make(map[string]bool)
		for _, t := range note.Tags() {
			have[normalizeTag(t)] = true
		}
		all := true
		for t := range want {
			if !have[t] {
				all = false
				break
			}
		}
		if all {
			results = append(results, note)
		}
	}
	return results, nil
}

// Tags returns a tag → note count mapping across the whole vault.
func (v *Vault) Tags() (map[string]int, error) {
	notes, err := v.List("")
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, note := range notes {
		for _, t := range note.Tags() {
			counts[normalizeTag(t)]++
		}
	}
	return counts, nil
}
