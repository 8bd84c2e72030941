package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVault(t *testing.T) *Vault {
	t.Helper()
	v, err := Open(t.TempDir())
	require.NoError(t, err)
	return v
}

func writeRaw(t *testing.T, v *Vault, relPath, content string) {
	t.Helper()
	full := filepath.Join(v.Root(), relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestOpenRejectsNonDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Open(file)
	assert.Error(t, err)
}

func TestParseNoteFrontmatter(t *testing.T) {
	note := parseNote("a.md", "---\ntitle: My Note\ntags: [go, testing]\n---\nbody text\n")
	assert.Equal(t, "My Note", note.Title())
	assert.Equal(t, []string{"go", "testing"}, note.Tags())
	assert.Equal(t, "body text\n", note.Body)
}

func TestParseNoteCommaTags(t *testing.T) {
	note := parseNote("a.md", "---\ntags: go, testing , \n---\nbody")
	assert.Equal(t, []string{"go", "testing"}, note.Tags())
}

func TestParseNoteWithoutFrontmatter(t *testing.T) {
	note := parseNote("plain.md", "just a body")
	assert.Nil(t, note.Frontmatter)
	assert.Equal(t, "just a body", note.Body)
	assert.Equal(t, "plain", note.Title(), "title falls back to filename stem")
}

func TestParseNoteMalformedYAML(t *testing.T) {
	raw := "---\n: : not yaml [\n---\nbody"
	note := parseNote("bad.md", raw)
	assert.Nil(t, note.Frontmatter)
	assert.Equal(t, raw, note.Body, "malformed header is kept as body text")
}

func TestNoteRoundTrip(t *testing.T) {
	v := testVault(t)

	original := &Note{
		RelPath:     "projects/alpha.md",
		Frontmatter: map[string]any{"title": "Alpha", "tags": []any{"project", "active"}},
		Body:        "# Alpha\n\nNotes here.\n",
	}
	require.NoError(t, v.Write(original))

	got, err := v.Read("projects/alpha.md")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title())
	assert.Equal(t, []string{"project", "active"}, got.Tags())
	assert.Equal(t, original.Body, got.Body)
}

func TestCreateRefusesClobber(t *testing.T) {
	v := testVault(t)

	_, err := v.Create("note.md", "first", nil, false)
	require.NoError(t, err)

	_, err = v.Create("note.md", "second", nil, false)
	assert.Error(t, err)

	_, err = v.Create("note.md", "second", nil, true)
	require.NoError(t, err)

	got, err := v.Read("note.md")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Body)
}

func TestListRejectsSiblingWithRootPrefix(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "vault")
	sibling := filepath.Join(parent, "vault2")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(sibling, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sibling, "secret.md"), []byte("hidden"), 0o644))

	v, err := Open(root)
	require.NoError(t, err)

	// "vault2" shares "vault" as a name prefix; the containment check
	// must compare whole path components, not raw string prefixes.
	_, err = v.List("../vault2")
	assert.Error(t, err)

	_, err = v.Search("hidden", "../vault2")
	assert.Error(t, err)
}

func TestResolveRejectsEscapes(t *testing.T) {
	v := testVault(t)

	_, err := v.Read("../outside.md")
	assert.Error(t, err)

	_, err = v.Read("sub/../../outside.md")
	assert.Error(t, err)

	_, err = v.Read("not-markdown.txt")
	assert.Error(t, err)
}

func TestListSortedAndScoped(t *testing.T) {
	v := testVault(t)
	writeRaw(t, v, "b.md", "b")
	writeRaw(t, v, "a.md", "a")
	writeRaw(t, v, "sub/c.md", "c")
	writeRaw(t, v, "ignored.txt", "not a note")

	notes, err := v.List("")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "a.md", notes[0].RelPath)
	assert.Equal(t, "b.md", notes[1].RelPath)
	assert.Equal(t, filepath.Join("sub", "c.md"), notes[2].RelPath)

	scoped, err := v.List("sub")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
}

func TestSearch(t *testing.T) {
	v := testVault(t)
	writeRaw(t, v, "golang.md", "---\ntags: [programming]\n---\nnotes about generics")
	writeRaw(t, v, "cooking.md", "---\ntags: [recipes]\n---\npasta with Go-style concurrency jokes")

	byTitle, err := v.Search("golang", "")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "golang.md", byTitle[0].RelPath)

	byTag, err := v.Search("recipes", "")
	require.NoError(t, err)
	require.Len(t, byTag, 1)

	byBody, err := v.Search("generics", "")
	require.NoError(t, err)
	require.Len(t, byBody, 1)

	none, err := v.Search("nothing-matches-this", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByTagsAllOf(t *testing.T) {
	v := testVault(t)
	writeRaw(t, v, "a.md", "---\ntags: [go, testing]\n---\n")
	writeRaw(t, v, "b.md", "---\ntags: [go]\n---\n")
	writeRaw(t, v, "c.md", "---\ntags: ['#GO', '#Testing']\n---\n")

	both, err := v.FindByTags([]string{"go", "testing"})
	require.NoError(t, err)
	require.Len(t, both, 2, "tag matching normalizes case and leading #")

	goOnly, err := v.FindByTags([]string{"go"})
	require.NoError(t, err)
	assert.Len(t, goOnly, 3)
}

func TestTagsIndex(t *testing.T) {
	v := testVault(t)
	writeRaw(t, v, "a.md", "---\ntags: [go, testing]\n---\n")
	writeRaw(t, v, "b.md", "---\ntags: [go]\n---\n")

	tags, err := v.Tags()
	require.NoError(t, err)
	assert.Equal(t, 2, tags["go"])
	assert.Equal(t, 1, tags["testing"])
}

func TestDelete(t *testing.T) {
	v := testVault(t)
	writeRaw(t, v, "a.md", "x")

	require.NoError(t, v.Delete("a.md"))
	assert.Error(t, v.Delete("a.md"))
}

func TestWatcherIndex(t *testing.T) {
	v := testVault(t)
	writeRaw(t, v, "a.md", "---\ntags: [go]\n---\n")

	w, err := NewWatcher(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"go": 1}, w.Tags())

	// The returned map is a copy.
	w.Tags()["go"] = 99
	assert.Equal(t, 1, w.Tags()["go"])

	writeRaw(t, v, "b.md", "---\ntags: [go, new]\n---\n")
	require.NoError(t, w.rebuild())
	assert.Equal(t, map[string]int{"go": 2, "new": 1}, w.Tags())
}
