package wiki

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"subdir/page.md":        "# Page\n\nContent.",
		"docs/api/reference.md": "# API Reference\n\nAPI content.",
		"overview.md":           "# Overview\n",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	assert.True(t, exists(dir, "subdir-page.md"))
	assert.True(t, exists(dir, "docs-api-reference.md"))
	assert.False(t, exists(dir, "subdir/page.md"))
	assert.False(t, exists(dir, "subdir"), "emptied directory is removed")
	assert.False(t, exists(dir, "docs"), "emptied parents are removed deepest first")

	assert.Equal(t, []string{"overview.md", "docs/api/reference.md", "subdir/page.md"}, res.Pages.Paths())
	name, _ := res.Pages.Get("docs/api/reference.md")
	assert.Equal(t, "docs-api-reference", name)
	assert.Len(t, res.Moves, 2)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "# Page\n\nContent.", readFile(t, dir, "subdir-page.md"))
}

func TestFlattenDirectoryIndex(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"guide/index.md":         "# Guide\n",
		"guide/install/index.md": "# Install\n",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	guide, _ := res.Pages.Get("guide/index.md")
	install, _ := res.Pages.Get("guide/install/index.md")
	assert.Equal(t, "guide", guide)
	assert.Equal(t, "guide-install", install)
	assert.True(t, exists(dir, "guide.md"))
	assert.True(t, exists(dir, "guide-install.md"))
}

func TestFlattenRemovesBuildArtifacts(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"_build/doctrees/page.md":              "stale",
		"notebooks/jupyter_execute/example.md": "output",
		"pkg/__pycache__/mod.md":               "cache",
		"guide/.ipynb_checkpoints/draft.md":    "checkpoint",
		"guide/usage.md":                       "# Usage\n",
		"notebooks/keep.png":                   "png",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	sort.Strings(res.Deleted)
	assert.Equal(t, []string{
		"_build/doctrees/page.md",
		"guide/.ipynb_checkpoints/draft.md",
		"notebooks/jupyter_execute/example.md",
		"pkg/__pycache__/mod.md",
	}, res.Deleted)
	assert.Equal(t, []string{"guide/usage.md"}, res.Pages.Paths())
	assert.False(t, exists(dir, "_build"))
	assert.False(t, exists(dir, "pkg"))
	assert.False(t, exists(dir, "notebooks/jupyter_execute"))
	assert.True(t, exists(dir, "notebooks/keep.png"), "non-empty directories stay")
}

func TestFlattenRootDocuments(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"README.md":   "# Readme\n",
		"index.md":    "# Index\n",
		"overview.md": "# Overview\n",
		"_Sidebar.md": "* [Old](Old)\n",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	readme, _ := res.Pages.Get("README.md")
	index, _ := res.Pages.Get("index.md")
	assert.Equal(t, LandingPage, readme, "first landing claimant wins")
	assert.Equal(t, "index", index, "later claimant keeps its stem")
	_, mapped := res.Pages.Get("_Sidebar.md")
	assert.False(t, mapped, "reserved documents are not mapped")
	assert.Empty(t, res.Moves, "root documents are never moved")
	assert.True(t, exists(dir, "_Sidebar.md"))
}

func TestFlattenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"index.md":              "# Welcome\n",
		"overview.md":           "# Overview\n",
		"subdir/page.md":        "# Page\n",
		"docs/api/reference.md": "# Reference\n",
	})

	first, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)
	second, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	assert.Empty(t, second.Moves)
	assert.Empty(t, second.Deleted)
	assert.Empty(t, second.Renamed)
	assert.ElementsMatch(t, pageNames(first.Pages), pageNames(second.Pages))
}

func TestFlattenCollisionWithRootPage(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"docs-api.md": "# Root page\n",
		"docs/api.md": "# Nested page\n",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	want := "docs-api-" + shortHash("docs/api.md")
	name, _ := res.Pages.Get("docs/api.md")
	assert.Equal(t, want, name)
	require.Len(t, res.Renamed, 1)
	assert.Equal(t, Rename{Path: "docs/api.md", Wanted: "docs-api", Name: want}, res.Renamed[0])
	assert.Equal(t, "# Root page\n", readFile(t, dir, "docs-api.md"), "existing page is not overwritten")
	assert.Equal(t, "# Nested page\n", readFile(t, dir, want+".md"))
}

func TestFlattenCollisionBetweenNestedPages(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"guide/README.md": "# Readme\n",
		"guide/index.md":  "# Index\n",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	readme, _ := res.Pages.Get("guide/README.md")
	index, _ := res.Pages.Get("guide/index.md")
	assert.Equal(t, "guide", readme)
	assert.Equal(t, "guide-"+shortHash("guide/index.md"), index)
	assert.NotEqual(t, readme, index)
}

func TestFlattenCollisionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	fs := writeTree(t, dir, map[string]string{
		"Setup-Guide.md": "# Setup Guide\n",
		"setup/guide.md": "# Guide\n",
	})

	res, err := Flatten(fs, FlattenOptions{})
	require.NoError(t, err)

	name, _ := res.Pages.Get("setup/guide.md")
	assert.Equal(t, "setup-guide-"+shortHash("setup/guide.md"), name)
	assert.True(t, exists(dir, "Setup-Guide.md"))
}

func TestFlattenTruncatesLongNames(t *testing.T) {
	dir := t.TempDir()
	long := "section/" + strings.Repeat("x", 60) + ".md"
	fs := writeTree(t, dir, map[string]string{long: "# Long\n"})

	res, err := Flatten(fs, FlattenOptions{MaxNameLength: 50})
	require.NoError(t, err)

	full := "section-" + strings.Repeat("x", 60)
	name, ok := res.Pages.Get(long)
	require.True(t, ok)
	assert.Equal(t, full[:40]+"-"+shortHash(full), name)
	assert.LessOrEqual(t, len(name), 50)
	assert.True(t, exists(dir, name+".md"))
}

func TestFlattenTruncatesMultiByteNamesOnRuneBoundary(t *testing.T) {
	mem := memfs.New()
	segment := strings.Repeat("é", 60)
	long := segment + "/" + segment + "/page.md"
	require.NoError(t, util.WriteFile(mem, long, []byte("# Page\n"), 0o644))

	res, err := Flatten(mem, FlattenOptions{MaxNameLength: 101})
	require.NoError(t, err)

	name, ok := res.Pages.Get(long)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(name), "truncated name must be valid UTF-8")
	assert.Equal(t, 100, utf8.RuneCountInString(name))
	full := segment + "-" + segment + "-page"
	assert.Equal(t, string([]rune(full)[:91])+"-"+shortHash(full), name)
	_, err = mem.Stat(name + ".md")
	assert.NoError(t, err)
}

type failingRenameFS struct {
	billy.Filesystem
	fail string
}

func (f failingRenameFS) Rename(from, to string) error {
	if from == f.fail {
		return errors.New("name too long")
	}
	return f.Filesystem.Rename(from, to)
}

func TestFlattenMoveFailureDropsEntry(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, util.WriteFile(mem, "docs/ok.md", []byte("# OK\n"), 0o644))
	require.NoError(t, util.WriteFile(mem, "docs/broken.md", []byte("# Broken\n"), 0o644))

	res, err := Flatten(failingRenameFS{Filesystem: mem, fail: "docs/broken.md"}, FlattenOptions{})
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "docs/broken.md")
	_, mapped := res.Pages.Get("docs/broken.md")
	assert.False(t, mapped, "failed move must not leave a dangling page entry")
	name, _ := res.Pages.Get("docs/ok.md")
	assert.Equal(t, "docs-ok", name)

	_, err = mem.Stat("docs/broken.md")
	assert.NoError(t, err, "document stays where it was")
	_, err = mem.Stat("docs-ok.md")
	assert.NoError(t, err)
}

func TestFlattenInMemory(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, util.WriteFile(mem, "a/b/c.md", []byte("# C\n"), 0o644))

	res, err := Flatten(mem, FlattenOptions{})
	require.NoError(t, err)

	name, _ := res.Pages.Get("a/b/c.md")
	assert.Equal(t, "a-b-c", name)
	_, err = mem.Stat("a")
	assert.Error(t, err, "emptied directories are removed")
}

func pageNames(m *PageMap) []string {
	var names []string
	m.Range(func(_, name string) bool {
		names = append(names, name)
		return true
	})
	return names
}
