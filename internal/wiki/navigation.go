package wiki

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	werrors "git.home.luguber.info/inful/docwiki/internal/wiki/errors"
)

// generatedPageMarkers match flat names of pages Sphinx emits for internal
// trees (CI config, crate listings, notebooks, static assets).
var generatedPageMarkers = []string{
	".github-",
	"api-crates-",
	"docs-src-",
	"docs-notebooks-",
	"examples-",
	".doctrees",
	"_static",
	"_sphinx",
}

const navFilePerm = 0o644

// SidebarOptions configures GenerateSidebar.
type SidebarOptions struct {
	ProjectName       string
	IncludeHome       bool
	IncludeDiscovered bool
	ExcludeGenerated  bool
}

// SidebarEntry is one resolved sidebar link.
type SidebarEntry struct {
	Title string
	Name  string
}

// GenerateSidebar writes the sidebar document to the root of fsys and returns
// its content. Page List entries come first in the given order; pages may be
// nil when no flattening took place.
func GenerateSidebar(fsys billy.Filesystem, pageList []string, pages *PageMap, opts SidebarOptions) (string, error) {
	entries, err := SidebarEntries(fsys, pageList, pages, opts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if opts.ProjectName != "" {
		fmt.Fprintf(&b, "### %s\n\n", opts.ProjectName)
	}
	if opts.IncludeHome {
		fmt.Fprintf(&b, "* [%s](%s)\n", LandingPage, LandingPage)
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "* [%s](%s)\n", e.Title, e.Name)
	}

	content := b.String()
	if err := writeNavPage(fsys, SidebarPage, content); err != nil {
		return "", err
	}
	return content, nil
}

// SidebarEntries resolves the Page List and, when enabled, the discovered
// root pages into sidebar links without writing anything.
func SidebarEntries(fsys billy.Filesystem, pageList []string, pages *PageMap, opts SidebarOptions) ([]SidebarEntry, error) {
	seen := map[string]bool{strings.ToLower(LandingPage): true}
	var entries []SidebarEntry

	for _, page := range pageList {
		name, found := resolveSidebarPage(fsys, page, pages)
		title := FallbackTitle(name)
		if found {
			title = PageTitle(fsys, pageFile(name))
		}
		entries = append(entries, SidebarEntry{Title: title, Name: name})
		seen[strings.ToLower(name)] = true
		seen[strings.ToLower(WikiName(page))] = true
	}

	if !opts.IncludeDiscovered {
		return entries, nil
	}

	infos, err := fsys.ReadDir(fsRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", werrors.ErrTreeWalkFailed, err)
	}
	// ReadDir returns entries sorted by filename.
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), markdownExt) {
			continue
		}
		name := strings.TrimSuffix(info.Name(), markdownExt)
		if isReserved(name) || seen[strings.ToLower(name)] {
			continue
		}
		if opts.ExcludeGenerated && isGeneratedPage(name) {
			continue
		}
		entries = append(entries, SidebarEntry{Title: PageTitle(fsys, info.Name()), Name: name})
		seen[strings.ToLower(name)] = true
	}
	return entries, nil
}

// resolveSidebarPage maps a Page List entry to a flat name. It reports false
// when no document backs the entry and the name is only a best guess.
func resolveSidebarPage(fsys billy.Filesystem, page string, pages *PageMap) (string, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(page, "./"), markdownExt)
	withExt := trimmed + markdownExt

	if name, ok := pages.Get(withExt); ok {
		return name, true
	}
	if name, ok := pages.Get(trimmed); ok {
		return name, true
	}
	var suffixMatch string
	pages.Range(func(key, name string) bool {
		if strings.HasSuffix(key, "/"+withExt) {
			suffixMatch = name
			return false
		}
		return true
	})
	if suffixMatch != "" {
		return suffixMatch, true
	}

	for _, candidate := range sidebarCandidates(trimmed) {
		if _, err := fsys.Stat(pageFile(candidate)); err == nil {
			return candidate, true
		}
	}
	return WikiName(page), false
}

// sidebarCandidates lists plausible flat names for a source path: the plain
// stem, the fully flattened path, then each shorter suffix of the flattened path.
func sidebarCandidates(trimmed string) []string {
	segments := strings.Split(trimmed, "/")
	out := []string{WikiName(trimmed)}
	for i := range segments {
		joined := strings.Join(segments[i:], "-")
		if joined != out[0] {
			out = append(out, joined)
		}
	}
	return out
}

func isGeneratedPage(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range generatedPageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// FooterOptions configures GenerateFooter.
type FooterOptions struct {
	ProjectName string
	DocsURL     string
	RepoURL     string
}

// GenerateFooter writes the footer document to the root of fsys and returns its content.
func GenerateFooter(fsys billy.Filesystem, opts FooterOptions) (string, error) {
	content := FooterContent(opts)
	if err := writeNavPage(fsys, FooterPage, content); err != nil {
		return "", err
	}
	return content, nil
}

// FooterContent renders the footer without writing it.
func FooterContent(opts FooterOptions) string {
	var links []string
	if opts.DocsURL != "" {
		links = append(links, fmt.Sprintf("[📚 Full Documentation](%s)", opts.DocsURL))
	}
	if opts.RepoURL != "" {
		links = append(links, fmt.Sprintf("[💻 Repository](%s)", opts.RepoURL))
	}

	line := strings.Join(links, " | ")
	if len(links) == 0 {
		project := opts.ProjectName
		if project == "" {
			project = "this project"
		}
		line = fmt.Sprintf("*Generated from %s documentation*", project)
	}
	return "---\n\n" + line + "\n"
}

func writeNavPage(fsys billy.Filesystem, name, content string) error {
	if err := util.WriteFile(fsys, pageFile(name), []byte(content), os.FileMode(navFilePerm)); err != nil {
		return fmt.Errorf("%w: %s: %w", werrors.ErrNavigationWrite, pageFile(name), err)
	}
	return nil
}
