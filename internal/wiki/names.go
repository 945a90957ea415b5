package wiki

import (
	"path"
	"strings"
)

const (
	// LandingPage is the reserved page name a wiki serves as its entry point.
	LandingPage = "Home"
	// SidebarPage and FooterPage are reserved navigation documents.
	SidebarPage = "_Sidebar"
	FooterPage  = "_Footer"

	// DefaultMaxNameLength bounds generated flat names, leaving room for the extension.
	DefaultMaxNameLength = 200

	markdownExt = ".md"
)

// IsLandingStem reports whether a file stem follows the root document convention.
func IsLandingStem(stem string) bool {
	lower := strings.ToLower(stem)
	return lower == "index" || lower == "readme"
}

// isReserved reports whether name is a navigation document owned by the generator.
func isReserved(name string) bool {
	return strings.HasPrefix(name, "_")
}

// stem returns the final path element without its extension.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// WikiName converts a filename (possibly with directories) to a wiki page name.
// The wiki namespace is flat, so directories are discarded and root documents
// become the landing page.
func WikiName(filename string) string {
	name := stem(filename)
	if IsLandingStem(name) {
		return LandingPage
	}
	return name
}

// pageFile returns the on-disk filename of a flat page name.
func pageFile(name string) string {
	return name + markdownExt
}
