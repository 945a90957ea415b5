package wiki

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
)

var (
	// First level-1 heading, with an optional trailing {#id .class} attribute block.
	h1Pattern         = regexp.MustCompile(`(?m)^#[ \t]+(.+?)(?:[ \t]*\{.*\})?[ \t\r]*$`)
	titleLinkPattern  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	titleCodePattern  = regexp.MustCompile("`([^`]+)`")
	titleSeparatorRep = strings.NewReplacer("-", " ", "_", " ")
)

// HeadingTitle extracts the text of the first H1 heading in content.
// Link and inline code markup are reduced to their text.
func HeadingTitle(content string) (string, bool) {
	m := h1Pattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	title := titleLinkPattern.ReplaceAllString(m[1], "$1")
	title = titleCodePattern.ReplaceAllString(title, "$1")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}
	return title, true
}

// FallbackTitle derives a title from a file stem: root documents become the
// landing page, anything else is title-cased with '-' and '_' read as spaces.
func FallbackTitle(fileStem string) string {
	if IsLandingStem(fileStem) {
		return LandingPage
	}
	return cases.Title(language.English).String(titleSeparatorRep.Replace(fileStem))
}

// Title returns the heading title of content, or the fallback title of fileStem.
func Title(content, fileStem string) string {
	if title, ok := HeadingTitle(content); ok {
		return title
	}
	return FallbackTitle(fileStem)
}

// PageTitle reads name from fsys and derives its title. A document that cannot
// be read takes the fallback branch; PageTitle never fails.
func PageTitle(fsys billy.Filesystem, name string) string {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		slog.Debug("Using fallback title for unreadable page", logfields.File(name), logfields.Error(err))
		return FallbackTitle(stem(name))
	}
	return Title(string(data), stem(name))
}
