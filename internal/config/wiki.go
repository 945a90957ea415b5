package config

// Wiki output defaults.
const (
	DefaultWikiOutputDir   = "docs/wiki"
	DefaultMarkdownFlavor  = "github"
	DefaultHTMLOutputDir   = "docs/html"
	defaultWikiMaxNameSize = 200
)

// WikiConfig holds the [tool.docwiki.wiki] table.
type WikiConfig struct {
	Enabled                bool
	OutputDir              string
	GenerateSidebar        bool
	GenerateFooter         bool
	FixLinks               bool
	Cleanup                bool
	VerifyLinks            bool
	FooterDocsURL          string
	FooterRepoURL          string
	IncludeExtraPages      bool
	ExcludeGenerated       bool
	MaxNameLength          int
	MarkdownFlavor         string
	MarkdownAnchorSections bool
}

// LoadWikiConfig reads the wiki table, applying defaults for absent keys.
func LoadWikiConfig(s *Settings) WikiConfig {
	get := func(key string, def bool) bool {
		if v, ok := s.Bool(toolKey("wiki", key)); ok {
			return v
		}
		return def
	}
	w := WikiConfig{
		Enabled:                get("enabled", false),
		OutputDir:              firstNonEmpty(s.str(toolKey("wiki", "output-dir")), DefaultWikiOutputDir),
		GenerateSidebar:        get("generate-sidebar", true),
		GenerateFooter:         get("generate-footer", true),
		FixLinks:               get("fix-links", true),
		Cleanup:                get("cleanup", true),
		VerifyLinks:            get("verify-links", true),
		FooterDocsURL:          s.str(toolKey("wiki", "footer-docs-url")),
		FooterRepoURL:          s.str(toolKey("wiki", "footer-repo-url")),
		IncludeExtraPages:      get("include-extra-pages", true),
		ExcludeGenerated:       get("exclude-generated", true),
		MaxNameLength:          defaultWikiMaxNameSize,
		MarkdownFlavor:         firstNonEmpty(s.str(toolKey("wiki", "markdown-flavor")), DefaultMarkdownFlavor),
		MarkdownAnchorSections: get("markdown-anchor-sections", false),
	}
	if n, ok := s.Int(toolKey("wiki", "max-name-length")); ok && n > 0 {
		w.MaxNameLength = n
	}
	return w
}
