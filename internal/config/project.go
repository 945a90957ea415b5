package config

import (
	"strings"
)

// DefaultTheme is the Sphinx HTML theme used when none is configured.
const DefaultTheme = "furo"

// docsRootKeys are consulted in order for the published documentation URL.
var docsRootKeys = []string{
	ToolSection + ".docs-host",
	"project.urls.Homepage",
	"project.urls.homepage",
	"project.urls.Documentation",
	"project.urls.documentation",
	"project.urls.Source",
	"project.urls.source",
}

// Project is the metadata rendered into conf.py.
type Project struct {
	Name        string
	Title       string
	Module      string
	Description string
	Author      string
	Copyright   string
	Version     string
	Theme       string
	DocsRoot    string
	Root        string
	CName       string
	Pages       []string
	UseAutoAPI  *bool
	CustomCSS   string
	CustomJS    string
}

// ResolveProject fills every empty field of explicit from settings, falling
// back to values derived from dirName, the name of the project directory.
// Explicit values always win, including an explicit false for UseAutoAPI.
func ResolveProject(s *Settings, explicit Project, dirName string) Project {
	p := explicit
	dashed := strings.ReplaceAll(dirName, "_", "-")

	p.Name = firstNonEmpty(p.Name, s.str("project.name"), dashed)
	p.Title = firstNonEmpty(p.Title, s.str(toolKey("", "title")), dashed)
	p.Module = firstNonEmpty(p.Module, strings.ReplaceAll(p.Name, "-", "_"), strings.ReplaceAll(dirName, "-", "_"))
	p.Description = firstNonEmpty(p.Description, s.str("project.description"),
		strings.NewReplacer("_", " ", "-", " ").Replace(dirName))
	p.Author = firstNonEmpty(p.Author, s.projectAuthor(), "The "+p.Name+" authors")
	p.Copyright = firstNonEmpty(p.Copyright, p.Author)
	p.Version = firstNonEmpty(p.Version, s.str("project.version"))
	p.Theme = firstNonEmpty(p.Theme, s.str(toolKey("", "theme")), DefaultTheme)
	if p.DocsRoot == "" {
		for _, key := range docsRootKeys {
			if v := s.str(key); v != "" {
				p.DocsRoot = v
				break
			}
		}
	}
	p.Root = firstNonEmpty(p.Root, s.str(toolKey("", "root")))
	p.CName = firstNonEmpty(p.CName, s.str(toolKey("", "cname")))
	if len(p.Pages) == 0 {
		p.Pages, _ = s.StringSlice(toolKey("", "pages"))
	}
	if p.UseAutoAPI == nil {
		if v, ok := s.Bool(toolKey("", "use-autoapi")); ok {
			p.UseAutoAPI = &v
		}
	}
	p.CustomCSS = firstNonEmpty(p.CustomCSS, s.str(toolKey("", "custom-css")))
	p.CustomJS = firstNonEmpty(p.CustomJS, s.str(toolKey("", "custom-js")))
	return p
}

// projectAuthor returns the first entry of project.authors, which may be a
// plain string or a table with a name.
func (s *Settings) projectAuthor() string {
	v, ok := s.Lookup("project.authors")
	if !ok {
		return ""
	}
	authors, ok := v.([]any)
	if !ok || len(authors) == 0 {
		return ""
	}
	switch first := authors[0].(type) {
	case string:
		return first
	case map[string]any:
		name, _ := first["name"].(string)
		return name
	}
	return ""
}

func (s *Settings) str(key string) string {
	v, _ := s.String(key)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// AutodocPydanticOption is one autodoc_pydantic setting rendered into conf.py.
type AutodocPydanticOption struct {
	Name  string
	Value any
}

var autodocPydanticDefaults = []AutodocPydanticOption{
	{"autodoc_pydantic_model_show_config_summary", false},
	{"autodoc_pydantic_model_show_validator_summary", false},
	{"autodoc_pydantic_model_show_validator_members", false},
	{"autodoc_pydantic_field_list_validators", false},
	{"autodoc_pydantic_field_show_constraints", false},
	{"autodoc_pydantic_model_member_order", "bysource"},
	{"autodoc_pydantic_model_show_json", true},
	{"autodoc_pydantic_settings_show_json", false},
	{"autodoc_pydantic_model_show_field_summary", false},
}

// AutodocPydantic returns the autodoc_pydantic options in a fixed order,
// each taken from the tool table when set there.
func AutodocPydantic(s *Settings) []AutodocPydanticOption {
	out := make([]AutodocPydanticOption, 0, len(autodocPydanticDefaults))
	for _, opt := range autodocPydanticDefaults {
		if v, ok := s.Tool(opt.Name); ok {
			opt.Value = v
		}
		out = append(out, opt)
	}
	return out
}
