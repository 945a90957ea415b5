package sphinx

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"git.home.luguber.info/inful/docwiki/internal/config"
	serrors "git.home.luguber.info/inful/docwiki/internal/sphinx/errors"
)

// ConfFile is the Sphinx configuration file name.
const ConfFile = "conf.py"

//go:embed templates/conf.py.tmpl
var confTemplateFS embed.FS

var confTemplate = template.Must(
	template.New("conf.py.tmpl").
		Funcs(template.FuncMap{"py": pyLiteral}).
		Option("missingkey=error").
		ParseFS(confTemplateFS, "templates/conf.py.tmpl"),
)

// ConfOptions is everything rendered into conf.py.
type ConfOptions struct {
	Project config.Project
	Breathe config.BreatheConfig
	Wiki    config.WikiConfig
	Autodoc []config.AutodocPydanticOption
	// UseWiki enables the Markdown builder extension.
	UseWiki bool
	// SourceDir is the Sphinx source directory as seen from conf.py.
	SourceDir string
	// BaseDir resolves relative Breathe project paths.
	BaseDir string
}

// NewConfOptions resolves conf.py inputs from settings and explicit overrides
// for the project rooted at workDir.
func NewConfOptions(s *config.Settings, explicit config.Project, workDir string) (ConfOptions, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return ConfOptions{}, fmt.Errorf("resolve project directory: %w", err)
	}
	wiki := config.LoadWikiConfig(s)
	return ConfOptions{
		Project:   config.ResolveProject(s, explicit, filepath.Base(abs)),
		Breathe:   config.LoadBreatheConfig(s),
		Wiki:      wiki,
		Autodoc:   config.AutodocPydantic(s),
		UseWiki:   wiki.Enabled,
		SourceDir: abs,
		BaseDir:   abs,
	}, nil
}

// UseAutoAPI reports whether sphinx-autoapi is enabled; unset means disabled.
func (o ConfOptions) UseAutoAPI() bool {
	return o.Project.UseAutoAPI != nil && *o.Project.UseAutoAPI
}

// BreatheProjects returns the Breathe project map with XML directories made absolute.
func (o ConfOptions) BreatheProjects() map[string]string {
	out := make(map[string]string, len(o.Breathe.Projects))
	for name, dir := range o.Breathe.Projects {
		out[name] = resolveDir(o.BaseDir, dir)
	}
	return out
}

// RenderConf renders conf.py.
func RenderConf(opts ConfOptions) (string, error) {
	var buf bytes.Buffer
	if err := confTemplate.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("%w: %w", serrors.ErrConfRender, err)
	}
	return buf.String(), nil
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) || base == "" {
		return dir
	}
	return filepath.Join(base, dir)
}
