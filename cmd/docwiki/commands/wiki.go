package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/gitinfo"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/observability"
	"git.home.luguber.info/inful/docwiki/internal/sphinx"
	"git.home.luguber.info/inful/docwiki/internal/wiki"
)

// WikiCmd implements the 'wiki' command.
type WikiCmd struct {
	Output string `short:"o" help:"Output directory for the wiki (default from settings, then docs/wiki)"`
	Quiet  bool   `short:"q" help:"Suppress Sphinx output unless the build fails"`
}

func (w *WikiCmd) Run(g *Global, root *CLI) error {
	return runCommand(root, "wiki", func(ctx context.Context, rec metrics.Recorder) error {
		return buildWiki(ctx, g, root, rec, w.Output, w.Quiet)
	})
}

func buildWiki(ctx context.Context, g *Global, root *CLI, rec metrics.Recorder, output string, quiet bool) error {
	workDir, err := root.workDir()
	if err != nil {
		return err
	}
	settings, err := root.loadSettings(workDir)
	if err != nil {
		return err
	}
	opts, err := sphinx.NewConfOptions(settings, config.Project{}, workDir)
	if err != nil {
		return err
	}
	opts.UseWiki = true

	outDir := resolvePath(workDir, output, opts.Wiki.OutputDir)
	ignore := append([]string{}, sphinx.DefaultIgnoreEntries...)
	if rel, err := filepath.Rel(workDir, outDir); err == nil && filepath.IsLocal(rel) {
		ignore = append(ignore, filepath.ToSlash(rel))
	}

	if err := runSphinx(ctx, g, rec, sphinxRun{
		workDir: workDir,
		conf:    opts,
		ignore:  ignore,
		build: sphinx.BuildOptions{
			SourceDir: workDir,
			OutputDir: outDir,
			Builder:   sphinx.BuilderMarkdown,
			Quiet:     quiet,
		},
	}); err != nil {
		return err
	}

	wopts := wikiOptions(ctx, opts, workDir)
	wopts.Recorder = rec
	report, err := wiki.ProcessDir(ctx, outDir, wopts)
	if report != nil {
		printReport(g, outDir, report)
	}
	return err
}

// wikiOptions derives post-processing options from the resolved project and
// its wiki settings.
func wikiOptions(ctx context.Context, opts sphinx.ConfOptions, workDir string) wiki.Options {
	w := opts.Wiki
	wopts := wiki.DefaultOptions()
	wopts.PageList = pageList(opts.Project, workDir)
	wopts.ProjectName = firstNonEmpty(opts.Project.Title, opts.Project.Name)
	wopts.DocsURL = firstNonEmpty(w.FooterDocsURL, opts.Project.DocsRoot)
	wopts.RepoURL = w.FooterRepoURL
	if wopts.RepoURL == "" {
		url, err := gitinfo.RepositoryURL(workDir)
		if err != nil {
			observability.DebugContext(ctx, "No repository URL for footer", logfields.Error(err))
		}
		wopts.RepoURL = url
	}
	wopts.GenerateSidebar = w.GenerateSidebar
	wopts.GenerateFooter = w.GenerateFooter
	wopts.Cleanup = w.Cleanup
	wopts.FixLinks = w.FixLinks
	wopts.VerifyLinks = w.VerifyLinks
	wopts.IncludeDiscovered = w.IncludeExtraPages
	wopts.ExcludeGenerated = w.ExcludeGenerated
	wopts.MaxNameLength = w.MaxNameLength
	return wopts
}

// pageList returns the configured navigation order, falling back to the
// toctree of the project's index.md.
func pageList(p config.Project, workDir string) []string {
	if len(p.Pages) > 0 {
		return p.Pages
	}
	data, err := os.ReadFile(filepath.Join(workDir, "index.md"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Cannot read index.md for page order", logfields.Error(err))
		}
		return nil
	}
	return wiki.ToctreePages(string(data))
}

func printReport(g *Global, outDir string, report *wiki.Report) {
	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Wiki written to %s (%d pages", outDir, report.Pages.Len())
	if n := len(report.DanglingLinks); n > 0 {
		_, _ = fmt.Fprintf(out, ", %d dangling links", n)
	}
	if n := len(report.MoveErrors) + len(report.Errors); n > 0 {
		_, _ = fmt.Fprintf(out, ", %d errors", n)
	}
	_, _ = fmt.Fprintln(out, ")")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
