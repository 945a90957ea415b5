package commands

import (
	"context"

	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/wiki"
)

// PostprocessCmd runs only the wiki post-processor over existing Sphinx
// Markdown output. Settings are not consulted.
type PostprocessCmd struct {
	Dir        string   `arg:"" help:"Sphinx Markdown output directory"`
	Pages      []string `name:"page" short:"p" help:"Source page in navigation order (repeatable)"`
	Project    string   `help:"Project name for the sidebar heading and footer"`
	DocsURL    string   `name:"docs-url" help:"Published documentation URL for the footer"`
	RepoURL    string   `name:"repo-url" help:"Repository URL for the footer"`
	NoSidebar  bool     `name:"no-sidebar" help:"Do not generate _Sidebar.md"`
	NoFooter   bool     `name:"no-footer" help:"Do not generate _Footer.md"`
	NoFixLinks bool     `name:"no-fix-links" help:"Leave links as Sphinx wrote them"`
}

func (p *PostprocessCmd) Run(g *Global, root *CLI) error {
	return runCommand(root, "postprocess", func(ctx context.Context, rec metrics.Recorder) error {
		opts := wiki.DefaultOptions()
		opts.PageList = p.Pages
		opts.ProjectName = p.Project
		opts.DocsURL = p.DocsURL
		opts.RepoURL = p.RepoURL
		opts.GenerateSidebar = !p.NoSidebar
		opts.GenerateFooter = !p.NoFooter
		opts.FixLinks = !p.NoFixLinks
		opts.Recorder = rec

		report, err := wiki.ProcessDir(ctx, p.Dir, opts)
		if report != nil {
			printReport(g, p.Dir, report)
		}
		return err
	})
}
