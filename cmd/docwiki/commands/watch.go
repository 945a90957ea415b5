package commands

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/docwiki/internal/config"
	ferrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/foundation/normalization"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/watch"
)

// WatchMode selects what a watch rebuild produces.
type WatchMode string

const (
	WatchModeBuild WatchMode = "build"
	WatchModeWiki  WatchMode = "wiki"
)

var watchModeNormalizer = normalization.NewNormalizer("watch mode", map[string]WatchMode{
	"build":    WatchModeBuild,
	"html":     WatchModeBuild,
	"wiki":     WatchModeWiki,
	"markdown": WatchModeWiki,
}, WatchModeBuild)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Mode   string `short:"m" help:"What to rebuild: build (HTML) or wiki" default:"build"`
	Output string `short:"o" help:"Output directory (default depends on mode)"`
	Quiet  bool   `short:"q" help:"Suppress Sphinx output unless a build fails"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	mode, err := watchModeNormalizer.Parse(w.Mode)
	if err != nil {
		return ferrors.ValidationError("invalid --mode").WithCause(err).Build()
	}
	return runCommand(root, "watch", func(ctx context.Context, rec metrics.Recorder) error {
		workDir, err := root.workDir()
		if err != nil {
			return err
		}
		settings, err := root.loadSettings(workDir)
		if err != nil {
			return err
		}
		exclude := []string{
			resolvePath(workDir, "", config.DefaultHTMLOutputDir),
			resolvePath(workDir, "", config.LoadWikiConfig(settings).OutputDir),
		}
		if w.Output != "" {
			exclude = append(exclude, resolvePath(workDir, w.Output, ""))
		}
		// conf.py regenerates index.md from the root document on every build.
		if project := config.ResolveProject(settings, config.Project{}, filepath.Base(workDir)); project.Root != "" {
			exclude = append(exclude, "index.md")
		}

		watcher, err := watch.New(watch.Options{Root: workDir, Exclude: exclude}, func(ctx context.Context) error {
			if mode == WatchModeWiki {
				return buildWiki(ctx, g, root, rec, w.Output, w.Quiet)
			}
			return buildHTML(ctx, g, root, rec, buildRequest{output: w.Output, quiet: w.Quiet})
		})
		if err != nil {
			return err
		}
		return watcher.Run(ctx)
	})
}
