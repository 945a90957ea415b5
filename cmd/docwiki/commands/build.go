package commands

import (
	"context"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/observability"
	"git.home.luguber.info/inful/docwiki/internal/sphinx"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the HTML site (default docs/html)"`
	Quiet  bool   `short:"q" help:"Suppress Sphinx output unless the build fails"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	return runCommand(root, "build", func(ctx context.Context, rec metrics.Recorder) error {
		return buildHTML(ctx, g, root, rec, buildRequest{output: b.Output, quiet: b.Quiet})
	})
}

// DebugCmd implements the 'debug' command: a verbose HTML build.
type DebugCmd struct {
	Output string `short:"o" help:"Output directory for the HTML site (default docs/html)"`
}

func (d *DebugCmd) Run(g *Global, root *CLI) error {
	setLogLevel(slog.LevelDebug)
	return runCommand(root, "debug", func(ctx context.Context, rec metrics.Recorder) error {
		return buildHTML(ctx, g, root, rec, buildRequest{output: d.Output, echo: true})
	})
}

type buildRequest struct {
	output string
	quiet  bool
	echo   bool
}

func buildHTML(ctx context.Context, g *Global, root *CLI, rec metrics.Recorder, req buildRequest) error {
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
	outDir := resolvePath(workDir, req.output, config.DefaultHTMLOutputDir)
	return runSphinx(ctx, g, rec, sphinxRun{
		workDir: workDir,
		conf:    opts,
		ignore:  sphinx.DefaultIgnoreEntries,
		build: sphinx.BuildOptions{
			SourceDir: workDir,
			OutputDir: outDir,
			Builder:   sphinx.BuilderHTML,
			Quiet:     req.quiet,
			Echo:      req.echo,
		},
	})
}

type sphinxRun struct {
	workDir string
	conf    sphinx.ConfOptions
	ignore  []string
	build   sphinx.BuildOptions
}

// runSphinx prepares conf.py, generates Doxygen XML for Breathe when
// configured, and runs the Sphinx build.
func runSphinx(ctx context.Context, g *Global, rec metrics.Recorder, run sphinxRun) error {
	confDir, err := sphinx.PrepareConf(run.workDir, run.conf, slices.Clone(run.ignore)...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := confDir.Close(); cerr != nil {
			slog.Warn("Failed to remove generated configuration", logfields.Dir(confDir.Path), logfields.Error(cerr))
		}
	}()

	runner := sphinx.MeasuredRunner{Next: g.runner(), Recorder: rec}
	if run.conf.Breathe.Enabled() && run.conf.Breathe.AutoRunDoxygen {
		available := sphinx.NewDoxygen(runner).RunDoxygenIfNeeded(ctx, run.conf.Breathe.Projects, sphinx.DoxygenOptions{
			BaseDir:  run.workDir,
			Quiet:    run.build.Quiet,
			LookPath: g.lookPath(),
		})
		for name, ok := range available {
			if !ok {
				observability.WarnContext(ctx, "Doxygen XML unavailable; Breathe output will be incomplete", logfields.Project(name))
			}
		}
	}

	build := run.build
	build.ConfDir = confDir.Path
	return sphinx.NewBuilder(runner).Build(ctx, build)
}
