package sphinx

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
	serrors "git.home.luguber.info/inful/docwiki/internal/sphinx/errors"
)

// Sphinx builder names.
const (
	BuilderHTML     = "html"
	BuilderMarkdown = "markdown"
)

// DefaultPython is the interpreter used to run "python -m sphinx".
const DefaultPython = "python3"

// BuildOptions describes one Sphinx invocation.
type BuildOptions struct {
	Python    string
	SourceDir string
	OutputDir string
	ConfDir   string
	Builder   string
	Quiet     bool
	// Echo logs the full command line before running it.
	Echo bool
}

// SphinxCommand returns the command line for opts.
func SphinxCommand(opts BuildOptions) Command {
	python := opts.Python
	if python == "" {
		python = DefaultPython
	}
	source := opts.SourceDir
	if source == "" {
		source = "."
	}
	args := []string{"-m", "sphinx", source, opts.OutputDir, "-c", opts.ConfDir}
	if opts.Builder != "" && opts.Builder != BuilderHTML {
		args = append(args, "-b", opts.Builder)
	}
	if opts.Quiet {
		args = append(args, "-q")
	}
	return Command{Name: python, Args: args, Quiet: opts.Quiet}
}

// Builder runs Sphinx through a Runner.
type Builder struct {
	runner Runner
}

// NewBuilder returns a Builder; a nil runner selects ExecRunner.
func NewBuilder(runner Runner) *Builder {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Builder{runner: runner}
}

// Build runs Sphinx and waits for it to finish.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) error {
	cmd := SphinxCommand(opts)
	if opts.Echo {
		slog.Info("Running Sphinx", logfields.Command(cmd.String()))
	}
	slog.Info("Building documentation", slog.String("builder", builderName(opts.Builder)), logfields.Dir(opts.OutputDir))
	if err := b.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrSphinxFailed, err)
	}
	return nil
}

func builderName(b string) string {
	if b == "" {
		return BuilderHTML
	}
	return b
}
