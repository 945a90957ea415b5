package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docwiki/internal/config"
	ferrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/observability"
	"git.home.luguber.info/inful/docwiki/internal/sphinx"
	serrors "git.home.luguber.info/inful/docwiki/internal/sphinx/errors"
	werrors "git.home.luguber.info/inful/docwiki/internal/wiki/errors"
)

// Global carries state shared by every command. Zero values select the real
// process runner and stdout.
type Global struct {
	Logger *slog.Logger
	Runner sphinx.Runner
	Stdout io.Writer
	// LookPath locates doxygen; nil selects exec.LookPath.
	LookPath func(string) (string, error)
}

func (g *Global) runner() sphinx.Runner {
	if g == nil || g.Runner == nil {
		return sphinx.NewExecRunner()
	}
	return g.Runner
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) lookPath() func(string) (string, error) {
	if g == nil {
		return nil
	}
	return g.LookPath
}

// CLI definition & global flags.
type CLI struct {
	Settings    string           `short:"s" help:"Settings file (pyproject.toml or YAML)" default:"pyproject.toml"`
	Dir         string           `short:"C" help:"Project directory" default:"."`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this file after the command"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd       `cmd:"" help:"Generate conf.py and build the HTML documentation"`
	Debug       DebugCmd       `cmd:"" help:"Build with debug logging and echo the Sphinx command"`
	Wiki        WikiCmd        `cmd:"" help:"Build Markdown documentation and post-process it into a wiki"`
	Postprocess PostprocessCmd `cmd:"" help:"Post-process an existing Sphinx Markdown output directory"`
	Watch       WatchCmd       `cmd:"" help:"Rebuild whenever project sources change"`
	Config      ConfigCmd      `cmd:"" help:"Print the generated conf.py"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setLogLevel(c.logLevel())
	return nil
}

// logLevel resolves the level from -v and DOCWIKI_LOG_LEVEL; the flag wins.
func (c *CLI) logLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	raw := os.Getenv(config.LogLevelEnv)
	if raw == "" {
		return slog.LevelInfo
	}
	level, err := config.ParseLogLevel(raw)
	if err != nil {
		slog.Warn("Ignoring invalid log level", slog.String("env", config.LogLevelEnv), logfields.Error(err))
		return slog.LevelInfo
	}
	return level
}

func setLogLevel(level slog.Level) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// workDir returns the absolute project directory.
func (c *CLI) workDir() (string, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ferrors.FileSystemError("cannot resolve project directory").WithCause(err).Build()
	}
	return abs, nil
}

// settingsPath resolves the settings file relative to the project directory.
func (c *CLI) settingsPath(workDir string) string {
	path := c.Settings
	if path == "" {
		path = config.DefaultSettingsFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	return path
}

// loadSettings reads the settings file. A missing default file means empty
// settings; a missing file named on the command line is an error.
func (c *CLI) loadSettings(workDir string) (*config.Settings, error) {
	path := c.settingsPath(workDir)
	load := config.Load
	if c.Settings == "" || c.Settings == config.DefaultSettingsFile {
		load = config.LoadOptional
	}
	s, err := load(path)
	if err != nil {
		return nil, classify(err)
	}
	if s.Path() != "" {
		slog.Debug("Loaded settings", logfields.File(s.Path()))
	}
	return s, nil
}

// resolvePath makes path absolute against workDir, using def when path is empty.
func resolvePath(workDir, path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

// runCommand executes fn under a signal-aware context tagged with the command
// name, records its duration, writes the metrics file when requested, and
// classifies the returned error for the CLI error adapter.
func runCommand(root *CLI, name string, fn func(ctx context.Context, rec metrics.Recorder) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = observability.WithCommand(ctx, name)

	var (
		rec metrics.Recorder = metrics.NoopRecorder{}
		reg *prom.Registry
	)
	if root.MetricsFile != "" {
		reg = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
	}

	start := time.Now()
	err := fn(ctx, rec)
	rec.ObserveCommandDuration(name, time.Since(start), err == nil)

	if reg != nil {
		if werr := metrics.WriteTextfile(reg, root.MetricsFile); werr != nil {
			observability.WarnContext(ctx, "Failed to write metrics file", logfields.File(root.MetricsFile), logfields.Error(werr))
		}
	}
	return classify(err)
}

// classify maps package sentinel errors onto CLI error categories.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return ferrors.CanceledError("interrupted").WithCause(err).Build()
	case errors.Is(err, config.ErrSettingsNotFound):
		return ferrors.NotFoundError("settings file not found").WithCause(err).Build()
	case errors.Is(err, werrors.ErrOutputDirNotFound):
		return ferrors.NotFoundError("output directory not found").WithCause(err).Build()
	case errors.Is(err, serrors.ErrCommandNotFound):
		return ferrors.NotFoundError("required program not installed").WithCause(err).Build()
	case errors.Is(err, werrors.ErrNotADirectory):
		return ferrors.ValidationError("output path is not a directory").WithCause(err).Build()
	case errors.Is(err, config.ErrUnsupportedFormat), errors.Is(err, config.ErrInvalidSettings):
		return ferrors.ConfigError("invalid settings").WithCause(err).Build()
	case errors.Is(err, serrors.ErrConfRender):
		return ferrors.ConfigError("cannot render conf.py").WithCause(err).Build()
	case errors.Is(err, serrors.ErrSphinxFailed):
		return ferrors.BuildError("sphinx build failed").WithCause(err).Build()
	case errors.Is(err, serrors.ErrCommandFailed):
		return ferrors.CommandError("command failed").WithCause(err).Build()
	case errors.Is(err, werrors.ErrDocumentProcessing),
		errors.Is(err, werrors.ErrNavigationWrite),
		errors.Is(err, werrors.ErrLandingPromotion):
		return ferrors.DocsError("wiki post-processing incomplete").WithCause(err).Build()
	case errors.Is(err, werrors.ErrTreeWalkFailed), errors.Is(err, serrors.ErrConfWrite):
		return ferrors.FileSystemError("filesystem error").WithCause(err).Build()
	default:
		return ferrors.RuntimeError("unexpected error").WithCause(err).Build()
	}
}
