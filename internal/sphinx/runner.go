package sphinx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	serrors "git.home.luguber.info/inful/docwiki/internal/sphinx/errors"
)

// interruptGrace is how long a canceled child gets to exit after SIGINT before it is killed.
const interruptGrace = 5 * time.Second

// Command is one external program invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Quiet bool
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes external commands. Implementations block until the
// command exits or ctx is canceled.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes. Output streams to Stdout and
// Stderr unless the command is quiet, in which case it is captured and only
// included in the error on failure.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", serrors.ErrCommandNotFound, c.Name, err)
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = interruptGrace

	var captured bytes.Buffer
	if c.Quiet {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}

	slog.Debug("Running command", logfields.Command(c.String()), logfields.Dir(c.Dir))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", c, ctxErr)
		}
		if out := strings.TrimSpace(captured.String()); out != "" {
			return fmt.Errorf("%w: %s: %w: %s", serrors.ErrCommandFailed, c, err, out)
		}
		return fmt.Errorf("%w: %s: %w", serrors.ErrCommandFailed, c, err)
	}
	return nil
}

// MeasuredRunner records the duration and outcome of every command it runs.
type MeasuredRunner struct {
	Next     Runner
	Recorder metrics.Recorder
}

func (m MeasuredRunner) Run(ctx context.Context, c Command) error {
	start := time.Now()
	err := m.Next.Run(ctx, c)
	if m.Recorder != nil {
		m.Recorder.ObserveCommandDuration(commandLabel(c), time.Since(start), err == nil)
	}
	return err
}

// commandLabel names a command for metrics: "sphinx" for "python -m sphinx",
// otherwise the program's base name.
func commandLabel(c Command) string {
	if len(c.Args) >= 2 && c.Args[0] == "-m" {
		return c.Args[1]
	}
	return filepath.Base(c.Name)
}

// ExitCode returns the exit status of a failed child process in err's chain.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
