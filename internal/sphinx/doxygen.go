package sphinx

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
)

const (
	doxygenBinary = "doxygen"
	doxyfileName  = "Doxyfile"
)

// DoxygenOptions configures RunDoxygenIfNeeded.
type DoxygenOptions struct {
	// BaseDir resolves relative XML directories and is the last place searched for a Doxyfile.
	BaseDir string
	// Force regenerates XML that already exists.
	Force bool
	Quiet bool
	// LookPath locates the doxygen binary; nil selects exec.LookPath.
	LookPath func(string) (string, error)
}

// Doxygen generates Breathe XML input.
type Doxygen struct {
	runner Runner
}

// NewDoxygen returns a Doxygen; a nil runner selects ExecRunner.
func NewDoxygen(runner Runner) *Doxygen {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Doxygen{runner: runner}
}

// RunDoxygenIfNeeded makes sure every Breathe project has XML. It returns,
// per project, whether XML is available afterwards. Without a doxygen binary
// the result is empty. Existing non-empty XML directories are kept unless
// Force is set. Otherwise the Doxyfile next to the XML directory, or in
// BaseDir, is run from its own directory. Failures are logged, not returned.
func (d *Doxygen) RunDoxygenIfNeeded(ctx context.Context, projects map[string]string, opts DoxygenOptions) map[string]bool {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	result := map[string]bool{}
	if _, err := lookPath(doxygenBinary); err != nil {
		slog.Debug("Doxygen not installed; skipping XML generation")
		return result
	}

	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		xmlDir := resolveDir(opts.BaseDir, projects[name])
		if !opts.Force && hasFiles(xmlDir) {
			slog.Debug("Doxygen XML present", logfields.Project(name), logfields.Dir(xmlDir))
			result[name] = true
			continue
		}
		doxyfile, ok := findDoxyfile(xmlDir, opts.BaseDir)
		if !ok {
			slog.Warn("No Doxyfile found; API docs will be missing", logfields.Project(name), logfields.Dir(xmlDir))
			result[name] = false
			continue
		}
		cmd := Command{Name: doxygenBinary, Args: []string{doxyfileName}, Dir: filepath.Dir(doxyfile), Quiet: opts.Quiet}
		if err := d.runner.Run(ctx, cmd); err != nil {
			slog.Warn("Doxygen failed", logfields.Project(name), logfields.File(doxyfile), logfields.Error(err))
			result[name] = false
			continue
		}
		slog.Info("Generated Doxygen XML", logfields.Project(name), logfields.Dir(xmlDir))
		result[name] = true
	}
	return result
}

func findDoxyfile(xmlDir, baseDir string) (string, bool) {
	candidates := []string{filepath.Join(filepath.Dir(xmlDir), doxyfileName)}
	if baseDir != "" {
		candidates = append(candidates, filepath.Join(baseDir, doxyfileName))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

func hasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
