package sphinx

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
	serrors "git.home.luguber.info/inful/docwiki/internal/sphinx/errors"
)

// DefaultIgnoreEntries are added to an existing .gitignore when conf.py is generated.
var DefaultIgnoreEntries = []string{"docs/html", "index.md"}

// ConfDir is the directory Sphinx reads conf.py from.
type ConfDir struct {
	Path string
	// Generated is false when the project ships its own conf.py.
	Generated bool
}

// Close removes a generated configuration directory.
func (d *ConfDir) Close() error {
	if d == nil || !d.Generated {
		return nil
	}
	return os.RemoveAll(d.Path)
}

// PrepareConf returns the configuration directory for a build in workDir.
// An existing conf.py in workDir is used as is. Otherwise conf.py is rendered
// into a fresh temporary directory the caller must Close, and ignoreEntries
// missing from workDir/.gitignore are appended.
func PrepareConf(workDir string, opts ConfOptions, ignoreEntries ...string) (*ConfDir, error) {
	if _, err := os.Stat(filepath.Join(workDir, ConfFile)); err == nil {
		slog.Info("Using existing conf.py", logfields.Dir(workDir))
		return &ConfDir{Path: workDir}, nil
	}

	content, err := RenderConf(opts)
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "docwiki-conf-")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrConfWrite, err)
	}
	confDir := &ConfDir{Path: dir, Generated: true}
	if err := os.WriteFile(filepath.Join(dir, ConfFile), []byte(content), 0o600); err != nil {
		_ = confDir.Close()
		return nil, fmt.Errorf("%w: %w", serrors.ErrConfWrite, err)
	}
	slog.Debug("Generated conf.py", logfields.Path(filepath.Join(dir, ConfFile)))

	if len(ignoreEntries) == 0 {
		ignoreEntries = DefaultIgnoreEntries
	}
	if _, err := EnsureGitignore(workDir, ignoreEntries...); err != nil {
		slog.Warn("Failed to update .gitignore", logfields.Dir(workDir), logfields.Error(err))
	}
	return confDir, nil
}

// EnsureGitignore appends entries missing from dir/.gitignore and returns
// the ones it added. An entry counts as present when any line contains it.
// Nothing happens when the file does not exist.
func EnsureGitignore(dir string, entries ...string) ([]string, error) {
	path := filepath.Join(dir, ".gitignore")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrGitignoreUpdate, err)
	}
	present := make(map[string]bool, len(entries))
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		for _, entry := range entries {
			if strings.Contains(line, entry) {
				present[entry] = true
			}
		}
	}
	scanErr := scanner.Err()
	_ = f.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrGitignoreUpdate, scanErr)
	}

	var missing []string
	for _, entry := range entries {
		if !present[entry] {
			missing = append(missing, entry)
			present[entry] = true
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	out, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrGitignoreUpdate, err)
	}
	if _, err := out.WriteString("\n" + strings.Join(missing, "\n") + "\n"); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("%w: %w", serrors.ErrGitignoreUpdate, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", serrors.ErrGitignoreUpdate, err)
	}
	return missing, nil
}
