package commands

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docwiki/internal/sphinx"
)

// fakeSphinx records commands. For Markdown builds it writes outputs into
// the output directory the way Sphinx would.
type fakeSphinx struct {
	commands []sphinx.Command
	confs    []string
	outputs  map[string]string
	err      error
}

func (f *fakeSphinx) Run(_ context.Context, cmd sphinx.Command) error {
	f.commands = append(f.commands, cmd)
	if f.err != nil {
		return f.err
	}
	if i := slices.Index(cmd.Args, "-c"); i >= 0 && i+1 < len(cmd.Args) {
		if data, err := os.ReadFile(filepath.Join(cmd.Args[i+1], sphinx.ConfFile)); err == nil {
			f.confs = append(f.confs, string(data))
		}
	}
	if slices.Contains(cmd.Args, sphinx.BuilderMarkdown) && len(cmd.Args) > 3 {
		out := cmd.Args[3]
		for name, content := range f.outputs {
			path := filepath.Join(out, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return err
			}
		}
	}
	return nil
}

func noDoxygen(string) (string, error) { return "", os.ErrNotExist }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newCLI(dir string) *CLI {
	return &CLI{Settings: "pyproject.toml", Dir: dir}
}
