package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docwiki/internal/config"
	ferrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	serrors "git.home.luguber.info/inful/docwiki/internal/sphinx/errors"
	werrors "git.home.luguber.info/inful/docwiki/internal/wiki/errors"
)

const projectSettings = `
[project]
name = "demo-lib"
description = "Demo library"

[project.urls]
Homepage = "https://demo.example.dev"

[tool.docwiki]
title = "Demo Lib"
pages = ["overview.md", "api.md"]

[tool.docwiki.wiki]
footer-repo-url = "https://github.com/example/demo-lib"
`

func TestConfigCmdPrintsGeneratedConf(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), projectSettings)

	var out bytes.Buffer
	cmd := &ConfigCmd{}
	require.NoError(t, cmd.Run(&Global{Stdout: &out}, newCLI(dir)))

	assert.Contains(t, out.String(), "project = 'demo-lib'")
	assert.Contains(t, out.String(), "title = 'Demo Lib'")
	assert.Contains(t, out.String(), "use_wiki = False")
}

func TestConfigCmdWikiFlag(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := &ConfigCmd{Wiki: true}
	require.NoError(t, cmd.Run(&Global{Stdout: &out}, newCLI(dir)))
	assert.Contains(t, out.String(), "use_wiki = True")
}

func TestExplicitSettingsFileMustExist(t *testing.T) {
	cli := &CLI{Settings: "docs.yaml", Dir: t.TempDir()}
	err := (&ConfigCmd{}).Run(&Global{Stdout: &bytes.Buffer{}}, cli)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.Equal(t, 3, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuildCmdRunsSphinxWithGeneratedConf(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), projectSettings)
	writeFile(t, filepath.Join(dir, ".gitignore"), "dist/\n")

	runner := &fakeSphinx{}
	cmd := &BuildCmd{Quiet: true}
	require.NoError(t, cmd.Run(&Global{Runner: runner, LookPath: noDoxygen}, newCLI(dir)))

	require.Len(t, runner.commands, 1)
	args := runner.commands[0].Args
	assert.Equal(t, "python3", runner.commands[0].Name)
	assert.Equal(t, []string{"-m", "sphinx", dir, filepath.Join(dir, "docs", "html")}, args[:4])
	assert.Contains(t, args, "-q")
	assert.NotContains(t, args, "-b")

	confDir := args[5]
	assert.NotEqual(t, dir, confDir)
	_, err := os.Stat(confDir)
	assert.True(t, os.IsNotExist(err), "generated configuration is removed after the build")
	require.Len(t, runner.confs, 1)
	assert.Contains(t, runner.confs[0], "project = 'demo-lib'")

	gitignore := readFile(t, filepath.Join(dir, ".gitignore"))
	assert.Contains(t, gitignore, "docs/html")
	assert.Contains(t, gitignore, "index.md")
}

func TestBuildCmdKeepsProjectConf(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.py"), "project = 'own'\n")

	runner := &fakeSphinx{}
	require.NoError(t, (&BuildCmd{}).Run(&Global{Runner: runner, LookPath: noDoxygen}, newCLI(dir)))

	require.Len(t, runner.commands, 1)
	assert.Equal(t, dir, runner.commands[0].Args[5])
	assert.FileExists(t, filepath.Join(dir, "conf.py"))
}

func TestBuildCmdSphinxFailureIsBuildError(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeSphinx{err: fmt.Errorf("%w: exit status 2", serrors.ErrCommandFailed)}

	err := (&BuildCmd{}).Run(&Global{Runner: runner, LookPath: noDoxygen}, newCLI(dir))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	assert.ErrorIs(t, err, serrors.ErrSphinxFailed)
	assert.Equal(t, 11, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestDebugCmdEchoesAtDebugLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	runner := &fakeSphinx{}
	require.NoError(t, (&DebugCmd{}).Run(&Global{Runner: runner, LookPath: noDoxygen}, newCLI(t.TempDir())))
	require.Len(t, runner.commands, 1)
	assert.NotContains(t, runner.commands[0].Args, "-q")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}

func TestWikiCmdBuildsAndPostProcesses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), projectSettings)

	runner := &fakeSphinx{outputs: map[string]string{
		"index.md":    "# Welcome\n\nSee [overview](overview.md).\n",
		"overview.md": "# Overview\n\nOverview content.\n",
		"api.md":      "# API\n\nAPI docs.\n",
	}}
	var out bytes.Buffer
	require.NoError(t, (&WikiCmd{}).Run(&Global{Runner: runner, Stdout: &out, LookPath: noDoxygen}, newCLI(dir)))

	require.Len(t, runner.commands, 1)
	args := runner.commands[0].Args
	wikiDir := filepath.Join(dir, "docs", "wiki")
	assert.Equal(t, wikiDir, args[3])
	assert.Equal(t, []string{"-b", "markdown"}, args[6:8])
	require.Len(t, runner.confs, 1)
	assert.Contains(t, runner.confs[0], "use_wiki = True")

	assert.Contains(t, readFile(t, filepath.Join(wikiDir, "Home.md")), "(overview)")
	sidebar := readFile(t, filepath.Join(wikiDir, "_Sidebar.md"))
	assert.Equal(t, "### Demo Lib\n\n* [Home](Home)\n* [Overview](overview)\n* [API](api)\n", sidebar)
	footer := readFile(t, filepath.Join(wikiDir, "_Footer.md"))
	assert.Contains(t, footer, "https://demo.example.dev")
	assert.Contains(t, footer, "https://github.com/example/demo-lib")
	assert.Contains(t, out.String(), "Wiki written to "+wikiDir)
}

func TestPostprocessCmd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "# Welcome\n\nSee [overview](overview.md).\n")
	writeFile(t, filepath.Join(dir, "overview.md"), "# Overview\n")

	cmd := &PostprocessCmd{Dir: dir, Pages: []string{"overview.md"}, Project: "Tool", NoFooter: true}
	var out bytes.Buffer
	require.NoError(t, cmd.Run(&Global{Stdout: &out}, &CLI{}))

	assert.FileExists(t, filepath.Join(dir, "Home.md"))
	assert.Contains(t, readFile(t, filepath.Join(dir, "_Sidebar.md")), "### Tool")
	assert.NoFileExists(t, filepath.Join(dir, "_Footer.md"))
	assert.Contains(t, out.String(), "Wiki written to")
}

func TestPostprocessCmdNoFixLinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "# Welcome\n\nSee [overview](overview.md).\n")
	writeFile(t, filepath.Join(dir, "overview.md"), "# Overview\n")

	cmd := &PostprocessCmd{Dir: dir, NoFixLinks: true, NoSidebar: true, NoFooter: true}
	require.NoError(t, cmd.Run(&Global{Stdout: &bytes.Buffer{}}, &CLI{}))

	assert.Contains(t, readFile(t, filepath.Join(dir, "Home.md")), "(overview.md)")
	assert.NoFileExists(t, filepath.Join(dir, "_Sidebar.md"))
}

func TestPostprocessCmdMissingDir(t *testing.T) {
	cmd := &PostprocessCmd{Dir: filepath.Join(t.TempDir(), "missing")}
	err := cmd.Run(&Global{Stdout: &bytes.Buffer{}}, &CLI{})
	require.Error(t, err)
	assert.ErrorIs(t, err, werrors.ErrOutputDirNotFound)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestPostprocessWritesMetricsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "# Welcome\n")
	metricsFile := filepath.Join(t.TempDir(), "docwiki.prom")

	cmd := &PostprocessCmd{Dir: dir}
	require.NoError(t, cmd.Run(&Global{Stdout: &bytes.Buffer{}}, &CLI{MetricsFile: metricsFile}))

	content := readFile(t, metricsFile)
	assert.Contains(t, content, `docwiki_command_duration_seconds_count{command="postprocess",result="success"} 1`)
	assert.Contains(t, content, "docwiki_run_duration_seconds")
}

func TestWatchCmdRejectsUnknownMode(t *testing.T) {
	err := (&WatchCmd{Mode: "pdf"}).Run(&Global{}, newCLI(t.TempDir()))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestWatchModeAliases(t *testing.T) {
	for raw, want := range map[string]WatchMode{"build": WatchModeBuild, "HTML": WatchModeBuild, "wiki": WatchModeWiki, "markdown": WatchModeWiki} {
		got, err := watchModeNormalizer.Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ferrors.ErrorCategory
	}{
		{"canceled", context.Canceled, ferrors.CategoryCanceled},
		{"settings missing", fmt.Errorf("%w: x", config.ErrSettingsNotFound), ferrors.CategoryNotFound},
		{"binary missing", fmt.Errorf("%w: %w", serrors.ErrSphinxFailed, serrors.ErrCommandNotFound), ferrors.CategoryNotFound},
		{"not a dir", werrors.ErrNotADirectory, ferrors.CategoryValidation},
		{"bad settings", config.ErrInvalidSettings, ferrors.CategoryConfig},
		{"render", serrors.ErrConfRender, ferrors.CategoryConfig},
		{"sphinx", serrors.ErrSphinxFailed, ferrors.CategoryBuild},
		{"doxygen", serrors.ErrCommandFailed, ferrors.CategoryCommand},
		{"documents", werrors.ErrDocumentProcessing, ferrors.CategoryDocs},
		{"walk", werrors.ErrTreeWalkFailed, ferrors.CategoryFileSystem},
		{"other", errors.New("boom"), ferrors.CategoryRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			assert.True(t, ferrors.HasCategory(err, tt.category), "got %v", ferrors.GetCategory(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.NoError(t, classify(nil))

	already := ferrors.ConfigError("x").Build()
	assert.Same(t, already, classify(already))
}

func TestLogLevel(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "warning")
	assert.Equal(t, slog.LevelWarn, (&CLI{}).logLevel())
	assert.Equal(t, slog.LevelDebug, (&CLI{Verbose: true}).logLevel())

	t.Setenv(config.LogLevelEnv, "loud")
	assert.Equal(t, slog.LevelInfo, (&CLI{}).logLevel())

	t.Setenv(config.LogLevelEnv, "")
	assert.Equal(t, slog.LevelInfo, (&CLI{}).logLevel())
}

func TestSettingsPathRelativeToDir(t *testing.T) {
	cli := &CLI{Settings: "conf/docs.yaml"}
	assert.Equal(t, filepath.Join("/work", "conf", "docs.yaml"), cli.settingsPath("/work"))
	cli.Settings = "/etc/docwiki.toml"
	assert.Equal(t, "/etc/docwiki.toml", cli.settingsPath("/work"))
	assert.True(t, strings.HasSuffix((&CLI{}).settingsPath("/work"), config.DefaultSettingsFile))
}
