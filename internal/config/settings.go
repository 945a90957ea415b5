// Package config loads the docwiki settings file and resolves project
// metadata, wiki options, and breathe options from it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSettingsFile is read when no settings path is given.
	DefaultSettingsFile = "pyproject.toml"
	// ToolSection is the table holding docwiki options.
	ToolSection = "tool.docwiki"
)

var (
	ErrSettingsNotFound  = errors.New("settings file not found")
	ErrUnsupportedFormat = errors.New("unsupported settings format")
	ErrInvalidSettings   = errors.New("invalid settings file")
)

// envRefPattern matches ${VAR} references. Bare $name is left alone: the
// settings file is shared with other tools that use it in their own values.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the environment value, or "" when unset.
func expandEnv(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// Format is the encoding of a settings file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor infers the settings format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Settings is a parsed settings document. The zero value and a nil pointer
// behave as an empty document.
type Settings struct {
	path string
	data map[string]any
}

// Empty returns settings with no values.
func Empty() *Settings {
	return &Settings{data: map[string]any{}}
}

// Load reads the settings file at path. Environment files are loaded first
// and ${VAR} references in the file are expanded before parsing.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	if envFile, err := LoadEnvFile(filepath.Dir(path)); err == nil {
		logEnvLoaded(envFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	s, err := Parse([]byte(expandEnv(string(data))), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// LoadOptional behaves like Load but returns empty settings when the file does not exist.
func LoadOptional(path string) (*Settings, error) {
	s, err := Load(path)
	if errors.Is(err, ErrSettingsNotFound) {
		return Empty(), nil
	}
	return s, err
}

// Parse decodes a settings document.
func Parse(data []byte, format Format) (*Settings, error) {
	doc := map[string]any{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return &Settings{data: doc}, nil
}

// Path returns the file the settings were loaded from, or "" for parsed or empty settings.
func (s *Settings) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
