package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnvFile loads the first of .env or .env.local found in dir into the
// process environment. Variables already set are not overridden.
func LoadEnvFile(dir string) (string, error) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", errors.New("no .env file found")
}

func logEnvLoaded(path string) {
	slog.Debug("Loaded environment variables", logfields.File(path))
}
