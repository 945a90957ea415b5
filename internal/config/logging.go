package config

import (
	"log/slog"

	"git.home.luguber.info/inful/docwiki/internal/foundation/normalization"
)

// LogLevelEnv overrides the log level chosen by flags.
const LogLevelEnv = "DOCWIKI_LOG_LEVEL"

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

// ParseLogLevel converts a level name to a slog level.
func ParseLogLevel(raw string) (slog.Level, error) {
	return logLevelNormalizer.Parse(raw)
}
