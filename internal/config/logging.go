package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// secretKeys are attribute keys whose values never reach a log sink.
var secretKeys = map[string]bool{
	"password": true,
	"passwd":   true,
	"secret":   true,
}

// redact replaces the value of secret attributes.
func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, "***")
	}
	return a
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level, ReplaceAttr: redact}
}

// SetupLogger creates a dual-output logger: text to stderr, JSON to file.
// stdout is left alone since it carries the MCP stdio transport.
// Returns the logger and a cleanup function to close the file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	stderrHandler := slog.NewTextHandler(os.Stderr, handlerOptions(level))

	file, err := openLogFile(logFile)
	if err != nil {
		logger := slog.New(stderrHandler)
		logger.Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return logger, func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, handlerOptions(level))
	logger := slog.New(slogmulti.Fanout(stderrHandler, fileHandler)).With("service", "dbmcp")

	return logger, file.Close
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	stderrHandler := slog.NewTextHandler(stderr, handlerOptions(level))
	fileHandler := slog.NewJSONHandler(file, handlerOptions(level))
	return slog.New(slogmulti.Fanout(stderrHandler, fileHandler))
}

// openLogFile opens logFile for appending. The parent directory is created
// only when it is missing and its own parent exists.
func openLogFile(logFile string) (*os.File, error) {
	dir := filepath.Dir(logFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if _, perr := os.Stat(filepath.Dir(dir)); perr == nil {
			if err := os.Mkdir(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
