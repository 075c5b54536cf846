package logging

import (
	"log/slog"
	"os"
)

// Logger is shared by both binaries. Status lines go to stdout so the
// operator sees them next to the experiment window.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// SetLogger replaces the default logger.
func SetLogger(l *slog.Logger) {
	Logger = l
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
