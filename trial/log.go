package trial

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// Log is the in-memory, append-only sequence of records for one run.
type Log struct {
	Records []Record

	saved  int
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Add appends r and prints an operator feedback line.
func (l *Log) Add(r Record) {
	l.Records = append(l.Records, r)
	if l.logger != nil {
		l.logger.Info("Logged",
			"mode", r.Mode.String(),
			"frequency", FormatFrequency(r.Frequency),
			"load", r.LoadActive,
			"saw", r.SawFlicker,
		)
	}
}

func (l *Log) Len() int {
	return len(l.Records)
}

// Pending returns the records not yet written by Save.
func (l *Log) Pending() []Record {
	return l.Records[l.saved:]
}

// Save appends all pending records to path. It is a no-op, and does not
// create the file, when nothing is pending.
func (l *Log) Save(path string) error {
	pending := l.Pending()
	if len(pending) == 0 {
		return nil
	}
	if err := Append(path, pending); err != nil {
		return err
	}
	l.saved = len(l.Records)
	return nil
}

// Append writes records to the end of path. The header row is written
// only when the file does not exist yet.
func Append(path string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	exists := true
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return goerr.Wrap(err, "failed to stat results file", goerr.V("path", path))
		}
		exists = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "failed to open results file", goerr.V("path", path))
	}

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(Header); err != nil {
			f.Close()
			return goerr.Wrap(err, "failed to write header", goerr.V("path", path))
		}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			f.Close()
			return goerr.Wrap(err, "failed to write record", goerr.V("path", path))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return goerr.Wrap(err, "failed to flush results file", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close results file", goerr.V("path", path))
	}
	return nil
}
