package trial

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Load reads a results file written by Append.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open results file", goerr.V("path", path))
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read results file", goerr.V("path", path))
	}
	return records, nil
}

// Read parses results rows. Columns are looked up by header name.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid csv")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, goerr.New("missing column", goerr.V("column", name))
		}
	}

	var records []Record
	for i, row := range rows[1:] {
		line := i + 2

		ts, err := time.ParseInLocation(TimeLayout, row[col["timestamp"]], time.Local)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid timestamp", goerr.V("line", line))
		}
		freq, err := strconv.ParseFloat(row[col["H_Frequency"]], 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid frequency", goerr.V("line", line))
		}
		load, err := parseFlag(row[col["K_Load_Active"]])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid load flag", goerr.V("line", line))
		}
		saw, err := parseFlag(row[col["Saw_Flicker"]])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid response flag", goerr.V("line", line))
		}
		mode, err := ParseMode(row[col["Mode"]])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid mode", goerr.V("line", line))
		}

		records = append(records, Record{
			Timestamp:  ts,
			Frequency:  freq,
			LoadActive: load,
			SawFlicker: saw,
			Mode:       mode,
		})
	}

	return records, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "1", "True", "true":
		return true, nil
	case "0", "False", "false":
		return false, nil
	}
	return false, goerr.New("flag must be 0 or 1", goerr.V("value", s))
}
