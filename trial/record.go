package trial

import (
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

type Mode int

const (
	Manual Mode = iota
	Blind
)

func (m Mode) String() string {
	if m == Blind {
		return "Blind"
	}
	return "Manual"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "Manual":
		return Manual, nil
	case "Blind":
		return Blind, nil
	}
	return Manual, goerr.New("unknown mode", goerr.V("mode", s))
}

// TimeLayout is the timestamp format of the results file.
const TimeLayout = "2006-01-02 15:04:05"

// Header lists the results file columns in order. The names match files
// written by earlier versions of the tool so old data keeps appending.
var Header = []string{"timestamp", "H_Frequency", "K_Load_Active", "Saw_Flicker", "Mode"}

// Record is one logged observation.
type Record struct {
	Timestamp  time.Time
	Frequency  float64
	LoadActive bool
	SawFlicker bool
	Mode       Mode
}

func (r Record) Row() []string {
	return []string{
		r.Timestamp.Format(TimeLayout),
		FormatFrequency(r.Frequency),
		boolFlag(r.LoadActive),
		boolFlag(r.SawFlicker),
		r.Mode.String(),
	}
}

// FormatFrequency renders a frequency with one fractional digit.
func FormatFrequency(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
