// Package analysis turns logged blind-mode responses into per-frequency
// detection rates and draws them as a chart.
package analysis

import (
	"errors"
	"io/fs"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

var (
	ErrNoResults   = goerr.New("results file not found")
	ErrNoBlindData = goerr.New("no blind mode data found")
)

// Point is the empirical detection rate at one frequency.
type Point struct {
	Frequency float64
	Mean      float64
	Count     int
}

// Curve holds the points for one cognitive-load condition.
type Curve struct {
	Load   bool
	Points []Point
	// Trend is nil when fewer than three frequencies were tested.
	Trend []float64
}

type Report struct {
	Relaxed Curve
	Loaded  Curve
}

func (r *Report) Curves() []Curve {
	var out []Curve
	for _, c := range []Curve{r.Relaxed, r.Loaded} {
		if len(c.Points) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Load reads the results file. A missing file yields ErrNoResults.
func Load(path string) ([]trial.Record, error) {
	records, err := trial.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrNoResults, "cannot analyze", goerr.V("path", path))
		}
		return nil, err
	}
	return records, nil
}

// BlindOnly drops Manual records; they have no negative responses.
func BlindOnly(records []trial.Record) []trial.Record {
	var out []trial.Record
	for _, r := range records {
		if r.Mode == trial.Blind {
			out = append(out, r)
		}
	}
	return out
}

// Group computes the mean response and count per frequency for records
// with the given load flag, sorted by frequency.
func Group(records []trial.Record, load bool) []Point {
	type acc struct {
		freq      float64
		saw, seen int
	}
	byKey := map[int64]*acc{}
	for _, r := range records {
		if r.LoadActive != load {
			continue
		}
		// Frequencies are persisted with one decimal.
		key := int64(math.Round(r.Frequency * 10))
		a, ok := byKey[key]
		if !ok {
			a = &acc{freq: float64(key) / 10}
			byKey[key] = a
		}
		a.seen++
		if r.SawFlicker {
			a.saw++
		}
	}

	points := make([]Point, 0, len(byKey))
	for _, a := range byKey {
		points = append(points, Point{
			Frequency: a.freq,
			Mean:      float64(a.saw) / float64(a.seen),
			Count:     a.seen,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Frequency < points[j].Frequency })
	return points
}

// Trend is a two-point rolling mean over the sorted points: each value
// averages a point with its predecessor, and the first point stands alone.
// It returns nil for fewer than three points.
func Trend(points []Point) []float64 {
	if len(points) < 3 {
		return nil
	}
	out := make([]float64, len(points))
	out[0] = points[0].Mean
	for i := 1; i < len(points); i++ {
		out[i] = (points[i-1].Mean + points[i].Mean) / 2
	}
	return out
}

// Analyze builds both load curves from blind-mode records.
func Analyze(records []trial.Record) (*Report, error) {
	blind := BlindOnly(records)
	if len(blind) == 0 {
		return nil, goerr.Wrap(ErrNoBlindData, "cannot analyze", goerr.V("records", len(records)))
	}

	report := &Report{
		Relaxed: Curve{Load: false, Points: Group(blind, false)},
		Loaded:  Curve{Load: true, Points: Group(blind, true)},
	}
	report.Relaxed.Trend = Trend(report.Relaxed.Points)
	report.Loaded.Trend = Trend(report.Loaded.Points)
	return report, nil
}
