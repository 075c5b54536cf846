package analysis_test

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/NavuFrank/The-Quantized-Observer/analysis"
	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

var ts = time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)

func rec(freq float64, load, saw bool, mode trial.Mode) trial.Record {
	return trial.Record{Timestamp: ts, Frequency: freq, LoadActive: load, SawFlicker: saw, Mode: mode}
}

func TestGroupExample(t *testing.T) {
	records := []trial.Record{
		rec(40, false, true, trial.Blind),
		rec(40, false, false, trial.Blind),
		rec(60, false, true, trial.Blind),
		// Manual rows must not count.
		rec(40, false, true, trial.Manual),
		rec(40, false, true, trial.Manual),
		rec(60, false, true, trial.Manual),
	}

	report, err := analysis.Analyze(records)
	gt.NoError(t, err)

	points := report.Relaxed.Points
	gt.A(t, points).Length(2)
	gt.Equal(t, analysis.Point{Frequency: 40, Mean: 0.5, Count: 2}, points[0])
	gt.Equal(t, analysis.Point{Frequency: 60, Mean: 1.0, Count: 1}, points[1])
	gt.A(t, report.Loaded.Points).Length(0)
	gt.True(t, report.Relaxed.Trend == nil)
	gt.A(t, report.Curves()).Length(1)
}

func TestGroupSplitsByLoad(t *testing.T) {
	records := []trial.Record{
		rec(50, false, true, trial.Blind),
		rec(50, true, false, trial.Blind),
		rec(50, true, true, trial.Blind),
		rec(50, true, true, trial.Blind),
	}
	gt.Equal(t, []analysis.Point{{Frequency: 50, Mean: 1, Count: 1}}, analysis.Group(records, false))

	loaded := analysis.Group(records, true)
	gt.A(t, loaded).Length(1)
	gt.Equal(t, 3, loaded[0].Count)
	gt.True(t, loaded[0].Mean > 0.66 && loaded[0].Mean < 0.67)
}

func TestGroupSortsByFrequency(t *testing.T) {
	records := []trial.Record{
		rec(70.2, false, true, trial.Blind),
		rec(25, false, false, trial.Blind),
		rec(42.3, false, true, trial.Blind),
		rec(42.3, false, false, trial.Blind),
	}
	points := analysis.Group(records, false)
	gt.A(t, points).Length(3)
	gt.Equal(t, 25.0, points[0].Frequency)
	gt.Equal(t, 42.3, points[1].Frequency)
	gt.Equal(t, 70.2, points[2].Frequency)
}

func TestTrend(t *testing.T) {
	gt.True(t, analysis.Trend([]analysis.Point{{Mean: 1}, {Mean: 0}}) == nil)

	points := []analysis.Point{
		{Frequency: 30, Mean: 1},
		{Frequency: 40, Mean: 0.5},
		{Frequency: 50, Mean: 0},
		{Frequency: 60, Mean: 0},
	}
	gt.Equal(t, []float64{1, 0.75, 0.25, 0}, analysis.Trend(points))
}

func TestAnalyzeWithoutBlindData(t *testing.T) {
	_, err := analysis.Analyze([]trial.Record{rec(40, false, true, trial.Manual)})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, analysis.ErrNoBlindData))

	_, err = analysis.Analyze(nil)
	gt.True(t, errors.Is(err, analysis.ErrNoBlindData))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := analysis.Load(filepath.Join(t.TempDir(), "experiment_results_v2.csv"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, analysis.ErrNoResults))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	gt.NoError(t, trial.Append(path, []trial.Record{
		rec(40, false, true, trial.Blind),
		rec(40, true, false, trial.Manual),
	}))

	records, err := analysis.Load(path)
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
	gt.A(t, analysis.BlindOnly(records)).Length(1)
}

func testReport() *analysis.Report {
	records := []trial.Record{
		rec(30, false, true, trial.Blind),
		rec(40, false, true, trial.Blind),
		rec(40, false, false, trial.Blind),
		rec(55, false, false, trial.Blind),
		rec(35, true, true, trial.Blind),
	}
	report, _ := analysis.Analyze(records)
	return report
}

func TestBuildSeries(t *testing.T) {
	ch := analysis.Build(testReport(), analysis.DefaultChartOptions())

	// relaxed data + trend, loaded data, threshold
	gt.A(t, ch.Series).Length(4)
	gt.Equal(t, "Relaxed (K=0) Data", ch.Series[0].GetName())
	gt.Equal(t, "Relaxed (K=0) Trend", ch.Series[1].GetName())
	gt.Equal(t, "Math Load (K > 0) Data", ch.Series[2].GetName())
	gt.Equal(t, "50% Threshold (Fusion Point)", ch.Series[3].GetName())
	gt.Equal(t, 28.0, ch.XAxis.Range.GetMin())
	gt.Equal(t, 57.0, ch.XAxis.Range.GetMax())

	gt.Equal(t, "Flicker Fusion Threshold Analysis (U = K/H)", ch.Title)
	gt.Equal(t, "Probability of Seeing Flicker P(U)", ch.YAxis.Name)
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	opts := analysis.DefaultChartOptions()
	gt.NoError(t, analysis.Render(&buf, testReport(), opts))

	img, err := png.Decode(&buf)
	gt.NoError(t, err)
	gt.Equal(t, opts.Width, img.Bounds().Dx())
	gt.Equal(t, opts.Height, img.Bounds().Dy())
}

func TestRenderFileSinglePoint(t *testing.T) {
	report, err := analysis.Analyze([]trial.Record{rec(40, true, true, trial.Blind)})
	gt.NoError(t, err)

	path := filepath.Join(t.TempDir(), "flicker_analysis.png")
	gt.NoError(t, analysis.RenderFile(path, report, analysis.DefaultChartOptions()))

	info, err := os.Stat(path)
	gt.NoError(t, err)
	gt.True(t, info.Size() > 0)
}

func TestTable(t *testing.T) {
	lines := analysis.Table(testReport())
	gt.Equal(t, "Relaxed (K=0)", lines[0])
	gt.Equal(t, "    30.0 Hz  p=1.00  n=1  trend=1.00", lines[1])
	gt.Equal(t, "    40.0 Hz  p=0.50  n=2  trend=0.75", lines[2])
	gt.Equal(t, "Math Load (K > 0)", lines[4])
}
