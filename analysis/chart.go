package analysis

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Threshold is the nominal fusion point drawn as a reference line.
const Threshold = 0.5

type ChartOptions struct {
	Title  string
	Width  int
	Height int
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "Flicker Fusion Threshold Analysis (U = K/H)",
		Width:  1000,
		Height: 600,
	}
}

func curveLabel(load bool) string {
	if load {
		return "Math Load (K > 0)"
	}
	return "Relaxed (K=0)"
}

func curveColor(load bool) drawing.Color {
	if load {
		return chart.ColorRed
	}
	return chart.ColorBlue
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col.WithAlpha(128),
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// frequencyRange pads the tested span so single-frequency data still has a
// non-empty axis.
func frequencyRange(report *Report) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range report.Curves() {
		for _, p := range c.Points {
			lo = math.Min(lo, p.Frequency)
			hi = math.Max(hi, p.Frequency)
		}
	}
	return lo - 2, hi + 2
}

// Build assembles the chart: a scatter per load condition, trend lines
// where there are enough frequencies, and the threshold line.
func Build(report *Report, opts ChartOptions) chart.Chart {
	var series []chart.Series
	for _, c := range report.Curves() {
		xs := make([]float64, len(c.Points))
		ys := make([]float64, len(c.Points))
		for i, p := range c.Points {
			xs[i] = p.Frequency
			ys[i] = p.Mean
		}
		col := curveColor(c.Load)
		series = append(series, chart.ContinuousSeries{
			Name:    curveLabel(c.Load) + " Data",
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(col),
		})
		if c.Trend != nil {
			series = append(series, chart.ContinuousSeries{
				Name:    curveLabel(c.Load) + " Trend",
				XValues: xs,
				YValues: c.Trend,
				Style:   lineStyle(col),
			})
		}
	}

	lo, hi := frequencyRange(report)
	series = append(series, chart.ContinuousSeries{
		Name:    "50% Threshold (Fusion Point)",
		XValues: []float64{lo, hi},
		YValues: []float64{Threshold, Threshold},
		Style: chart.Style{
			StrokeWidth:     1.5,
			StrokeColor:     chart.ColorAlternateGray,
			StrokeDashArray: []float64{2, 4},
		},
	})

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Frequency H (Hz)",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  "Probability of Seeing Flicker P(U)",
			Range: &chart.ContinuousRange{Min: -0.05, Max: 1.05},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0.0"},
				{Value: 0.25, Label: "0.25"},
				{Value: 0.5, Label: "0.5"},
				{Value: 0.75, Label: "0.75"},
				{Value: 1, Label: "1.0"},
			},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// Render writes the chart as PNG.
func Render(w io.Writer, report *Report, opts ChartOptions) error {
	ch := Build(report, opts)
	if err := ch.Render(chart.PNG, w); err != nil {
		return goerr.Wrap(err, "failed to render chart")
	}
	return nil
}

func RenderFile(path string, report *Report, opts ChartOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create chart file", goerr.V("path", path))
	}
	if err := Render(f, report, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close chart file", goerr.V("path", path))
	}
	return nil
}

// Table formats the grouped points, one line per frequency.
func Table(report *Report) []string {
	var lines []string
	for _, c := range report.Curves() {
		lines = append(lines, curveLabel(c.Load))
		for i, p := range c.Points {
			line := fmt.Sprintf("  %6.1f Hz  p=%.2f  n=%d", p.Frequency, p.Mean, p.Count)
			if c.Trend != nil {
				line += fmt.Sprintf("  trend=%.2f", c.Trend[i])
			}
			lines = append(lines, line)
		}
	}
	return lines
}
