package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/NavuFrank/The-Quantized-Observer/analysis"
	"github.com/NavuFrank/The-Quantized-Observer/engine"
	"github.com/NavuFrank/The-Quantized-Observer/internal/cli"
	"github.com/NavuFrank/The-Quantized-Observer/internal/logging"
	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

func init() {
	logging.SetLogger(logging.Discard())
}

func TestRunnerFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	gt.NoError(t, os.WriteFile(engine.DefaultConfigFile, []byte("fps_cap: 60\nresults_file: fromfile.csv\n"), 0o644))

	var got *engine.Config
	cmd := cli.RunnerCommand(func(cfg *engine.Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs([]string{"--fullscreen", "--blind-min", "30", "-o", "s01.csv"})
	gt.NoError(t, cmd.Execute())

	gt.NotNil(t, got)
	gt.Equal(t, "s01.csv", got.ResultsFile)
	gt.Equal(t, 60, got.FPSCap)
	gt.Equal(t, 30.0, got.BlindMin)
	gt.Equal(t, 75.0, got.BlindMax)
	gt.True(t, got.Fullscreen)
	gt.False(t, got.VSync)
}

func TestRunnerPropagatesError(t *testing.T) {
	t.Chdir(t.TempDir())
	boom := errors.New("save failed")
	cmd := cli.RunnerCommand(func(*engine.Config) error { return boom })
	cmd.SetArgs([]string{})
	gt.True(t, errors.Is(cmd.Execute(), boom))
}

func TestCommandsLeaveErrorPrintingToMain(t *testing.T) {
	t.Chdir(t.TempDir())

	var stderr bytes.Buffer
	runner := cli.RunnerCommand(func(*engine.Config) error { return errors.New("save failed") })
	runner.SetArgs([]string{})
	runner.SetErr(&stderr)
	gt.Error(t, runner.Execute())

	analyzer := cli.AnalyzerCommand(func(string, string) error { return nil })
	analyzer.SetArgs([]string{"-i", "missing.csv"})
	analyzer.SetErr(&stderr)
	gt.True(t, errors.Is(analyzer.Execute(), analysis.ErrNoResults))

	gt.Equal(t, "", stderr.String())
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := cli.RunnerCommand(func(*engine.Config) error { return nil })
	cmd.SetArgs([]string{"config", "init", "lab.yaml"})
	gt.NoError(t, cmd.Execute())

	cfg, err := engine.LoadConfig(filepath.Join(dir, "lab.yaml"))
	gt.NoError(t, err)
	gt.Equal(t, engine.DefaultConfig(), cfg)
}

func writeResults(t *testing.T, path string, records ...trial.Record) {
	t.Helper()
	gt.NoError(t, trial.Append(path, records))
}

func TestAnalyzerWritesChart(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ts := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	writeResults(t, "experiment_results_v2.csv",
		trial.Record{Timestamp: ts, Frequency: 40, SawFlicker: true, Mode: trial.Blind},
		trial.Record{Timestamp: ts, Frequency: 40, Mode: trial.Blind},
		trial.Record{Timestamp: ts, Frequency: 60, SawFlicker: true, Mode: trial.Blind},
		trial.Record{Timestamp: ts, Frequency: 45, SawFlicker: true, Mode: trial.Manual},
	)

	var shown string
	cmd := cli.AnalyzerCommand(func(path, title string) error {
		shown = path
		return nil
	})
	cmd.SetArgs([]string{})
	gt.NoError(t, cmd.Execute())

	gt.Equal(t, "flicker_analysis.png", shown)
	info, err := os.Stat(filepath.Join(dir, "flicker_analysis.png"))
	gt.NoError(t, err)
	gt.True(t, info.Size() > 0)
}

func TestAnalyzerNoShow(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.png")
	writeResults(t, in, trial.Record{Timestamp: time.Now(), Frequency: 50, Mode: trial.Blind})

	cmd := cli.AnalyzerCommand(func(string, string) error {
		t.Fatal("show must not be called")
		return nil
	})
	cmd.SetArgs([]string{"-i", in, "-o", out, "--no-show"})
	gt.NoError(t, cmd.Execute())

	_, err := os.Stat(out)
	gt.NoError(t, err)
}

func TestAnalyzerMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")

	_, err := cli.Analyze(filepath.Join(dir, "missing.csv"), out)
	gt.True(t, errors.Is(err, analysis.ErrNoResults))
	_, statErr := os.Stat(out)
	gt.True(t, os.IsNotExist(statErr))
}

func TestAnalyzerWithoutBlindRows(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.png")
	writeResults(t, in, trial.Record{Timestamp: time.Now(), Frequency: 50, SawFlicker: true, Mode: trial.Manual})

	_, err := cli.Analyze(in, out)
	gt.True(t, errors.Is(err, analysis.ErrNoBlindData))
	_, statErr := os.Stat(out)
	gt.True(t, os.IsNotExist(statErr))
}
