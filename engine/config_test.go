package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/m-mizutani/gt"

	"github.com/NavuFrank/The-Quantized-Observer/engine"
)

func TestParseColor(t *testing.T) {
	gt.Equal(t, sdl.Color{R: 1, G: 2, B: 3, A: 4}, engine.ParseColor("1,2,3,4"))
	gt.Equal(t, sdl.Color{R: 255, G: 255, B: 255, A: 255}, engine.ParseColor("255,255,255"))
	gt.Equal(t, sdl.Color{R: 0, G: 0, B: 0, A: 0}, engine.ParseColor("0,0,0,0"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := engine.DefaultConfig()
	gt.NoError(t, cfg.Validate())
	gt.Equal(t, "experiment_results_v2.csv", cfg.ResultsFile)
	gt.Equal(t, "flicker_analysis.png", cfg.ChartFile)
	gt.Equal(t, 120, cfg.FPSCap)
	gt.Equal(t, 1200, cfg.ScreenWidth)
	gt.Equal(t, 800, cfg.ScreenHeight)

	s := cfg.Settings()
	gt.Equal(t, 30.0, s.StartFrequency)
	gt.Equal(t, 1.0, s.Step)
	gt.Equal(t, 25.0, s.BlindMin)
	gt.Equal(t, 75.0, s.BlindMax)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := engine.LoadConfig("")
	gt.NoError(t, err)
	gt.Equal(t, engine.DefaultConfig(), cfg)
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := engine.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	gt.Error(t, err)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	data := "results_file: subject01.csv\nfps_cap: 240\nblind_min: 30\nblind_max: 60\nfullscreen: true\n"
	gt.NoError(t, os.WriteFile(filepath.Join(dir, engine.DefaultConfigFile), []byte(data), 0o644))

	cfg, err := engine.LoadConfig("")
	gt.NoError(t, err)
	gt.Equal(t, "subject01.csv", cfg.ResultsFile)
	gt.Equal(t, 240, cfg.FPSCap)
	gt.Equal(t, 30.0, cfg.BlindMin)
	gt.Equal(t, 60.0, cfg.BlindMax)
	gt.True(t, cfg.Fullscreen)
	// untouched keys keep defaults
	gt.Equal(t, 30.0, cfg.StartFrequency)
	gt.Equal(t, "255,255,255,255", cfg.FlickerColor)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	gt.NoError(t, os.WriteFile(path, []byte("fps_cap: [1, 2"), 0o644))

	_, err := engine.LoadConfig(path)
	gt.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flicker.yaml")
	cfg := engine.DefaultConfig()
	cfg.DLPDevice = "/dev/ttyUSB0"
	cfg.IncrementalSave = true
	gt.NoError(t, cfg.Save(path))

	loaded, err := engine.LoadConfig(path)
	gt.NoError(t, err)
	gt.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*engine.Config){
		"start below floor":     func(c *engine.Config) { c.StartFrequency = 0.5 },
		"zero step":             func(c *engine.Config) { c.FrequencyStep = 0 },
		"inverted range":        func(c *engine.Config) { c.BlindMin, c.BlindMax = 80, 20 },
		"blind min below floor": func(c *engine.Config) { c.BlindMin, c.BlindMax = 0.01, 0.04 },
		"zero fps":              func(c *engine.Config) { c.FPSCap = 0 },
		"no results file":       func(c *engine.Config) { c.ResultsFile = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := engine.DefaultConfig()
			mutate(cfg)
			gt.Error(t, cfg.Validate())
		})
	}
}
