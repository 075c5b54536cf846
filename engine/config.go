package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/NavuFrank/The-Quantized-Observer/session"
)

// DefaultConfigFile is looked up in the working directory when no config
// path is given.
const DefaultConfigFile = "flicker.yaml"

type Config struct {
	ResultsFile     string  `yaml:"results_file"`
	ChartFile       string  `yaml:"chart_file"`
	StartSplash     string  `yaml:"start_splash"`
	FontFile        string  `yaml:"font_file"`
	DLPDevice       string  `yaml:"dlp_device"`
	FontSize        int     `yaml:"font_size"`
	ScreenWidth     int     `yaml:"screen_w"`
	ScreenHeight    int     `yaml:"screen_h"`
	FPSCap          int     `yaml:"fps_cap"`
	StartFrequency  float64 `yaml:"start_frequency"`
	FrequencyStep   float64 `yaml:"frequency_step"`
	BlindMin        float64 `yaml:"blind_min"`
	BlindMax        float64 `yaml:"blind_max"`
	UseFixation     bool    `yaml:"use_fixation"`
	Fullscreen      bool    `yaml:"fullscreen"`
	VSync           bool    `yaml:"vsync"`
	IncrementalSave bool    `yaml:"incremental_save"`
	Beep            bool    `yaml:"beep"`
	BGColor         string  `yaml:"bg_color"`
	FlickerColor    string  `yaml:"flicker_color"`
	TextColor       string  `yaml:"text_color"`
	FixationColor   string  `yaml:"fixation_color"`
}

func DefaultConfig() *Config {
	s := session.DefaultSettings()
	return &Config{
		ResultsFile:    "experiment_results_v2.csv",
		ChartFile:      "flicker_analysis.png",
		FontSize:       28,
		ScreenWidth:    1200,
		ScreenHeight:   800,
		FPSCap:         120,
		StartFrequency: s.StartFrequency,
		FrequencyStep:  s.Step,
		BlindMin:       s.BlindMin,
		BlindMax:       s.BlindMax,
		BGColor:        "0,0,0,255",
		FlickerColor:   "255,255,255,255",
		TextColor:      "0,255,0,255",
		FixationColor:  "255,0,0,255",
	}
}

// ParseColor reads "R,G,B" or "R,G,B,A". A missing alpha means opaque.
func ParseColor(s string) sdl.Color {
	var r, g, b, a uint8
	n, _ := fmt.Sscanf(s, "%d,%d,%d,%d", &r, &g, &b, &a)
	if n < 4 {
		a = 255
	}
	return sdl.Color{R: r, G: g, B: b, A: a}
}

func (cfg *Config) Settings() session.Settings {
	return session.Settings{
		StartFrequency: cfg.StartFrequency,
		Step:           cfg.FrequencyStep,
		BlindMin:       cfg.BlindMin,
		BlindMax:       cfg.BlindMax,
	}
}

func (cfg *Config) Validate() error {
	if cfg.StartFrequency < session.MinFrequency {
		return goerr.New("start frequency below floor", goerr.V("start_frequency", cfg.StartFrequency))
	}
	if cfg.FrequencyStep <= 0 {
		return goerr.New("frequency step must be positive", goerr.V("frequency_step", cfg.FrequencyStep))
	}
	if cfg.BlindMin < session.MinFrequency || cfg.BlindMax < cfg.BlindMin {
		return goerr.New("invalid blind frequency range", goerr.V("blind_min", cfg.BlindMin), goerr.V("blind_max", cfg.BlindMax))
	}
	if cfg.FPSCap <= 0 {
		return goerr.New("fps cap must be positive", goerr.V("fps_cap", cfg.FPSCap))
	}
	if strings.TrimSpace(cfg.ResultsFile) == "" {
		return goerr.New("results file is required")
	}
	return nil
}

// LoadConfig reads a YAML config over the defaults. With an empty path it
// tries DefaultConfigFile and falls back to defaults when that is absent.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	name := path
	if name == "" {
		name = DefaultConfigFile
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if path == "" && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", name))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", name))
	}
	return cfg, nil
}

func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return goerr.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write config file", goerr.V("path", path))
	}
	return nil
}
