package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/NavuFrank/The-Quantized-Observer/session"
	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

const WindowTitle = "Quantized Observer: Blind 2AFC Flicker Experiment"

func openFont(cfg *Config, size int, logger *slog.Logger) *ttf.Font {
	path := cfg.FontFile
	if path == "" {
		path = GetDefaultFontPath()
	}
	if path == "" {
		logger.Warn("no font found, HUD text disabled")
		return nil
	}
	font, err := ttf.OpenFont(path, float32(size))
	if err != nil {
		logger.Warn("failed to load font, HUD text disabled", "path", path, "error", err)
		return nil
	}
	return font
}

// openAudio starts the feedback stream. The returned cleanup is never nil.
func openAudio(logger *slog.Logger) (*Beeper, func()) {
	mixer := NewAudioMixer()
	cb := sdl.NewAudioStreamCallback(mixer.Callback)
	spec := OutputSpec
	stream := sdl.AUDIO_DEVICE_DEFAULT_PLAYBACK.OpenAudioDeviceStream(&spec, cb)
	if stream == nil {
		logger.Warn("failed to open audio stream, feedback tones disabled")
		return nil, func() {}
	}
	stream.ResumeDevice()
	return NewBeeper(mixer), func() { stream.Destroy() }
}

// Run opens the experiment window, runs the session until the operator
// quits, then appends the logged records to cfg.ResultsFile. A save failure
// is returned after the window has closed.
func Run(cfg *Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger = logger.With("session", uuid.NewString())

	initFlags := sdl.INIT_VIDEO | sdl.INIT_EVENTS
	if cfg.Beep {
		initFlags |= sdl.INIT_AUDIO
	}
	if err := sdl.Init(initFlags); err != nil {
		return goerr.Wrap(err, "SDL_Init failed")
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return goerr.Wrap(err, "TTF_Init failed")
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(WindowTitle, cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return goerr.Wrap(err, "CreateWindowAndRenderer failed")
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)

	small := NewTextCache(openFont(cfg, cfg.FontSize, logger))
	large := NewTextCache(openFont(cfg, cfg.FontSize*2, logger))
	defer func() {
		small.Destroy()
		large.Destroy()
		if small.font != nil {
			small.font.Close()
		}
		if large.font != nil {
			large.font.Close()
		}
	}()

	var markers []Marker
	if cfg.DLPDevice != "" {
		dlp, err := NewDLPIO8G(cfg.DLPDevice, 9600)
		if err != nil {
			logger.Warn("failed to initialize DLP device", "error", err)
		} else {
			defer dlp.Close()
			markers = append(markers, NewTrigger(dlp, logger))
		}
	}
	if cfg.Beep {
		beeper, closeAudio := openAudio(logger)
		defer closeAudio()
		if beeper != nil {
			markers = append(markers, beeper)
		}
	}

	results := trial.NewLog(logger)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	s := session.New(cfg.Settings(), results, rng, time.Now)

	d := &Dispatcher{
		Session:     s,
		Markers:     markers,
		Logger:      logger,
		ResultsFile: cfg.ResultsFile,
		Incremental: cfg.IncrementalSave,
	}

	if DisplaySplash(renderer, cfg.StartSplash, cfg.ScreenWidth, cfg.ScreenHeight, ParseColor(cfg.BGColor)) {
		RunExperiment(cfg, d, NewHUD(cfg, small, large), window, renderer)
	}

	if results.Len() == 0 {
		logger.Info("No trials logged, results file untouched", "path", cfg.ResultsFile)
		return nil
	}
	if err := results.Save(cfg.ResultsFile); err != nil {
		return goerr.Wrap(err, "failed to save results", goerr.V("trials", results.Len()))
	}
	fmt.Printf("\nResults saved to %s (%d trials)\n", cfg.ResultsFile, results.Len())
	return nil
}
