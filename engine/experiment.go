package engine

import (
	"log/slog"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/NavuFrank/The-Quantized-Observer/session"
	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

// Marker reacts to session events outside the display (trigger box, tones).
type Marker interface {
	Mark(ev session.Event)
}

// Dispatcher applies keys to the session and fans the resulting events out.
type Dispatcher struct {
	Session     *session.Session
	Markers     []Marker
	Logger      *slog.Logger
	ResultsFile string
	Incremental bool
}

func (d *Dispatcher) Key(k session.Key) {
	if k == session.KeyNone {
		return
	}
	for _, ev := range d.Session.Handle(k) {
		d.report(ev)
		for _, m := range d.Markers {
			m.Mark(ev)
		}
	}
}

func (d *Dispatcher) report(ev session.Event) {
	s := d.Session
	switch ev.Kind {
	case session.EventTrialStarted:
		// Console only; the subject sees the HUD, which hides it.
		d.Logger.Info("Blind trial started", "frequency", trial.FormatFrequency(s.Frequency))
	case session.EventBlindExited:
		d.Logger.Info("Returned to manual mode", "frequency", trial.FormatFrequency(s.Frequency))
	case session.EventLoadChanged:
		d.Logger.Info("Cognitive load toggled", "active", s.LoadActive)
	case session.EventLogged:
		if d.Incremental {
			if err := s.Results().Save(d.ResultsFile); err != nil {
				d.Logger.Error("incremental save failed, will retry on exit", "error", err)
			}
		}
	}
}

// RunExperiment runs the frame loop until the session stops. Each frame
// polls input, advances the flicker timer, draws, and waits out the rest of
// the frame budget unless VSync paces presentation.
func RunExperiment(cfg *Config, d *Dispatcher, hud *HUD, window *sdl.Window, renderer *sdl.Renderer) {
	frameBudget := time.Second / time.Duration(cfg.FPSCap)
	s := d.Session

	window.StartTextInput()
	defer window.StopTextInput()

	for s.Running {
		frameStart := time.Now()

		for {
			var ev sdl.Event
			if !sdl.PollEvent(&ev) {
				break
			}
			switch ev.Type {
			case sdl.EVENT_QUIT:
				d.Key(session.KeyQuit)
			case sdl.EVENT_KEY_DOWN:
				ke := ev.KeyboardEvent()
				if ke.Repeat {
					continue
				}
				d.Key(MapKey(ke.Key))
			case sdl.EVENT_TEXT_INPUT:
				s.Type(ev.TextInputEvent().Text)
			}
		}
		if !s.Running {
			break
		}

		s.Tick()
		hud.Draw(renderer, s)
		renderer.Present()

		if !cfg.VSync {
			if rest := frameBudget - time.Since(frameStart); rest >= time.Millisecond {
				sdl.Delay(uint32(rest / time.Millisecond))
			}
		}
	}
}
