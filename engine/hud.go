package engine

import (
	"fmt"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/NavuFrank/The-Quantized-Observer/session"
	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

var (
	panelColor    = sdl.Color{R: 20, G: 20, B: 20, A: 210}
	mathBackColor = sdl.Color{R: 0, G: 0, B: 0, A: 180}
	modeColor     = sdl.Color{R: 0, G: 100, B: 255, A: 255}
	promptColor   = sdl.Color{R: 255, G: 255, B: 0, A: 255}
	problemColor  = sdl.Color{R: 255, G: 0, B: 0, A: 255}
)

const CrossSize = 20

// HUD draws the session every frame. It keeps only cached text textures.
type HUD struct {
	cfg      *Config
	small    *TextCache
	large    *TextCache
	bg       sdl.Color
	flicker  sdl.Color
	text     sdl.Color
	fixation sdl.Color
}

func NewHUD(cfg *Config, small, large *TextCache) *HUD {
	return &HUD{
		cfg:      cfg,
		small:    small,
		large:    large,
		bg:       ParseColor(cfg.BGColor),
		flicker:  ParseColor(cfg.FlickerColor),
		text:     ParseColor(cfg.TextColor),
		fixation: ParseColor(cfg.FixationColor),
	}
}

// HUDLine is one line of the info panel.
type HUDLine struct {
	Text  string
	Color sdl.Color
	Y     float32
}

// Lines is the info panel content for s. The frequency is never part of it
// while the session is blind.
func (h *HUD) Lines(s *session.Session) []HUDLine {
	freq := "Frequency: [HIDDEN]"
	if !s.Blind {
		freq = fmt.Sprintf("Frequency: %s Hz", trial.FormatFrequency(s.Frequency))
	}
	load := "OFF"
	if s.LoadActive {
		load = "ACTIVE"
	}
	mode := "MODE: Manual"
	if s.Blind {
		mode = "MODE: 2AFC (Blind)"
	}

	lines := []HUDLine{
		{Text: freq, Color: h.text, Y: 20},
		{Text: "Cognitive Load: " + load, Color: h.text, Y: 55},
		{Text: mode, Color: modeColor, Y: 90},
	}
	if s.Blind {
		lines = append(lines,
			HUDLine{Text: "DO YOU SEE FLICKER? [Y/N]", Color: promptColor, Y: 135},
			HUDLine{Text: "Press M to return to Manual Mode", Color: h.text, Y: 175},
		)
	} else {
		lines = append(lines,
			HUDLine{Text: "UP/DOWN: Adjust | T: Start Blind Trial", Color: h.text, Y: 135},
			HUDLine{Text: "ENTER: Log | ESC: Exit & Save", Color: h.text, Y: 175},
		)
	}
	return lines
}

func fill(renderer *sdl.Renderer, c sdl.Color, r sdl.FRect) {
	renderer.SetDrawColor(c.R, c.G, c.B, c.A)
	renderer.RenderFillRect(&r)
}

func (h *HUD) Draw(renderer *sdl.Renderer, s *session.Session) {
	bg := h.bg
	if s.Timer.On {
		bg = h.flicker
	}
	renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	renderer.Clear()

	cx, cy := h.center(renderer)
	if h.cfg.UseFixation {
		drawFixationCross(renderer, cx, cy, h.fixation)
	}

	fill(renderer, panelColor, sdl.FRect{X: 10, Y: 10, W: 500, H: 240})
	for _, l := range h.Lines(s) {
		h.small.Draw(renderer, l.Text, l.Color, 20, l.Y)
	}

	if s.LoadActive {
		h.drawProblem(renderer, s.Problem.String(), cx, cy)
	}
}

// center is the middle of the current render output. Fullscreen and resized
// windows differ from the configured size.
func (h *HUD) center(renderer *sdl.Renderer) (float32, float32) {
	w, hh, err := renderer.CurrentRenderOutputSize()
	if err != nil {
		w, hh = 0, 0
	}
	return outputCenter(w, hh, h.cfg)
}

func outputCenter(w, h int32, cfg *Config) (float32, float32) {
	if w <= 0 || h <= 0 {
		w, h = int32(cfg.ScreenWidth), int32(cfg.ScreenHeight)
	}
	return float32(w) / 2, float32(h) / 2
}

// problemRects returns the backing panel and text rect for a tw x th problem
// texture centered on (cx, cy).
func problemRects(cx, cy, tw, th float32) (panel, text sdl.FRect) {
	panel = sdl.FRect{X: cx - (tw/2 + 50), Y: cy - 60, W: tw + 100, H: 120}
	text = sdl.FRect{X: cx - tw/2, Y: cy - th/2, W: tw, H: th}
	return panel, text
}

func (h *HUD) drawProblem(renderer *sdl.Renderer, text string, cx, cy float32) {
	e := h.large.Get(renderer, text, problemColor)
	if e == nil {
		return
	}
	panel, dst := problemRects(cx, cy, e.W, e.H)
	fill(renderer, mathBackColor, panel)
	renderer.RenderTexture(e.Texture, nil, &dst)
}

func drawFixationCross(renderer *sdl.Renderer, mx, my float32, color sdl.Color) {
	renderer.SetDrawColor(color.R, color.G, color.B, color.A)
	renderer.RenderLine(mx-CrossSize, my, mx+CrossSize, my)
	renderer.RenderLine(mx, my-CrossSize, mx, my+CrossSize)
}
