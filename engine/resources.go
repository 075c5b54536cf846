package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

// GetDefaultFontPath prefers a monospace face so the HUD columns line up,
// then any sans face the platform ships.
func GetDefaultFontPath() string {
	entries, err := os.ReadDir("fonts")
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" || ext == ".ttc" {
					return filepath.Join("fonts", entry.Name())
				}
			}
		}
	}

	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{
			"C:\\Windows\\Fonts\\consola.ttf",
			"C:\\Windows\\Fonts\\arial.ttf",
		}
	case "darwin":
		paths = []string{
			"/System/Library/Fonts/Menlo.ttc",
			"/System/Library/Fonts/Helvetica.ttc",
		}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

type TextEntry struct {
	Texture *sdl.Texture
	W, H    float32
}

// TextCache keeps one texture per rendered string and color. HUD strings
// repeat every frame and change only when the session does, so the cache
// stays small.
type TextCache struct {
	font    *ttf.Font
	entries map[string]*TextEntry
}

func NewTextCache(font *ttf.Font) *TextCache {
	return &TextCache{
		font:    font,
		entries: make(map[string]*TextEntry),
	}
}

func textKey(text string, c sdl.Color) string {
	return fmt.Sprintf("%d,%d,%d,%d:%s", c.R, c.G, c.B, c.A, text)
}

// Get renders text on first use. It returns nil without a font or when
// rendering fails.
func (c *TextCache) Get(renderer *sdl.Renderer, text string, color sdl.Color) *TextEntry {
	if c.font == nil || text == "" {
		return nil
	}
	key := textKey(text, color)
	if entry, ok := c.entries[key]; ok {
		return entry
	}

	entry := &TextEntry{}
	surf, err := c.font.RenderTextBlended(text, color)
	if err == nil && surf != nil {
		tex, err := renderer.CreateTextureFromSurface(surf)
		if err == nil {
			entry.Texture = tex
			entry.W = float32(surf.W)
			entry.H = float32(surf.H)
		}
		surf.Destroy()
	}
	c.entries[key] = entry
	if entry.Texture == nil {
		return nil
	}
	return entry
}

func (c *TextCache) Draw(renderer *sdl.Renderer, text string, color sdl.Color, x, y float32) {
	e := c.Get(renderer, text, color)
	if e == nil {
		return
	}
	dst := sdl.FRect{X: x, Y: y, W: e.W, H: e.H}
	renderer.RenderTexture(e.Texture, nil, &dst)
}

func (c *TextCache) Len() int {
	return len(c.entries)
}

func (c *TextCache) Destroy() {
	for _, entry := range c.entries {
		if entry.Texture != nil {
			entry.Texture.Destroy()
		}
	}
	c.entries = make(map[string]*TextEntry)
}
