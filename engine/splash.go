package engine

import (
	"image"
	_ "image/png"
	"os"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/m-mizutani/goerr/v2"
)

// DisplaySplash shows an image centered on bgColor until a key is pressed.
// It returns false if the window was closed instead. A missing or
// unreadable image is skipped.
func DisplaySplash(renderer *sdl.Renderer, filePath string, screenW, screenH int, bgColor sdl.Color) bool {
	if filePath == "" {
		return true
	}
	tex, err := img.LoadTexture(renderer, filePath)
	if err != nil {
		return true
	}
	defer tex.Destroy()

	tw, th, _ := tex.Size()
	scale := min(float32(screenW)/tw, float32(screenH)/th, 1)
	dst := sdl.FRect{
		X: (float32(screenW) - tw*scale) / 2.0,
		Y: (float32(screenH) - th*scale) / 2.0,
		W: tw * scale,
		H: th * scale,
	}

	renderer.SetDrawColor(bgColor.R, bgColor.G, bgColor.B, bgColor.A)
	renderer.Clear()
	renderer.RenderTexture(tex, nil, &dst)
	renderer.Present()

	for {
		var event sdl.Event
		if err := sdl.WaitEvent(&event); err != nil {
			break
		}
		if event.Type == sdl.EVENT_QUIT {
			return false
		}
		if event.Type == sdl.EVENT_KEY_DOWN {
			break
		}
	}
	return true
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, goerr.Wrap(err, "failed to open image", goerr.V("path", path))
	}
	defer f.Close()

	conf, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, goerr.Wrap(err, "failed to decode image header", goerr.V("path", path))
	}
	return conf.Width, conf.Height, nil
}

// ShowImage opens a window the size of the image at path and keeps it up
// until a key is pressed or the window is closed.
func ShowImage(path, title string) error {
	w, h, err := imageSize(path)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return goerr.Wrap(err, "SDL_Init failed")
	}
	defer sdl.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer(title, w, h, 0)
	if err != nil {
		return goerr.Wrap(err, "CreateWindowAndRenderer failed")
	}
	defer window.Destroy()
	defer renderer.Destroy()

	DisplaySplash(renderer, path, w, h, sdl.Color{R: 255, G: 255, B: 255, A: 255})
	return nil
}
