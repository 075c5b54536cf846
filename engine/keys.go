package engine

import (
	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/NavuFrank/The-Quantized-Observer/session"
)

var keymap = map[sdl.Keycode]session.Key{
	sdl.K_ESCAPE:    session.KeyQuit,
	sdl.K_UP:        session.KeyUp,
	sdl.K_DOWN:      session.KeyDown,
	sdl.K_T:         session.KeyStartTrial,
	sdl.K_SPACE:     session.KeyToggleLoad,
	sdl.K_Y:         session.KeyYes,
	sdl.K_N:         session.KeyNo,
	sdl.K_M:         session.KeyManual,
	sdl.K_RETURN:    session.KeyLog,
	sdl.K_KP_ENTER:  session.KeyLog,
	sdl.K_BACKSPACE: session.KeyBackspace,
	sdl.K_TAB:       session.KeyNewProblem,
}

// MapKey translates a key press. Digits are not mapped here; they arrive as
// text input events.
func MapKey(k sdl.Keycode) session.Key {
	if key, ok := keymap[k]; ok {
		return key
	}
	return session.KeyNone
}
