// Package sdlinput feeds SDL2 events into the editor's input state.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tileforge/internal/editor"
	"github.com/Faultbox/tileforge/internal/input"
)

var scancodes = map[sdl.Scancode]editor.Key{
	sdl.SCANCODE_LCTRL:     editor.KeyCtrl,
	sdl.SCANCODE_RCTRL:     editor.KeyCtrl,
	sdl.SCANCODE_LGUI:      editor.KeyCtrl, // Cmd on macOS
	sdl.SCANCODE_RGUI:      editor.KeyCtrl,
	sdl.SCANCODE_LSHIFT:    editor.KeyShift,
	sdl.SCANCODE_RSHIFT:    editor.KeyShift,
	sdl.SCANCODE_LALT:      editor.KeyAlt,
	sdl.SCANCODE_RALT:      editor.KeyAlt,
	sdl.SCANCODE_ESCAPE:    editor.KeyEscape,
	sdl.SCANCODE_DELETE:    editor.KeyDelete,
	sdl.SCANCODE_BACKSPACE: editor.KeyDelete,
	sdl.SCANCODE_A:         editor.KeyA,
	sdl.SCANCODE_E:         editor.KeyE,
	sdl.SCANCODE_F:         editor.KeyF,
	sdl.SCANCODE_G:         editor.KeyG,
	sdl.SCANCODE_H:         editor.KeyH,
	sdl.SCANCODE_I:         editor.KeyI,
	sdl.SCANCODE_L:         editor.KeyL,
	sdl.SCANCODE_M:         editor.KeyM,
	sdl.SCANCODE_P:         editor.KeyP,
	sdl.SCANCODE_Q:         editor.KeyQ,
	sdl.SCANCODE_R:         editor.KeyR,
	sdl.SCANCODE_S:         editor.KeyS,
	sdl.SCANCODE_U:         editor.KeyU,
	sdl.SCANCODE_X:         editor.KeyX,
	sdl.SCANCODE_Y:         editor.KeyY,
	sdl.SCANCODE_Z:         editor.KeyZ,
	sdl.SCANCODE_1:         editor.Key1,
	sdl.SCANCODE_2:         editor.Key2,
	sdl.SCANCODE_3:         editor.Key3,
	sdl.SCANCODE_4:         editor.Key4,
	sdl.SCANCODE_LEFT:      editor.KeyLeft,
	sdl.SCANCODE_RIGHT:     editor.KeyRight,
	sdl.SCANCODE_UP:        editor.KeyUp,
	sdl.SCANCODE_DOWN:      editor.KeyDown,
	sdl.SCANCODE_PAGEUP:    editor.KeyPageUp,
	sdl.SCANCODE_PAGEDOWN:  editor.KeyPageDown,
}

var buttons = map[uint8]editor.Button{
	sdl.BUTTON_LEFT:   editor.ButtonLeft,
	sdl.BUTTON_MIDDLE: editor.ButtonMiddle,
	sdl.BUTTON_RIGHT:  editor.ButtonRight,
}

// Input pumps the SDL event queue once per frame.
type Input struct {
	input.State

	resized       bool
	width, height int32
}

// New creates an input pump.
func New() *Input {
	return &Input{}
}

// Update drains pending SDL events into the state for a new frame.
// Returns true if the window should close.
func (i *Input) Update() bool {
	i.BeginFrame()
	i.resized = false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				i.resized = true
				i.width, i.height = e.Data1, e.Data2
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.ReleaseAll()
			}

		case *sdl.KeyboardEvent:
			if k, ok := scancodes[e.Keysym.Scancode]; ok {
				i.SetKey(k, e.Type == sdl.KEYDOWN)
			}

		case *sdl.MouseMotionEvent:
			i.MoveMouse(float32(e.X), float32(e.Y))

		case *sdl.MouseButtonEvent:
			if b, ok := buttons[e.Button]; ok {
				i.MoveMouse(float32(e.X), float32(e.Y))
				i.SetButton(b, e.State == sdl.PRESSED)
			}

		case *sdl.MouseWheelEvent:
			i.AddScroll(float32(e.Y))
		}
	}

	return false
}

// Resized reports a window size change during the last Update.
func (i *Input) Resized() (w, h int32, ok bool) {
	return i.width, i.height, i.resized
}
