// Package input tracks mouse and keyboard state across frames and serves it
// to the editor session.
package input

import (
	"github.com/Faultbox/tileforge/internal/editor"
	"github.com/Faultbox/tileforge/pkg/math"
)

const buttonCount = int(editor.ButtonRight) + 1

// State accumulates input events between frames. Call BeginFrame before
// feeding a frame's events; edge flags then describe that frame only.
type State struct {
	mouse     math.Vec2
	lastMouse math.Vec2
	scroll    float32

	buttons  [buttonCount]bool
	pressed  [buttonCount]bool
	released [buttonCount]bool

	keys        [editor.KeyCount]bool
	keysPressed [editor.KeyCount]bool
}

// BeginFrame clears the per-frame edges and deltas.
func (s *State) BeginFrame() {
	s.lastMouse = s.mouse
	s.scroll = 0
	s.pressed = [buttonCount]bool{}
	s.released = [buttonCount]bool{}
	s.keysPressed = [editor.KeyCount]bool{}
}

// MoveMouse records the cursor position in window pixels.
func (s *State) MoveMouse(x, y float32) {
	s.mouse = math.Vec2{X: x, Y: y}
}

// SetButton records a button transition.
func (s *State) SetButton(b editor.Button, down bool) {
	if int(b) < 0 || int(b) >= buttonCount || s.buttons[b] == down {
		return
	}
	s.buttons[b] = down
	if down {
		s.pressed[b] = true
	} else {
		s.released[b] = true
	}
}

// SetKey records a key transition. Auto-repeat downs are not new presses.
func (s *State) SetKey(k editor.Key, down bool) {
	if k <= editor.KeyUnknown || k >= editor.KeyCount {
		return
	}
	if down && !s.keys[k] {
		s.keysPressed[k] = true
	}
	s.keys[k] = down
}

// AddScroll accumulates wheel movement, positive away from the user.
func (s *State) AddScroll(dy float32) {
	s.scroll += dy
}

// ReleaseAll drops every held button and key, e.g. on focus loss.
func (s *State) ReleaseAll() {
	for b := range s.buttons {
		s.SetButton(editor.Button(b), false)
	}
	s.keys = [editor.KeyCount]bool{}
}

func (s *State) MousePosition() math.Vec2 { return s.mouse }
func (s *State) MouseDelta() math.Vec2    { return s.mouse.Sub(s.lastMouse) }
func (s *State) Scroll() float32          { return s.scroll }

func (s *State) ButtonDown(b editor.Button) bool     { return s.button(b, &s.buttons) }
func (s *State) ButtonPressed(b editor.Button) bool  { return s.button(b, &s.pressed) }
func (s *State) ButtonReleased(b editor.Button) bool { return s.button(b, &s.released) }

func (s *State) KeyDown(k editor.Key) bool    { return s.key(k, &s.keys) }
func (s *State) KeyPressed(k editor.Key) bool { return s.key(k, &s.keysPressed) }

func (s *State) button(b editor.Button, set *[buttonCount]bool) bool {
	return int(b) >= 0 && int(b) < buttonCount && set[b]
}

func (s *State) key(k editor.Key, set *[editor.KeyCount]bool) bool {
	return k > editor.KeyUnknown && k < editor.KeyCount && set[k]
}

var _ editor.Input = (*State)(nil)
