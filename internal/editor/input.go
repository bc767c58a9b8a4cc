package editor

import "github.com/Faultbox/tileforge/pkg/math"

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Key is a keyboard key the editor reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyCtrl
	KeyShift
	KeyAlt
	KeyEscape
	KeyDelete
	KeyA
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyL
	KeyM
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyU
	KeyX
	KeyY
	KeyZ
	Key1
	Key2
	Key3
	Key4
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown

	KeyCount
)

// Input is the per-frame input state the session consumes. Pressed and
// Released are edge-triggered for the current frame only.
type Input interface {
	MousePosition() math.Vec2
	MouseDelta() math.Vec2
	ButtonDown(b Button) bool
	ButtonPressed(b Button) bool
	ButtonReleased(b Button) bool
	Scroll() float32
	KeyDown(k Key) bool
	KeyPressed(k Key) bool
}
