package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Input tracks key edges so holds do not retrigger one-shot actions.
type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Apply reads the keyboard and mutates the engine's knobs. This is the one
// writer of knob values; both render schedules only ever read them.
// Returns true when anything audio-relevant changed.
func (in *Input) Apply(window *glfw.Window, e *Engine, dt float64) bool {
	k := &e.Knobs
	changed := false

	// Continuous knobs: held arrow keys glide, no discontinuities.
	if window.GetKey(glfw.KeyRight) == glfw.Press {
		k.SetFreqScale(k.FreqScale * (1 + 0.8*dt))
		changed = true
	}
	if window.GetKey(glfw.KeyLeft) == glfw.Press {
		k.SetFreqScale(k.FreqScale / (1 + 0.8*dt))
		changed = true
	}
	if window.GetKey(glfw.KeyUp) == glfw.Press {
		k.SetFeedbackScale(k.FeedbackScale + 0.5*dt)
		changed = true
	}
	if window.GetKey(glfw.KeyDown) == glfw.Press {
		k.SetFeedbackScale(k.FeedbackScale - 0.5*dt)
		changed = true
	}
	if window.GetKey(glfw.KeyComma) == glfw.Press {
		k.SetDensity(k.Density - 0.8*dt)
	}
	if window.GetKey(glfw.KeyPeriod) == glfw.Press {
		k.SetDensity(k.Density + 0.8*dt)
	}
	if window.GetKey(glfw.KeyLeftBracket) == glfw.Press {
		k.SetExposure(k.Exposure - 0.8*dt)
	}
	if window.GetKey(glfw.KeyRightBracket) == glfw.Press {
		k.SetExposure(k.Exposure + 0.8*dt)
	}

	// Toggles.
	if in.JustPressed(window, glfw.KeyD) {
		k.Drift = !k.Drift
	}
	if in.JustPressed(window, glfw.KeyF) {
		k.Feedback = !k.Feedback
	}
	if in.JustPressed(window, glfw.KeyW) {
		k.Warp = !k.Warp
	}
	if in.JustPressed(window, glfw.KeyM) {
		k.Muted = !k.Muted
		changed = true
	}
	if in.JustPressed(window, glfw.KeyT) {
		e.SetStepClock(!e.StepClockEnabled())
	}

	// Percussion triggers.
	if in.JustPressed(window, glfw.Key1) {
		e.Audio().PlayPercussion(PercKick)
	}
	if in.JustPressed(window, glfw.Key2) {
		e.Audio().PlayPercussion(PercSnare)
	}
	if in.JustPressed(window, glfw.Key3) {
		e.Audio().PlayPercussion(PercHat)
	}

	return changed
}
