package engine

import (
	"fmt"
	"image"
)

// Engine is one running instance: the current ParameterRecord, the drift
// integrator, the compositor, the audio system and the live knobs. The host
// constructs it explicitly and drives Tick from its frame clock; there are
// no package-level singletons.
type Engine struct {
	Seed   string
	Params *ParameterRecord
	Knobs  Knobs

	drift *DriftIntegrator
	comp  *Compositor
	audio *AudioSystem // nil when the device was unavailable

	lastTick float64
	hasTick  bool

	steps *stepClock
}

// NewEngine samples parameters for seed and builds the visual path. Audio
// is attached separately so an unavailable device degrades to visuals only.
func NewEngine(seed string, w, h int) *Engine {
	p := SampleParameters(NewStream(seed))
	return &Engine{
		Seed:   seed,
		Params: p,
		Knobs:  DefaultKnobs(),
		drift:  NewDriftIntegrator(p.DriftRate),
		comp:   NewCompositor(w, h, splitmix64(uint64(stringSeed(seed)))),
		steps:  newStepClock(p),
	}
}

// AttachAudio hands the engine an acquired audio system and starts the
// network for the current record.
func (e *Engine) AttachAudio(a *AudioSystem) {
	e.audio = a
	if a != nil {
		a.Start(e.Params, e.Knobs)
	}
}

func (e *Engine) Audio() *AudioSystem { return e.audio }

func (e *Engine) Compositor() *Compositor { return e.comp }

func (e *Engine) Drift() *DriftIntegrator { return e.drift }

// Tick advances one visual frame at wall-clock time now (seconds). The
// first call only establishes the time reference.
func (e *Engine) Tick(now float64) {
	if !e.hasTick {
		e.lastTick = now
		e.hasTick = true
		return
	}
	dt := now - e.lastTick
	e.lastTick = now
	if dt < 0 {
		dt = 0
	}

	e.drift.SetRunning(e.Knobs.Drift)
	e.drift.Step(dt)

	e.comp.Tick(e.Params, CompositorTick{
		DriftPhase: e.drift.Phase(),
		WallClock:  now,
		Samples:    e.Knobs.SampleCount(),
		Feedback:   e.Knobs.Feedback,
		Strength:   clampF(e.Knobs.FeedbackScale, 0, 1),
		Exposure:   e.Knobs.Exposure,
		Mods:       e.Knobs.FieldMods(),
	})

	if e.steps.enabled {
		for _, kind := range e.steps.advance(dt) {
			if e.audio != nil {
				e.audio.PlayPercussion(kind)
			}
		}
	}
}

// ApplyKnobs pushes the current knob values into the audio network. Called
// by the input handler after it mutates knobs; the visual path reads knobs
// directly each tick.
func (e *Engine) ApplyKnobs() {
	net := e.audio.Network()
	if net == nil {
		return
	}
	net.SetFrequencyScale(e.Knobs.FreqScale)
	net.SetFeedbackScale(e.Knobs.FeedbackScale)
	net.SetMuted(e.Knobs.Muted)
}

// Reroll replaces the ParameterRecord wholesale from a fresh seed, resets
// the drift integrator and its time reference, clears the raster, and
// restarts the audio graph. The old record is simply dropped; anything
// mid-tick finishes against the reference it already holds.
func (e *Engine) Reroll(seed string) {
	e.RerollFrom(seed, NewStream(seed))
}

// RerollFrom rerolls using an externally supplied random source. The seed
// string is kept for display only; determinism rests on the source.
func (e *Engine) RerollFrom(seed string, src RandomSource) {
	e.Seed = seed
	e.Params = SampleParameters(src)
	e.drift.Reset(e.Params.DriftRate)
	e.hasTick = false
	e.comp.Clear()
	stepsOn := e.steps.enabled
	e.steps = newStepClock(e.Params)
	e.steps.enabled = stepsOn
	if e.audio != nil {
		e.audio.Start(e.Params, e.Knobs)
	}
}

// Resize reallocates the raster for a new output size (hard clear).
func (e *Engine) Resize(w, h int) {
	cw, ch := e.comp.Size()
	if w == cw && h == ch {
		return
	}
	e.comp.Resize(w, h)
}

// Palette returns the record's gradient.
func (e *Engine) Palette() Gradient {
	return Palettes[clamp(e.Params.PaletteIndex, 0, len(Palettes)-1)]
}

// Snapshot renders the current raster through the record's palette.
func (e *Engine) Snapshot() *image.NRGBA {
	return e.comp.Snapshot(e.Palette())
}

// Diagnostics is the one-line textual state for display: seed, derived
// audio frequency, drift phase, feedback strength and the measured dominant
// output frequency.
func (e *Engine) Diagnostics() string {
	derived := clampF(e.Params.BaseFrequency*e.Knobs.FreqScale, FreqMin, FreqMax) / 16
	line := fmt.Sprintf("seed %s | f %.1fHz | drift %.3f | fb %.2f | %s",
		e.Seed, derived, e.drift.Phase(), e.Knobs.FeedbackScale, e.Palette().Name)
	if e.audio != nil {
		if hz := e.audio.DominantHz(); hz > 0 {
			line += fmt.Sprintf(" | out %.1fHz", hz)
		}
	} else {
		line += " | audio unavailable"
	}
	return line
}

// SetStepClock enables or disables the percussion step clock.
func (e *Engine) SetStepClock(on bool) { e.steps.enabled = on }

// StepClockEnabled reports whether the step clock is firing.
func (e *Engine) StepClockEnabled() bool { return e.steps.enabled }

// stepClock turns the record's eight-step pattern into discrete percussion
// events. Peripheral by design: it only fires events, it owns no audio
// state. Tempo derives from the record so rerolls change the feel.
type stepClock struct {
	enabled bool
	pattern [8]bool
	period  float64
	acc     float64
	pos     int
}

func newStepClock(p *ParameterRecord) *stepClock {
	// One step per eighth of a bar at a tempo tied to the audio base
	// frequency's octave position: lower drones get slower patterns.
	period := clampF(7.5/(p.BaseFrequency/16), 0.12, 0.6)
	return &stepClock{pattern: p.StepPattern, period: period}
}

func (s *stepClock) advance(dt float64) []PercussionKind {
	var fired []PercussionKind
	// A stalled host clock catches up by at most two steps, never a burst.
	s.acc += clampF(dt, 0, 2*s.period)
	for s.acc >= s.period {
		s.acc -= s.period
		if s.pattern[s.pos] {
			switch s.pos % 4 {
			case 0:
				fired = append(fired, PercKick)
			case 2:
				fired = append(fired, PercSnare)
			default:
				fired = append(fired, PercHat)
			}
		}
		s.pos = (s.pos + 1) % len(s.pattern)
	}
	return fired
}
