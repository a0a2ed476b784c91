package engine

import "math"

// Knobs are the live control scalars shared by the visual and audio
// schedules. They are plain values written whole by the single input-handling
// goroutine and read by both consumers; no partial mutation, no locking.
// Malformed values (NaN, Inf, out of range) keep the last known good value
// instead of ever reaching a feedback path.
type Knobs struct {
	FreqScale     float64 // oscillator/field frequency multiplier
	FeedbackScale float64 // audio feedback and visual feedback strength
	Density       float64 // visual samples per tick multiplier
	Exposure      float64 // stamp brightness multiplier

	Drift    bool // drift integrator running
	Feedback bool // visual self-projection enabled
	Warp     bool // nonlinear cross-warp enabled
	Muted    bool // audio output gain ramped to zero
}

func DefaultKnobs() Knobs {
	return Knobs{
		FreqScale:     1,
		FeedbackScale: 0.6,
		Density:       1,
		Exposure:      1,
		Drift:         true,
		Feedback:      true,
	}
}

// sanitize replaces a malformed candidate with the previous value and
// clamps the result into [lo,hi]. The tick loop must never see NaN.
func sanitize(v, prev, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = prev
	}
	return clampF(v, lo, hi)
}

func (k *Knobs) SetFreqScale(v float64) {
	k.FreqScale = sanitize(v, k.FreqScale, FreqScaleMin, FreqScaleMax)
}

func (k *Knobs) SetFeedbackScale(v float64) {
	k.FeedbackScale = sanitize(v, k.FeedbackScale, FeedScaleMin, FeedScaleMax)
}

func (k *Knobs) SetDensity(v float64) {
	k.Density = sanitize(v, k.Density, DensityMin, DensityMax)
}

func (k *Knobs) SetExposure(v float64) {
	k.Exposure = sanitize(v, k.Exposure, ExposureMin, ExposureMax)
}

// SampleCount converts the density knob into this tick's stamp budget.
func (k *Knobs) SampleCount() int {
	return int(float64(DefaultDensity) * k.Density)
}

// FieldMods bundles the knob state the field evaluator needs.
func (k *Knobs) FieldMods() FieldMods {
	return FieldMods{FreqScale: k.FreqScale, Warp: k.Warp, WarpScale: 1}
}
