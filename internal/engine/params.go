package engine

import "math"

// DelayStageParams is one (delay, feedback) pair of the audio network.
type DelayStageParams struct {
	DelaySeconds float64
	FeedbackGain float64 // always < FeedbackCeiling
}

// ParameterRecord fully determines one rendering of the engine. It is
// immutable once sampled and replaced wholesale on reroll; every
// amplitude-like or feedback-like scalar in it is already clamped, and
// consumers clamp again at use time.
type ParameterRecord struct {
	// Oscillator core.
	BaseFrequency float64 // Hz, log-uniform; occasionally from a rare high band
	BasePhase     float64 // [0,1) cycles
	PhaseOffset   float64 // second branch phase offset, cycles

	// Harmonic mix per axis.
	SineWeightX float64
	TriWeightX  float64
	SineWeightY float64
	TriWeightY  float64

	// Geometry.
	Rotation float64 // radians
	Shear    float64

	// Detail layer: near 2x base, slightly detuned.
	DetailFreqRatio float64
	DetailMix       float64

	// Fill layer: very low relative frequency, macro breathing.
	FillFreqRatio float64
	FillMix       float64

	// Drift and phase modulation.
	DriftRate     float64 // cycles per second
	PhaseModRate  float64 // Hz
	PhaseModDepth float64 // cycles

	// Nonlinear cross-warp.
	WarpBase     float64
	WarpModRate  float64 // Hz
	WarpModPhase float64 // radians

	// Compositor self-projection transform, within convergence bounds.
	FeedZoom   float64 // relative scale deviation, |v| <= FeedbackZoomMax
	FeedRotate float64 // radians, |v| <= FeedbackRotMax
	FeedShiftX float64 // device pixels
	FeedShiftY float64

	// Audio voices and delay network.
	VoiceGainA  float64 // sine at BaseFrequency/16
	VoiceGainB  float64 // triangle at BaseFrequency/8
	VoiceGainC  float64 // detuned sine, may be 0
	VoiceDetune float64 // relative detune of voice C
	Stages      [3]DelayStageParams

	// Presentation.
	PaletteIndex int
	StepPattern  [8]bool // percussion step-clock triggers
}

// Frequency band weighting: most records land in the common band, a small
// fraction in a visually distinct high band.
const (
	rareBandChance = 0.12
	commonBandLo   = 440.0
	commonBandHi   = 3520.0
	rareBandLo     = 3520.0
	rareBandHi     = 7040.0
)

// SampleParameters draws a ParameterRecord from src. The draw order below is
// the contract: any two callers reading the same stream reconstruct the
// identical record. Never reorder or skip draws.
//
// Order: band choice, base frequency, base phase, phase offset, four mix
// weights (sineX, triX, sineY, triY), rotation, shear, detail detune, detail
// mix, fill ratio, fill mix, drift rate, phase-mod rate, phase-mod depth,
// warp base, warp mod rate, warp mod phase, four feedback-transform values,
// three voice gains, voice detune, three (delay, feedback) pairs, palette,
// eight step-pattern draws.
func SampleParameters(src RandomSource) *ParameterRecord {
	p := &ParameterRecord{}

	if chance(src, rareBandChance) {
		p.BaseFrequency = logUniformIn(src, rareBandLo, rareBandHi)
	} else {
		p.BaseFrequency = logUniformIn(src, commonBandLo, commonBandHi)
	}
	p.BasePhase = src.Next()
	p.PhaseOffset = uniformIn(src, 0.15, 0.45)

	p.SineWeightX = uniformIn(src, 0.6, 1.6)
	p.TriWeightX = uniformIn(src, 0.6, 1.6)
	p.SineWeightY = uniformIn(src, 0.6, 1.6)
	p.TriWeightY = uniformIn(src, 0.6, 1.6)

	p.Rotation = uniformIn(src, -0.35, 0.35)
	p.Shear = uniformIn(src, -0.25, 0.25)

	p.DetailFreqRatio = 2 * (1 + uniformIn(src, -0.001, 0.001))
	p.DetailMix = uniformIn(src, 0.10, 0.45)

	p.FillFreqRatio = logUniformIn(src, 0.003, 0.05)
	p.FillMix = uniformIn(src, 0.10, 0.40)

	p.DriftRate = uniformIn(src, 0.005, 0.04)
	p.PhaseModRate = uniformIn(src, 0.02, 0.20)
	p.PhaseModDepth = uniformIn(src, 0, 0.15)

	p.WarpBase = uniformIn(src, 0.15, 0.50)
	p.WarpModRate = uniformIn(src, 0.01, 0.08)
	p.WarpModPhase = uniformIn(src, 0, 2*math.Pi)

	p.FeedZoom = uniformIn(src, -FeedbackZoomMax, FeedbackZoomMax)
	p.FeedRotate = uniformIn(src, -FeedbackRotMax, FeedbackRotMax)
	p.FeedShiftX = uniformIn(src, -FeedbackShiftMax, FeedbackShiftMax)
	p.FeedShiftY = uniformIn(src, -FeedbackShiftMax, FeedbackShiftMax)

	p.VoiceGainA = uniformIn(src, 0.40, 0.80)
	p.VoiceGainB = uniformIn(src, 0.20, 0.60)
	p.VoiceGainC = uniformIn(src, 0, 0.35)
	p.VoiceDetune = uniformIn(src, -0.008, 0.008)
	for i := range p.Stages {
		p.Stages[i].DelaySeconds = logUniformIn(src, 0.06, 0.45)
		p.Stages[i].FeedbackGain = uniformIn(src, 0.55, 0.92)
	}

	p.PaletteIndex = int(src.Next() * float64(len(Palettes)))
	for i := range p.StepPattern {
		p.StepPattern[i] = chance(src, 0.45)
	}

	p.clampSampled()
	return p
}

// clampSampled enforces the record invariants at sample time. Use-time
// clamps exist independently in the field, compositor and network.
func (p *ParameterRecord) clampSampled() {
	p.BaseFrequency = clampF(p.BaseFrequency, FreqMin, FreqMax)
	p.BasePhase = wrap01(p.BasePhase)
	p.WarpBase = clampF(p.WarpBase, 0, WarpCeiling)
	p.FeedZoom = clampF(p.FeedZoom, -FeedbackZoomMax, FeedbackZoomMax)
	p.FeedRotate = clampF(p.FeedRotate, -FeedbackRotMax, FeedbackRotMax)
	p.FeedShiftX = clampF(p.FeedShiftX, -FeedbackShiftMax, FeedbackShiftMax)
	p.FeedShiftY = clampF(p.FeedShiftY, -FeedbackShiftMax, FeedbackShiftMax)
	p.VoiceGainA = clampF(p.VoiceGainA, 0, 1)
	p.VoiceGainB = clampF(p.VoiceGainB, 0, 1)
	p.VoiceGainC = clampF(p.VoiceGainC, 0, 1)
	for i := range p.Stages {
		if p.Stages[i].DelaySeconds < 0.001 {
			p.Stages[i].DelaySeconds = 0.001
		}
		p.Stages[i].FeedbackGain = clampF(p.Stages[i].FeedbackGain, 0, FeedbackCeiling-1e-9)
	}
	p.PaletteIndex = clamp(p.PaletteIndex, 0, len(Palettes)-1)
}
