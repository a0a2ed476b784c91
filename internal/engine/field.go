package engine

import "math"

// FieldMods carries the live-knob modifiers applied on top of a
// ParameterRecord when evaluating the field. Zero value means "no warp,
// unit frequency"; use DefaultFieldMods for the normal case.
type FieldMods struct {
	FreqScale float64 // live frequency multiplier, clamped on use
	Warp      bool    // nonlinear cross-coupling enabled
	WarpScale float64 // live warp scaling, capped at WarpCeiling
}

func DefaultFieldMods() FieldMods {
	return FieldMods{FreqScale: 1, WarpScale: 1}
}

// triangle is the canonical unit triangle wave over phase in [0,1).
func triangle(phase float64) float64 {
	return 1 - 4*math.Abs(wrap01(phase)-0.5)
}

// baseArgs returns the phase arguments of the two base-layer branches.
// The y branch runs at exactly twice the x frequency; this 1:2 ratio is
// structural and is never altered by reroll, warp, detail or fill.
func baseArgs(f, t, phi float64, p *ParameterRecord) (ax, ay float64) {
	ax = f*t + phi
	ay = 2*f*t + phi + p.PhaseOffset
	return
}

// warpStrength returns the effective cross-warp coupling at wall-clock time
// wc: the sampled base strength slowly modulated, scaled by the live knob,
// and capped so it can never exceed WarpCeiling.
func warpStrength(wc float64, p *ParameterRecord, scale float64) float64 {
	w := p.WarpBase * (0.5 + 0.5*math.Sin(2*math.Pi*p.WarpModRate*wc+p.WarpModPhase))
	return clampF(w*clampF(scale, 0, 2), 0, WarpCeiling)
}

// Field evaluates the 2D signal field at signal time t with the given drift
// phase and wall-clock time. Pure: all time dependence is explicit. Output
// is always inside [-1,1]^2 regardless of parameters.
func Field(t, driftPhase, wallClock float64, p *ParameterRecord, mods FieldMods) (float64, float64) {
	// Sane-band clamp before use: reroll may have sampled an extreme and the
	// live multiplier can push further.
	f := clampF(p.BaseFrequency*clampF(mods.FreqScale, FreqScaleMin, FreqScaleMax), FreqMin, FreqMax)

	// Phase modulation rides on the drift phase.
	pm := p.PhaseModDepth * math.Sin(2*math.Pi*p.PhaseModRate*wallClock)
	phi := p.BasePhase + driftPhase + pm

	// Base layer, 1:2 frequency ratio between the axes.
	ax, ay := baseArgs(f, t, phi, p)
	x := p.SineWeightX*math.Sin(2*math.Pi*ax) + p.TriWeightX*triangle(ax)
	y := p.SineWeightY*math.Sin(2*math.Pi*ay) + p.TriWeightY*triangle(ay)

	// Detail layer near 2f, slightly detuned. Texture only; it never feeds
	// back into the base phase arguments.
	df := f * p.DetailFreqRatio
	x += p.DetailMix * math.Sin(2*math.Pi*(df*t+phi))
	y += p.DetailMix * math.Sin(2*math.Pi*(df*t+phi+p.PhaseOffset))

	// Fill layer far below f: slow macro breathing of the overall shape.
	ff := f * p.FillFreqRatio
	x += p.FillMix * math.Sin(2*math.Pi*(ff*t+phi))
	y += p.FillMix * triangle(ff*t + phi)

	// Linear geometry: rotate then shear.
	c, s := math.Cos(p.Rotation), math.Sin(p.Rotation)
	x, y = c*x-s*y, s*x+c*y
	x += p.Shear * y

	// Optional nonlinear cross-warp. The tanh after the coupling is what
	// keeps the coupled pair bounded for any capped w.
	if mods.Warp {
		w := warpStrength(wallClock, p, mods.WarpScale)
		x, y = math.Tanh(x+w*y), math.Tanh(y-w*x)
	}

	// Contract: output in [-1,1]^2, always.
	return math.Tanh(x), math.Tanh(y)
}
