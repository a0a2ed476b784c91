package engine

import "math"

// The audio side of the engine: two or three oscillator voices summed into a
// chain of three delay stages. Every stage closes its own feedback loop
// through a tanh saturator, so with feedback gain below FeedbackCeiling the
// loop is a small-signal contraction and large signals cannot grow past the
// saturator either way.
//
// All live mutation goes through one-pole ramps; nothing in here is ever
// assigned a new audible value instantaneously.

// saturate bounds a feedback loop: tanh(2*drive*x).
func saturate(x, drive float64) float64 {
	return math.Tanh(2 * drive * x)
}

// ramp is a one-pole exponential smoother toward a target value.
type ramp struct {
	cur, target float64
	coeff       float64
}

func newRamp(initial, tau, sampleRate float64) ramp {
	return ramp{
		cur:    initial,
		target: initial,
		coeff:  1 - math.Exp(-1/(tau*sampleRate)),
	}
}

func (r *ramp) set(target float64) { r.target = target }

func (r *ramp) step() float64 {
	r.cur += (r.target - r.cur) * r.coeff
	return r.cur
}

// Voice shapes.
const (
	voiceSine = iota
	voiceTriangle
)

// voice is one oscillator with a smoothed frequency.
type voice struct {
	shape int
	freq  ramp
	gain  float64
	phase float64
}

func (v *voice) sample(sampleRate float64) float64 {
	v.phase = wrap01(v.phase + v.freq.step()/sampleRate)
	switch v.shape {
	case voiceTriangle:
		return v.gain * triangle(v.phase)
	default:
		return v.gain * math.Sin(2*math.Pi*v.phase)
	}
}

// delayStage is one closed loop: the delayed sample, scaled by the smoothed
// feedback gain and summed with fresh input, passes through the saturator
// before re-entering the line. The stored value therefore always lies in
// (-1,1), which is what the stage-boundedness property tests.
type delayStage struct {
	buf      []float64
	i        int
	feedback ramp
	drive    float64
}

func newDelayStage(delaySeconds, feedbackGain, sampleRate float64) *delayStage {
	n := int(delaySeconds * sampleRate)
	if n < 1 {
		n = 1
	}
	return &delayStage{
		buf:      make([]float64, n),
		feedback: newRamp(clampF(feedbackGain, 0, FeedbackCeiling), RampTau, sampleRate),
		drive:    MasterDrive,
	}
}

func (s *delayStage) process(x float64) float64 {
	delayed := s.buf[s.i]
	s.buf[s.i] = saturate(x+s.feedback.step()*delayed, s.drive)
	s.i++
	if s.i == len(s.buf) {
		s.i = 0
	}
	return delayed
}

// Network is the three-stage feedback-delay network plus its voices. It owns
// all live oscillator and delay state; construction wires the stage chain
// explicitly, and the only mutations after that are ramp targets.
type Network struct {
	sampleRate float64
	voices     []*voice
	stages     []*delayStage
	baseFreqs  []float64 // per-voice unscaled frequencies
	baseFeeds  []float64 // per-stage unscaled feedback gains
	pregain    float64
	outGain    ramp
}

// NewNetwork builds the audio graph for one ParameterRecord. The derived
// voice frequencies sit four octaves below the visual base frequency.
func NewNetwork(p *ParameterRecord, sampleRate float64) *Network {
	n := &Network{
		sampleRate: sampleRate,
		pregain:    0.55,
		outGain:    newRamp(1, RampTau, sampleRate),
	}

	fa := clampF(p.BaseFrequency, FreqMin, FreqMax) / 16
	n.addVoice(voiceSine, fa, p.VoiceGainA)
	n.addVoice(voiceTriangle, fa*2, p.VoiceGainB)
	if p.VoiceGainC > 0.01 {
		n.addVoice(voiceSine, fa*(1+p.VoiceDetune), p.VoiceGainC)
	}

	for _, sp := range p.Stages {
		n.connectStage(sp.DelaySeconds, sp.FeedbackGain)
	}
	return n
}

func (n *Network) addVoice(shape int, freq, gain float64) {
	n.voices = append(n.voices, &voice{
		shape: shape,
		freq:  newRamp(freq, RampTau, n.sampleRate),
		gain:  clampF(gain, 0, 1),
	})
	n.baseFreqs = append(n.baseFreqs, freq)
}

// connectStage appends a stage to the serial chain: its delay output feeds
// the next stage's input, while its own feedback loop stays local.
func (n *Network) connectStage(delaySeconds, feedbackGain float64) {
	fb := clampF(feedbackGain, 0, FeedbackCeiling)
	n.stages = append(n.stages, newDelayStage(delaySeconds, fb, n.sampleRate))
	n.baseFeeds = append(n.baseFeeds, fb)
}

// SetFrequencyScale retargets every voice ramp. The guard band is wide
// enough that the voices keep their frequency ratios at any legal scale;
// it only catches pathological base frequencies.
func (n *Network) SetFrequencyScale(scale float64) {
	scale = clampF(scale, FreqScaleMin, FreqScaleMax)
	for i, v := range n.voices {
		v.freq.set(clampF(n.baseFreqs[i]*scale, FreqMin/16, FreqMax/2))
	}
}

// SetFeedbackScale retargets every stage's feedback gain, never past the
// ceiling regardless of the knob value.
func (n *Network) SetFeedbackScale(scale float64) {
	scale = clampF(scale, FeedScaleMin, FeedScaleMax)
	for i, s := range n.stages {
		s.feedback.set(clampF(n.baseFeeds[i]*scale, 0, FeedbackCeiling))
	}
}

// SetMuted ramps the output gain rather than cutting the stream, so there is
// no click on either edge.
func (n *Network) SetMuted(muted bool) {
	if muted {
		n.outGain.set(0)
	} else {
		n.outGain.set(1)
	}
}

// ProcessSample produces one mono output sample.
func (n *Network) ProcessSample() float64 {
	var sum float64
	for _, v := range n.voices {
		sum += v.sample(n.sampleRate)
	}
	x := sum * n.pregain

	for _, s := range n.stages {
		x = s.process(x)
	}

	return saturate(x, MasterDrive) * n.outGain.step()
}

// VoiceFrequency reports the current (ramped) frequency of voice i, for
// diagnostics.
func (n *Network) VoiceFrequency(i int) float64 {
	if i < 0 || i >= len(n.voices) {
		return 0
	}
	return n.voices[i].freq.cur
}
