package engine

// DriftIntegrator accumulates the slow phase advance that gives the field
// its long-timescale evolution. Two states, Running and Paused; toggling
// between them never touches the accumulated phase, only whether future
// steps advance it. That is the component's whole contract: pause and
// resume are visually seamless.
type DriftIntegrator struct {
	phase   float64 // [0,1)
	rate    float64 // cycles per second
	running bool
}

func NewDriftIntegrator(rate float64) *DriftIntegrator {
	return &DriftIntegrator{rate: rate, running: true}
}

// Step advances the phase by rate*elapsed while Running. Elapsed time is
// clamped to MaxDriftStep so a paused or backgrounded host resumes smoothly
// rather than applying one huge delta.
func (d *DriftIntegrator) Step(elapsedSeconds float64) {
	if !d.running {
		return
	}
	d.phase = wrap01(d.phase + d.rate*clampF(elapsedSeconds, 0, MaxDriftStep))
}

func (d *DriftIntegrator) SetRunning(running bool) { d.running = running }

func (d *DriftIntegrator) Running() bool { return d.running }

func (d *DriftIntegrator) Phase() float64 { return d.phase }

// Reset zeroes the phase and installs a new rate. Called on reroll only;
// the caller must also reset its elapsed-time reference so the next Step
// does not receive a stale delta.
func (d *DriftIntegrator) Reset(rate float64) {
	d.phase = 0
	d.rate = rate
}
