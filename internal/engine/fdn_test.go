package engine

import (
	"math"
	"testing"
)

func TestSaturateBounds(t *testing.T) {
	for _, x := range []float64{-1e9, -100, -1, -0.1, 0, 0.1, 1, 100, 1e9} {
		y := saturate(x, MasterDrive)
		if math.Abs(y) >= 1 {
			t.Fatalf("saturate(%v) = %v, must stay inside (-1,1)", x, y)
		}
	}
	if saturate(0, MasterDrive) != 0 {
		t.Fatal("saturate must pass zero through")
	}
}

func TestDelayStageBounded(t *testing.T) {
	// Spec of the closed loop: for any feedback below the ceiling and any
	// bounded input, 10,000 iterations never push the output past 1.
	s := newDelayStage(0.002, 0.949, SampleRate)
	rng := NewRand(0xD11A7)
	for i := 0; i < 10000; i++ {
		x := rng.RangeF(-1, 1)
		y := s.process(x)
		if math.Abs(y) > 1 {
			t.Fatalf("iteration %d: stage output %v exceeded 1", i, y)
		}
	}
}

func TestDelayStageBoundedAtCeilingWithDC(t *testing.T) {
	// Worst case: constant full-scale input and ceiling feedback.
	s := newDelayStage(0.001, FeedbackCeiling, SampleRate)
	for i := 0; i < 10000; i++ {
		if y := s.process(1.0); math.Abs(y) > 1 {
			t.Fatalf("iteration %d: output %v exceeded 1", i, y)
		}
	}
}

func TestNetworkOutputBounded(t *testing.T) {
	p := SampleParameters(NewStream("fdnbound"))
	n := NewNetwork(p, SampleRate)
	n.SetFeedbackScale(FeedScaleMax)
	for i := 0; i < SampleRate; i++ { // one full second
		if s := n.ProcessSample(); math.Abs(s) > 1 {
			t.Fatalf("sample %d: network output %v exceeded 1", i, s)
		}
	}
}

func TestNetworkVoiceCount(t *testing.T) {
	p := SampleParameters(NewStream("voices"))
	p2 := *p
	p2.VoiceGainC = 0
	if got := len(NewNetwork(&p2, SampleRate).voices); got != 2 {
		t.Fatalf("zero detune gain should build 2 voices, got %d", got)
	}
	p2.VoiceGainC = 0.3
	if got := len(NewNetwork(&p2, SampleRate).voices); got != 3 {
		t.Fatalf("expected 3 voices, got %d", got)
	}
}

func TestFrequencyScaleRampsSmoothly(t *testing.T) {
	p := SampleParameters(NewStream("ramp"))
	n := NewNetwork(p, SampleRate)
	start := n.VoiceFrequency(0)

	n.SetFrequencyScale(2)
	n.ProcessSample()
	afterOne := n.VoiceFrequency(0)
	target := n.baseFreqs[0] * 2

	// One sample must move the frequency, but nowhere near the target:
	// the change is a smoothed ramp, not a replacement.
	if afterOne == start {
		t.Fatal("frequency did not begin ramping")
	}
	if math.Abs(afterOne-target) < math.Abs(target-start)*0.5 {
		t.Fatalf("frequency jumped: %v -> %v toward %v in one sample", start, afterOne, target)
	}

	// After ~10 time constants it has effectively arrived.
	for i := 0; i < int(10*RampTau*SampleRate); i++ {
		n.ProcessSample()
	}
	if math.Abs(n.VoiceFrequency(0)-target) > math.Abs(target)*0.01 {
		t.Fatalf("frequency %v never settled at %v", n.VoiceFrequency(0), target)
	}
}

func TestFeedbackScaleNeverExceedsCeiling(t *testing.T) {
	p := SampleParameters(NewStream("fbclamp"))
	n := NewNetwork(p, SampleRate)
	n.SetFeedbackScale(1e6) // sanitized by the network regardless of knob bugs
	for i, s := range n.stages {
		if s.feedback.target > FeedbackCeiling {
			t.Fatalf("stage %d feedback target %v above ceiling", i, s.feedback.target)
		}
	}
}

func TestMuteRampsInsteadOfCutting(t *testing.T) {
	p := SampleParameters(NewStream("mute"))
	n := NewNetwork(p, SampleRate)

	// Warm the graph up so there is signal flowing.
	for i := 0; i < SampleRate/2; i++ {
		n.ProcessSample()
	}

	n.SetMuted(true)
	if n.outGain.cur == 0 {
		t.Fatal("mute zeroed the gain instantly")
	}

	// Gain must decay monotonically toward zero without a discontinuity.
	prev := n.outGain.cur
	for i := 0; i < SampleRate/10; i++ {
		n.ProcessSample()
		g := n.outGain.cur
		if g > prev+1e-12 {
			t.Fatalf("mute ramp reversed at sample %d", i)
		}
		prev = g
	}
	if prev > 0.01 {
		t.Fatalf("gain only reached %v after 100ms of mute ramp", prev)
	}

	n.SetMuted(false)
	for i := 0; i < SampleRate/10; i++ {
		n.ProcessSample()
	}
	if n.outGain.cur < 0.9 {
		t.Fatalf("unmute ramp stalled at %v", n.outGain.cur)
	}
}

func TestRampConvergence(t *testing.T) {
	r := newRamp(0, RampTau, SampleRate)
	r.set(1)
	steps := int(5 * RampTau * SampleRate)
	for i := 0; i < steps; i++ {
		r.step()
	}
	if r.cur < 0.98 {
		t.Fatalf("ramp at %v after five time constants", r.cur)
	}
}
