package engine

import (
	"fmt"
	"math"
	"testing"
)

func TestStreamDeterminism(t *testing.T) {
	a := NewStream("abc|0")
	b := NewStream("abc|0")
	for i := 0; i < 10000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, va)
		}
	}
}

func TestStreamSeedsDiffer(t *testing.T) {
	a := NewStream("abc|0")
	b := NewStream("abc|1")
	same := 0
	for i := 0; i < 100; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same > 2 {
		t.Fatalf("distinct seeds produced %d/100 identical draws", same)
	}
}

func TestSampleParametersDeterminism(t *testing.T) {
	p1 := SampleParameters(NewStream("abc|0"))
	p2 := SampleParameters(NewStream("abc|0"))
	if *p1 != *p2 {
		t.Fatalf("identical seeds produced different records:\n%+v\n%+v", p1, p2)
	}

	p3 := SampleParameters(NewStream("abc|1"))
	if p1.BaseFrequency == p3.BaseFrequency && p1.Rotation == p3.Rotation {
		t.Fatal("different seeds produced an identical-looking record")
	}
}

func TestSampledRanges(t *testing.T) {
	for i := 0; i < 2000; i++ {
		p := SampleParameters(NewStream(fmt.Sprintf("range|%d", i)))

		if p.BaseFrequency < FreqMin || p.BaseFrequency > FreqMax {
			t.Fatalf("seed %d: base frequency %v outside band", i, p.BaseFrequency)
		}
		if p.BasePhase < 0 || p.BasePhase >= 1 {
			t.Fatalf("seed %d: base phase %v outside [0,1)", i, p.BasePhase)
		}
		if p.WarpBase > WarpCeiling {
			t.Fatalf("seed %d: warp base %v above ceiling", i, p.WarpBase)
		}
		if math.Abs(p.FeedZoom) > FeedbackZoomMax || math.Abs(p.FeedRotate) > FeedbackRotMax {
			t.Fatalf("seed %d: feedback transform outside convergence bounds: %+v", i, p)
		}
		if p.DetailFreqRatio < 1.99 || p.DetailFreqRatio > 2.01 {
			t.Fatalf("seed %d: detail ratio %v strayed from 2", i, p.DetailFreqRatio)
		}
		if p.FillFreqRatio >= 0.1 {
			t.Fatalf("seed %d: fill ratio %v not << 1", i, p.FillFreqRatio)
		}
		for s, st := range p.Stages {
			if st.FeedbackGain >= FeedbackCeiling {
				t.Fatalf("seed %d stage %d: feedback %v not below ceiling", i, s, st.FeedbackGain)
			}
			if st.DelaySeconds <= 0 {
				t.Fatalf("seed %d stage %d: nonpositive delay", i, s)
			}
		}
		if p.PaletteIndex < 0 || p.PaletteIndex >= len(Palettes) {
			t.Fatalf("seed %d: palette index %d out of range", i, p.PaletteIndex)
		}
	}
}

func TestRareBandWeighting(t *testing.T) {
	rare := 0
	n := 5000
	for i := 0; i < n; i++ {
		p := SampleParameters(NewStream(fmt.Sprintf("band|%d", i)))
		if p.BaseFrequency > commonBandHi {
			rare++
		}
	}
	frac := float64(rare) / float64(n)
	// Weighted roughly 88/12; the sequence is deterministic so the band is tight.
	if frac < 0.08 || frac > 0.16 {
		t.Fatalf("rare band fraction %.3f outside expected range", frac)
	}
}

func TestLogUniformSpreadsOctaves(t *testing.T) {
	s := NewStream("log")
	low, high := 0, 0
	for i := 0; i < 4000; i++ {
		v := logUniformIn(s, 100, 400)
		if v < 100 || v > 400 {
			t.Fatalf("log-uniform draw %v outside [100,400]", v)
		}
		if v < 200 {
			low++
		} else {
			high++
		}
	}
	// Log-uniform over two octaves splits evenly at the geometric midpoint,
	// so each octave gets about half the mass.
	frac := float64(low) / 4000
	if frac < 0.44 || frac > 0.56 {
		t.Fatalf("lower octave fraction %.3f; log spread looks wrong", frac)
	}
}
