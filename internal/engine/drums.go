package engine

import "math"

// One-shot percussion synthesis. Each generator returns a complete stereo
// float32 LE buffer ready for a short-lived player.

// PercussionKind identifies the percussive events the step clock can fire.
type PercussionKind int

const (
	PercKick PercussionKind = iota
	PercSnare
	PercHat
)

// softSat applies gentle tanh-like saturation, no harsh clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// makeBuf allocates a stereo float32 buffer for n samples.
func makeBuf(n int) []byte { return make([]byte, n*8) }

func generatePercussion(kind PercussionKind) []byte {
	switch kind {
	case PercKick:
		return genKick()
	case PercSnare:
		return genSnare()
	case PercHat:
		return genHat()
	}
	return nil
}

// genKick: pitch-swept sine body with a transient click.
func genKick() []byte {
	n := int(0.22 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		phase := 2 * math.Pi * 185 / 12.5 * (1 - math.Exp(-t*12.5))
		body := math.Sin(phase) * math.Exp(-t*18.0) * 0.80
		click := math.Sin(2*math.Pi*2100*t) * math.Exp(-t*250.0) * 0.24
		putStereoF32(buf, i, softSat(body+click))
	}
	return buf
}

// genSnare: short tonal body under band-limited noise.
func genSnare() []byte {
	n := int(0.18 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0x5EEDD12)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		env := math.Exp(-t * 26.0)
		body := (math.Sin(2*math.Pi*188*t)*0.24 + math.Sin(2*math.Pi*356*t)*0.10) * env
		n1 := lcg(&seed)
		n2 := lcg(&seed)
		bandNoise := (n1 - n2*0.55) * env * (0.55 + 0.25*math.Exp(-t*8.0))
		snap := math.Sin(2*math.Pi*2800*t) * math.Exp(-t*120.0) * 0.10
		putStereoF32(buf, i, softSat(body+bandNoise+snap))
	}
	return buf
}

// genHat: metallic partials plus noise, fast decay.
func genHat() []byte {
	n := int(0.07 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0x4A7D00D)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		noise := lcg(&seed)
		metal := math.Sin(2*math.Pi*7300*t) + math.Sin(2*math.Pi*9200*t)*0.6
		s := (noise*0.8 + metal*0.2) * math.Exp(-t*42.0) * 0.30
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}
