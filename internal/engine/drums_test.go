package engine

import (
	"math"
	"testing"
)

// decodeStereo reads back the float32 LE frames a generator produced.
func decodeStereo(t *testing.T, buf []byte) []float64 {
	t.Helper()
	if len(buf)%8 != 0 {
		t.Fatalf("buffer length %d is not whole stereo frames", len(buf))
	}
	out := make([]float64, 0, len(buf)/8)
	for i := 0; i+8 <= len(buf); i += 8 {
		bits := uint32(buf[i]) | uint32(buf[i+1])<<8 | uint32(buf[i+2])<<16 | uint32(buf[i+3])<<24
		l := float64(math.Float32frombits(bits))
		bits = uint32(buf[i+4]) | uint32(buf[i+5])<<8 | uint32(buf[i+6])<<16 | uint32(buf[i+7])<<24
		r := float64(math.Float32frombits(bits))
		if l != r {
			t.Fatalf("frame %d not centered: %v vs %v", i/8, l, r)
		}
		out = append(out, l)
	}
	return out
}

func TestPercussionBuffers(t *testing.T) {
	for _, kind := range []PercussionKind{PercKick, PercSnare, PercHat} {
		buf := generatePercussion(kind)
		if len(buf) == 0 {
			t.Fatalf("kind %d produced an empty buffer", kind)
		}
		samples := decodeStereo(t, buf)
		peak := 0.0
		for i, s := range samples {
			if math.Abs(s) > 1 {
				t.Fatalf("kind %d sample %d out of range: %v", kind, i, s)
			}
			if math.Abs(s) > peak {
				peak = math.Abs(s)
			}
		}
		if peak < 0.05 {
			t.Fatalf("kind %d is essentially silent (peak %v)", kind, peak)
		}
		// One-shots must end near silence so player teardown cannot click.
		tail := samples[len(samples)-1]
		if math.Abs(tail) > 0.05 {
			t.Fatalf("kind %d ends hot: %v", kind, tail)
		}
	}
}

func TestPercussionDeterministic(t *testing.T) {
	for _, kind := range []PercussionKind{PercKick, PercSnare, PercHat} {
		a := generatePercussion(kind)
		b := generatePercussion(kind)
		if len(a) != len(b) {
			t.Fatalf("kind %d length varies", kind)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("kind %d differs at byte %d", kind, i)
			}
		}
	}
}

func TestUnknownPercussionKind(t *testing.T) {
	if buf := generatePercussion(PercussionKind(99)); buf != nil {
		t.Fatal("unknown kind should produce no buffer")
	}
}

func TestPutStereoF32RoundTrip(t *testing.T) {
	buf := makeBuf(3)
	putStereoF32(buf, 0, 0.5)
	putStereoF32(buf, 1, -0.25)
	putStereoF32(buf, 2, 0)
	got := decodeStereo(t, buf)
	want := []float64{0.5, -0.25, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNetworkReaderFillsFrames(t *testing.T) {
	p := SampleParameters(NewStream("reader"))
	r := &networkReader{net: NewNetwork(p, SampleRate)}

	buf := make([]byte, 512*8)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("reader errored: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("short read: %d of %d", n, len(buf))
	}
	for _, s := range decodeStereo(t, buf) {
		if math.Abs(s) > 1 {
			t.Fatalf("reader produced out-of-range sample %v", s)
		}
	}
}
