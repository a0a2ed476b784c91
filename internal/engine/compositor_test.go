package engine

import (
	"testing"
)

func testTick(samples int, feedback bool) CompositorTick {
	return CompositorTick{
		Samples:  samples,
		Feedback: feedback,
		Strength: 0.6,
		Exposure: 1,
		Mods:     DefaultFieldMods(),
	}
}

func TestCompositorBrightnessBounded(t *testing.T) {
	p := SampleParameters(NewStream("steady"))
	c := NewCompositor(64, 64, 1)

	in := testTick(200, true)
	var early, late float64
	for i := 0; i < 10000; i++ {
		in.DriftPhase = float64(i) * 0.0003
		in.WallClock = float64(i) / 60.0
		c.Tick(p, in)

		m := c.MeanBrightness()
		if m < 0 || m > 1 {
			t.Fatalf("tick %d: mean brightness %v outside [0,1]", i, m)
		}
		if i >= 4000 && i < 5000 {
			early += m
		}
		if i >= 9000 {
			late += m
		}
	}
	early /= 1000
	late /= 1000

	// Steady state: neither monotone divergence nor decay to black.
	if late == 0 || early == 0 {
		t.Fatal("buffer decayed to black under steady stamping")
	}
	ratio := late / early
	if ratio > 1.5 || ratio < 0.67 {
		t.Fatalf("brightness not in steady state: early %v late %v", early, late)
	}
}

func TestCompositorFeedbackOffStillBounded(t *testing.T) {
	p := SampleParameters(NewStream("steady-off"))
	c := NewCompositor(48, 48, 7)
	in := testTick(300, false)
	for i := 0; i < 3000; i++ {
		in.WallClock = float64(i) / 60.0
		c.Tick(p, in)
	}
	if m := c.MeanBrightness(); m <= 0 || m > 1 {
		t.Fatalf("mean brightness %v out of band with feedback off", m)
	}
}

// Scenario from the engine contract: seed "demo", 1000 samples per tick,
// feedback and warp off, 100 ticks. The buffer must hold additive base
// stamps confined to the padded region, with no pixel at full saturation.
func TestCompositorDemoScenario(t *testing.T) {
	p := SampleParameters(NewStream("demo"))
	c := NewCompositor(128, 128, 3)

	in := CompositorTick{
		Samples:  1000,
		Feedback: false,
		Strength: 0,
		Exposure: 1,
		Mods:     DefaultFieldMods(),
	}
	for i := 0; i < 100; i++ {
		in.WallClock = float64(i) / 60.0
		c.Tick(p, in)
	}

	w, h := c.Size()
	lit := 0
	padX := int(float64(w)*RasterPad) - 2
	padY := int(float64(h)*RasterPad) - 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := c.Pixels()[y*w+x]
			if v == 0 {
				continue
			}
			lit++
			if v >= 1 {
				t.Fatalf("pixel (%d,%d) reached full saturation without feedback", x, y)
			}
			if x < padX || y < padY || x >= w-padX || y >= h-padY {
				t.Fatalf("stamp outside padded region at (%d,%d)", x, y)
			}
		}
	}
	if lit < 100 {
		t.Fatalf("only %d lit pixels; stamping looks broken", lit)
	}
}

func TestCompositorResizeClears(t *testing.T) {
	p := SampleParameters(NewStream("resize"))
	c := NewCompositor(32, 32, 9)
	c.Tick(p, testTick(500, false))
	if c.MeanBrightness() == 0 {
		t.Fatal("expected some brightness before resize")
	}

	c.Resize(40, 24)
	w, h := c.Size()
	if w != 40 || h != 24 {
		t.Fatalf("resize produced %dx%d", w, h)
	}
	if c.MeanBrightness() != 0 {
		t.Fatal("resize must hard-clear the raster")
	}
}

func TestCompositorProjectionConverges(t *testing.T) {
	// Pure feedback with no stamping must not blow up: the transform is
	// near identity and decay is the sink.
	p := SampleParameters(NewStream("project"))
	c := NewCompositor(64, 64, 11)
	c.Tick(p, testTick(2000, false)) // seed some energy
	peak := c.MeanBrightness()

	in := testTick(0, true)
	in.Strength = 1 // strongest feedback, weakest decay
	for i := 0; i < 2000; i++ {
		c.Tick(p, in)
		if m := c.MeanBrightness(); m > peak*1.05 {
			t.Fatalf("tick %d: feedback loop grew brightness %v past seed level %v", i, m, peak)
		}
	}
}

func TestCompositorSnapshot(t *testing.T) {
	c := NewCompositor(16, 16, 5)
	img := c.Snapshot(Palettes[0])
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("snapshot bounds %v", img.Bounds())
	}
	// All-black raster maps to the gradient's low stop.
	low := Palettes[0].Low
	if img.Pix[0] != low.R || img.Pix[1] != low.G || img.Pix[2] != low.B || img.Pix[3] != 255 {
		t.Fatalf("black pixel rendered as %v, want low stop %v", img.Pix[:4], low)
	}
}

func TestGradientShade(t *testing.T) {
	g := Palettes[1]
	if got := g.Shade(0); got != g.Low {
		t.Fatalf("Shade(0) = %v, want %v", got, g.Low)
	}
	if got := g.Shade(1); got != g.Hot {
		t.Fatalf("Shade(1) = %v, want %v", got, g.Hot)
	}
	if got := g.Shade(-5); got != g.Low {
		t.Fatalf("Shade clamps below: got %v", got)
	}
	if mid := g.Shade(0.5); mid != g.Mid {
		t.Fatalf("Shade(0.5) = %v, want mid stop %v", mid, g.Mid)
	}
}
