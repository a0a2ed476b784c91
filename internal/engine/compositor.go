package engine

import (
	"image"
	"math"
)

// Compositor owns the persistent intensity raster. Each tick it re-projects
// the buffer into itself under a near-identity similarity transform, decays
// it toward black, then stamps fresh field samples additively. Decay is the
// energy sink that balances stamping; the two are co-tuned so steady-state
// brightness stays bounded for any fixed parameter set.
type Compositor struct {
	w, h    int
	buf     []float32
	scratch []float32
	rng     *Rand
}

// CompositorTick is one tick's worth of inputs: the current drift phase and
// wall clock, plus the live-knob state the tick should render under.
type CompositorTick struct {
	DriftPhase float64
	WallClock  float64
	Samples    int     // stamps to draw this tick
	Feedback   bool    // self-projection enabled
	Strength   float64 // live feedback strength in [0,1]
	Exposure   float64 // stamp gain multiplier
	Mods       FieldMods
}

func NewCompositor(w, h int, seed uint64) *Compositor {
	c := &Compositor{rng: NewRand(seed)}
	c.Resize(w, h)
	return c
}

// Resize reallocates the raster and clears it. The coordinate mapping is
// implicit in the buffer dimensions, so resizing cannot preserve content.
func (c *Compositor) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.w, c.h = w, h
	c.buf = make([]float32, w*h)
	c.scratch = make([]float32, w*h)
}

func (c *Compositor) Clear() {
	for i := range c.buf {
		c.buf[i] = 0
	}
}

func (c *Compositor) Size() (int, int) { return c.w, c.h }

func (c *Compositor) Pixels() []float32 { return c.buf }

// MeanBrightness returns the average buffer intensity.
func (c *Compositor) MeanBrightness() float64 {
	var sum float64
	for _, v := range c.buf {
		sum += float64(v)
	}
	return sum / float64(len(c.buf))
}

// Tick runs one compositor cycle: self-projection, decay, stamping.
func (c *Compositor) Tick(p *ParameterRecord, in CompositorTick) {
	strength := clampF(in.Strength, 0, 1)
	if in.Feedback {
		c.project(p, clampF(0.55+0.40*strength, 0.55, 0.95))
	}

	// Decay inversely tracks feedback strength: heavier feedback keeps more
	// energy in the loop, so the sink opens up to compensate.
	decay := float32(1 - clampF(0.15-0.10*strength, 0.05, 0.15))
	for i := range c.buf {
		c.buf[i] *= decay
	}

	c.stamp(p, in)
}

// project draws the buffer onto itself under the record's small similarity
// transform, composited source-over at opacity alpha. The transform stays
// within FeedbackZoomMax/RotMax/ShiftMax of identity so repeated
// application converges instead of smearing off to infinity.
func (c *Compositor) project(p *ParameterRecord, alpha float64) {
	// Inverse mapping: for each destination pixel find the source position.
	// Forward transform is rotate+scale about the raster centre, then shift.
	scale := 1 + clampF(p.FeedZoom, -FeedbackZoomMax, FeedbackZoomMax)
	rot := clampF(p.FeedRotate, -FeedbackRotMax, FeedbackRotMax)
	cs, sn := math.Cos(rot), math.Sin(rot)
	inv := 1 / scale
	cx, cy := float64(c.w)*0.5, float64(c.h)*0.5
	a := float32(alpha)

	for y := 0; y < c.h; y++ {
		dy := float64(y) - cy - p.FeedShiftY
		for x := 0; x < c.w; x++ {
			dx := float64(x) - cx - p.FeedShiftX
			sx := (cs*dx + sn*dy) * inv
			sy := (-sn*dx + cs*dy) * inv
			v := c.sampleBilinear(sx+cx, sy+cy)
			i := y*c.w + x
			c.scratch[i] = c.buf[i]*(1-a) + v*a
		}
	}
	c.buf, c.scratch = c.scratch, c.buf
}

// sampleBilinear reads the buffer at a fractional position; outside reads
// as black, which is also what lets the projection bleed energy at edges.
func (c *Compositor) sampleBilinear(x, y float64) float32 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := float32(x - float64(x0))
	fy := float32(y - float64(y0))

	get := func(px, py int) float32 {
		if px < 0 || py < 0 || px >= c.w || py >= c.h {
			return 0
		}
		return c.buf[py*c.w+px]
	}
	top := get(x0, y0)*(1-fx) + get(x0+1, y0)*fx
	bot := get(x0, y0+1)*(1-fx) + get(x0+1, y0+1)*fx
	return top*(1-fy) + bot*fy
}

// stamp draws in.Samples field evaluations as small additive patches.
// Overlapping stamps brighten toward saturation, never overwrite.
func (c *Compositor) stamp(p *ParameterRecord, in CompositorTick) {
	n := in.Samples
	if n < 0 {
		n = 0
	}
	exposure := clampF(in.Exposure, ExposureMin, ExposureMax)
	gain := float32(0.055 * exposure)

	padX := float64(c.w) * RasterPad
	padY := float64(c.h) * RasterPad
	spanX := float64(c.w) - 2*padX
	spanY := float64(c.h) - 2*padY

	for i := 0; i < n; i++ {
		t := c.rng.Float64() * SampleWindow
		jitter := c.rng.RangeF(-PhaseSpread, PhaseSpread)
		x, y := Field(t, in.DriftPhase+jitter, in.WallClock, p, in.Mods)

		px := padX + (x+1)*0.5*spanX
		py := padY + (y+1)*0.5*spanY
		c.stampPatch(int(px), int(py), gain)
	}
}

// stampPatch brightens a 3x3 soft patch around (px,py). Lighten compositing:
// each hit closes a fraction of the remaining headroom, so overlapping
// stamps approach saturation without overwriting or clipping.
func (c *Compositor) stampPatch(px, py int, gain float32) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := px+dx, py+dy
			if x < 0 || y < 0 || x >= c.w || y >= c.h {
				continue
			}
			g := gain
			if dx != 0 || dy != 0 {
				g *= 0.35
			}
			i := y*c.w + x
			c.buf[i] += g * (1 - c.buf[i])
		}
	}
}

// Snapshot renders the raster through a palette into a still frame.
func (c *Compositor) Snapshot(pal Gradient) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.w, c.h))
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			col := pal.Shade(float64(c.buf[y*c.w+x]))
			o := img.PixOffset(x, y)
			img.Pix[o] = col.R
			img.Pix[o+1] = col.G
			img.Pix[o+2] = col.B
			img.Pix[o+3] = 255
		}
	}
	return img
}
