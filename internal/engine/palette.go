package engine

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func lerpRGB(a, b RGB, t float64) RGB {
	return RGB{R: lerpU8(a.R, b.R, t), G: lerpU8(a.G, b.G, t), B: lerpU8(a.B, b.B, t)}
}

// Gradient is a three-stop intensity ramp: black end, mid tone, hot end.
type Gradient struct {
	Name          string
	Low, Mid, Hot RGB
}

// Shade maps a buffer intensity in [0,1] to a colour.
func (g Gradient) Shade(v float64) RGB {
	v = clampF(v, 0, 1)
	if v < 0.5 {
		return lerpRGB(g.Low, g.Mid, v*2)
	}
	return lerpRGB(g.Mid, g.Hot, (v-0.5)*2)
}

// Palettes are the gradients a reroll can pick from (ParameterRecord.PaletteIndex).
var Palettes = []Gradient{
	{Name: "ember", Low: RGB{R: 8, G: 4, B: 12}, Mid: RGB{R: 208, G: 72, B: 28}, Hot: RGB{R: 255, G: 232, B: 180}},
	{Name: "glacier", Low: RGB{R: 4, G: 8, B: 18}, Mid: RGB{R: 38, G: 122, B: 196}, Hot: RGB{R: 224, G: 248, B: 255}},
	{Name: "acid", Low: RGB{R: 6, G: 10, B: 6}, Mid: RGB{R: 84, G: 180, B: 40}, Hot: RGB{R: 240, G: 255, B: 160}},
	{Name: "violet", Low: RGB{R: 10, G: 4, B: 16}, Mid: RGB{R: 142, G: 58, B: 196}, Hot: RGB{R: 255, G: 216, B: 248}},
	{Name: "sodium", Low: RGB{R: 10, G: 8, B: 2}, Mid: RGB{R: 214, G: 158, B: 22}, Hot: RGB{R: 255, G: 250, B: 214}},
	{Name: "mono", Low: RGB{R: 4, G: 4, B: 4}, Mid: RGB{R: 128, G: 132, B: 138}, Hot: RGB{R: 250, G: 250, B: 252}},
}
