package engine

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Renderer presents the compositor raster as a fullscreen textured quad.
// The intensity buffer uploads as a single-channel float texture; the
// gradient mapping happens in the fragment shader.
type Renderer struct {
	prog uint32
	vao  uint32
	vbo  uint32
	tex  uint32

	uTex    int32
	uColLow int32
	uColMid int32
	uColHot int32

	texW, texH int
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{}

	prog, err := linkProgram(rasterVertSrc, rasterFragSrc)
	if err != nil {
		return nil, fmt.Errorf("raster program: %w", err)
	}
	r.prog = prog
	gl.UseProgram(prog)
	r.uTex = gl.GetUniformLocation(prog, gl.Str("uTex\x00"))
	r.uColLow = gl.GetUniformLocation(prog, gl.Str("uColLow\x00"))
	r.uColMid = gl.GetUniformLocation(prog, gl.Str("uColMid\x00"))
	r.uColHot = gl.GetUniformLocation(prog, gl.Str("uColHot\x00"))
	gl.Uniform1i(r.uTex, 0)

	// Unit quad as two triangles.
	quad := []float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 8, nil)

	gl.GenTextures(1, &r.tex)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return r, nil
}

// Draw uploads the raster and draws it with the given palette.
func (r *Renderer) Draw(c *Compositor, pal Gradient, fbW, fbH int) {
	w, h := c.Size()

	gl.UseProgram(r.prog)
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)

	if w != r.texW || h != r.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R32F,
			int32(w), int32(h), 0, gl.RED, gl.FLOAT, gl.Ptr(c.Pixels()))
		r.texW, r.texH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
			int32(w), int32(h), gl.RED, gl.FLOAT, gl.Ptr(c.Pixels()))
	}

	gl.Uniform3f(r.uColLow, float32(pal.Low.R)/255, float32(pal.Low.G)/255, float32(pal.Low.B)/255)
	gl.Uniform3f(r.uColMid, float32(pal.Mid.R)/255, float32(pal.Mid.G)/255, float32(pal.Mid.B)/255)
	gl.Uniform3f(r.uColHot, float32(pal.Hot.R)/255, float32(pal.Hot.G)/255, float32(pal.Hot.B)/255)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (r *Renderer) Destroy() {
	gl.DeleteTextures(1, &r.tex)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.prog)
}
