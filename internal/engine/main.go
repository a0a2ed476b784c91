package engine

import (
	"fmt"
	"image/png"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// RunDesktop owns the host loop: window, GL, audio, input, and the two
// periodic schedules. The visual tick runs off the display refresh here;
// audio runs off oto's own clock inside AudioSystem.
func RunDesktop() {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	// Seed from environment or clock.
	seed := os.Getenv("PIXELFIELD_SEED")
	if seed == "" {
		seed = fmt.Sprintf("%d", time.Now().UnixNano())
	}

	fbW, fbH := window.GetFramebufferSize()
	eng := NewEngine(seed, fbW, fbH)

	// Audio is optional; a missing device degrades to the visual path only.
	if audio, err := NewAudioSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "audio init failed (continuing without sound): %v\n", err)
	} else {
		eng.AttachAudio(audio)
		defer audio.Stop()
	}

	rend, err := NewRenderer()
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0, 0, 0, 1)

	input := NewInput()
	rerollCount := 0
	lastTitle := 0.0
	last := glfw.GetTime()

	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH = window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		eng.Resize(fbW, fbH)

		if input.Apply(window, eng, dt) {
			eng.ApplyKnobs()
		}
		if input.JustPressed(window, glfw.KeySpace) {
			rerollCount++
			eng.Reroll(fmt.Sprintf("%s|%d", seed, rerollCount))
		}
		if input.JustPressed(window, glfw.KeyS) {
			if err := saveSnapshot(eng); err != nil {
				fmt.Fprintf(os.Stderr, "snapshot failed: %v\n", err)
			}
		}

		eng.Tick(now)

		// Diagnostics once a second; the title is the text surface.
		if now-lastTitle > 1.0 {
			lastTitle = now
			window.SetTitle("pixelfield " + eng.Diagnostics())
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		rend.Draw(eng.Compositor(), eng.Palette(), fbW, fbH)
		window.SwapBuffers()
	}
}

// saveSnapshot exports the current raster as a timestamped PNG in the
// working directory.
func saveSnapshot(e *Engine) error {
	name := fmt.Sprintf("pixelfield-%s.png", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, e.Snapshot()); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", name)
	return nil
}
