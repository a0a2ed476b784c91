package engine

import (
	"math"
	"sync"

	"github.com/ktye/fft"
)

// SpectrumProbe keeps a rolling window of audio output and estimates its
// dominant frequency for the diagnostics line. Pushed from the audio
// goroutine, read from the tick loop, so the ring is mutex-guarded; the
// probe is observation only and sits outside both feedback loops.
type SpectrumProbe struct {
	mu     sync.Mutex
	ring   []float64
	i      int
	filled bool
	fft    fft.FFT
	win    []float64
	work   []complex128
}

// NewSpectrumProbe creates a probe over a power-of-two window.
func NewSpectrumProbe(size int) *SpectrumProbe {
	f, err := fft.New(size)
	if err != nil {
		// Only reachable with a non-power-of-two size, which is a
		// programming error at the call site.
		panic(err)
	}
	win := make([]float64, size)
	for i := range win {
		win[i] = (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
	}
	return &SpectrumProbe{
		ring: make([]float64, size),
		fft:  f,
		win:  win,
		work: make([]complex128, size),
	}
}

func (p *SpectrumProbe) Push(x float64) {
	p.mu.Lock()
	p.ring[p.i] = x
	p.i++
	if p.i == len(p.ring) {
		p.i = 0
		p.filled = true
	}
	p.mu.Unlock()
}

// DominantHz returns the frequency of the strongest bin, or 0 before the
// window has filled once.
func (p *SpectrumProbe) DominantHz(sampleRate float64) float64 {
	p.mu.Lock()
	if !p.filled {
		p.mu.Unlock()
		return 0
	}
	n := len(p.ring)
	for k := 0; k < n; k++ {
		// Oldest sample first so the Hann window lines up with time order.
		p.work[k] = complex(p.ring[(p.i+k)%n]*p.win[k], 0)
	}
	p.mu.Unlock()

	spec := p.fft.Transform(p.work)

	best, bestMag := 0, 0.0
	for k := 1; k < n/2; k++ {
		m := real(spec[k])*real(spec[k]) + imag(spec[k])*imag(spec[k])
		if m > bestMag {
			bestMag = m
			best = k
		}
	}
	if bestMag == 0 {
		return 0
	}
	return float64(best) * sampleRate / float64(n)
}
