package engine

import (
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// AudioSystem owns the host audio device and the currently running network.
// Device acquisition failure is non-fatal: the visual path never depends on
// audio being up, and every method tolerates a nil or not-ready system.
type AudioSystem struct {
	ctx    *oto.Context
	ready  chan struct{}
	player oto.Player
	net    *Network
	probe  *SpectrumProbe
}

// NewAudioSystem acquires the output device. Callers should treat an error
// as "audio unavailable" and keep running.
func NewAudioSystem() (*AudioSystem, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	return &AudioSystem{ctx: ctx, ready: ready, probe: NewSpectrumProbe(2048)}, nil
}

// Start builds a fresh network for the record and begins streaming it.
// Any previous network is stopped and fully released first so two feedback
// graphs never overlap.
func (a *AudioSystem) Start(p *ParameterRecord, k Knobs) {
	if a == nil {
		return
	}
	a.Stop()

	net := NewNetwork(p, SampleRate)
	net.SetFrequencyScale(k.FreqScale)
	net.SetFeedbackScale(k.FeedbackScale)
	net.SetMuted(k.Muted)
	a.net = net

	player := a.ctx.NewPlayer(&networkReader{net: net, probe: a.probe})
	player.SetVolume(0.8)
	player.Play()
	a.player = player
}

// Stop tears down the player and drops the network. Safe to call twice.
func (a *AudioSystem) Stop() {
	if a == nil || a.player == nil {
		return
	}
	a.player.Close()
	a.player = nil
	a.net = nil
}

// Network returns the live network, or nil when audio is stopped.
func (a *AudioSystem) Network() *Network {
	if a == nil {
		return nil
	}
	return a.net
}

// DominantHz reports the measured dominant output frequency, 0 if unknown.
func (a *AudioSystem) DominantHz() float64 {
	if a == nil || a.probe == nil {
		return 0
	}
	return a.probe.DominantHz(SampleRate)
}

// networkReader streams the FDN into oto as float32 LE stereo. It never
// returns EOF; the network keeps producing until the player is closed.
type networkReader struct {
	net   *Network
	probe *SpectrumProbe
}

func (r *networkReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	for i := 0; i < frames; i++ {
		s := r.net.ProcessSample()
		if r.probe != nil {
			r.probe.Push(s)
		}
		putStereoF32(p, i, s)
	}
	return frames * 8, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels
// at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// soundReader plays back a fully synthesized one-shot buffer.
type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// PlayPercussion fires one discrete percussive event into the output. The
// drum layer is an external event source as far as the engine is concerned;
// it shares the device but not the feedback graph.
func (a *AudioSystem) PlayPercussion(kind PercussionKind) {
	if a == nil {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}
	samples := generatePercussion(kind)
	if len(samples) == 0 {
		return
	}
	go func() {
		player := a.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(0.5)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}
