package fireball

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/oto/v2"
)

// The file tier decodes a user-supplied track, plays it back, and tees the
// decoded samples into the analysis ring. It is only offered once both
// capture tiers have failed.

var (
	otoOnce  sync.Once
	otoCtx   *oto.Context
	otoReady chan struct{}
	otoErr   error
)

// audioContext returns the process-wide playback context, created on first
// use. oto allows a single context per process.
func audioContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		// 0 = 32-bit float samples (oto.FormatFloat32LE).
		otoCtx, otoReady, otoErr = oto.NewContext(AudioSampleRate, AudioChannels, 0)
	})
	if otoErr != nil {
		return nil, otoErr
	}
	<-otoReady
	return otoCtx, nil
}

// FileSource plays a decoded audio file while exposing its mono samples for
// analysis.
type FileSource struct {
	name     string
	ring     *sampleRing
	streamer beep.StreamSeekCloser
	player   oto.Player

	mu      sync.Mutex
	stopped bool
	onEnd   func()
}

// openFileSource decodes path (wav or mp3 by extension), resamples to the
// analysis rate if needed, and starts playback. onEnd fires when the track
// runs out on its own.
func openFileSource(path string, onEnd func()) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio file %q (wav or mp3)", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != beep.SampleRate(AudioSampleRate) {
		stream = beep.Resample(4, format.SampleRate, beep.SampleRate(AudioSampleRate), streamer)
	}

	ctx, err := audioContext()
	if err != nil {
		streamer.Close()
		return nil, fmt.Errorf("audio context: %w", err)
	}

	fs := &FileSource{
		name:     "file: " + filepath.Base(path),
		ring:     newSampleRing(AudioSampleRate / 2),
		streamer: streamer,
		onEnd:    onEnd,
	}
	fs.player = ctx.NewPlayer(&streamTee{stream: stream, ring: fs.ring})
	fs.player.Play()

	go func() {
		for fs.player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		fs.mu.Lock()
		stopped := fs.stopped
		fs.mu.Unlock()
		if !stopped && fs.onEnd != nil {
			fs.onEnd()
		}
	}()

	return fs, nil
}

func (fs *FileSource) Name() string        { return fs.name }
func (fs *FileSource) SampleRate() float64 { return AudioSampleRate }

func (fs *FileSource) Samples(n int) []float64 { return fs.ring.Latest(n) }

// Stop halts playback and closes the decoder. Levels are zeroed by the
// owning AudioSystem.
func (fs *FileSource) Stop() {
	fs.mu.Lock()
	if fs.stopped {
		fs.mu.Unlock()
		return
	}
	fs.stopped = true
	fs.mu.Unlock()

	fs.player.Close()
	fs.streamer.Close()
}

// streamTee adapts a beep streamer to oto's float32 LE reader while folding
// each frame to mono for the analysis ring.
type streamTee struct {
	stream beep.Streamer
	ring   *sampleRing
	chunk  [512][2]float64
	pend   []byte
}

func (t *streamTee) Read(p []byte) (int, error) {
	if len(t.pend) == 0 {
		n, ok := t.stream.Stream(t.chunk[:])
		if !ok || n == 0 {
			return 0, io.EOF
		}
		mono := make([]float64, n)
		buf := make([]byte, n*8)
		for i := 0; i < n; i++ {
			l, r := t.chunk[i][0], t.chunk[i][1]
			mono[i] = (l + r) * 0.5
			putF32LE(buf, i*8, l)
			putF32LE(buf, i*8+4, r)
		}
		t.ring.Write(mono)
		t.pend = buf
	}
	n := copy(p, t.pend)
	t.pend = t.pend[n:]
	return n, nil
}

// putF32LE writes a [-1,1] sample as float32 LE at off.
func putF32LE(buf []byte, off int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}
