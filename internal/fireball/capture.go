package fireball

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sync"
)

// Audio acquisition rides pipes to the system capture tools, probed in
// priority order the same way playback backends usually are. Two tiers:
// the monitor of the default sink ("what is currently playing", the desktop
// analog of tab capture) and the default microphone. The file tier lives in
// filesource.go.

type sampleEncoding int

const (
	encF32LE sampleEncoding = iota
	encS16LE
)

// captureBackend is one runnable capture command plus the wire format it
// emits on stdout.
type captureBackend struct {
	Name     string
	Path     string
	Args     []string
	Encoding sampleEncoding
}

// detectMonitorBackend probes loopback capture of the default output.
// Priority: pacat > pw-cat. A system without a monitor device fails here
// and the chain falls through to the microphone.
func detectMonitorBackend() (*captureBackend, error) {
	if path, err := exec.LookPath("pacat"); err == nil {
		return &captureBackend{
			Name: "pacat (monitor)",
			Path: path,
			Args: []string{
				"--record",
				"-d", "@DEFAULT_MONITOR@",
				"--raw",
				"--format=float32le",
				fmt.Sprintf("--rate=%d", AudioSampleRate),
				fmt.Sprintf("--channels=%d", AudioChannels),
				"--latency-msec=50",
			},
			Encoding: encF32LE,
		}, nil
	}
	if path, err := exec.LookPath("pw-cat"); err == nil {
		return &captureBackend{
			Name: "pw-cat (monitor)",
			Path: path,
			Args: []string{
				"--record",
				"-P", "stream.capture.sink=true",
				"--format", "f32",
				"--rate", fmt.Sprintf("%d", AudioSampleRate),
				"--channels", fmt.Sprintf("%d", AudioChannels),
				"-",
			},
			Encoding: encF32LE,
		}, nil
	}
	return nil, fmt.Errorf("no monitor capture tool found")
}

// detectMicBackend probes microphone capture.
// Priority: parec > pw-cat > arecord.
func detectMicBackend() (*captureBackend, error) {
	if path, err := exec.LookPath("parec"); err == nil {
		return &captureBackend{
			Name: "parec (mic)",
			Path: path,
			Args: []string{
				"--raw",
				"--format=float32le",
				fmt.Sprintf("--rate=%d", AudioSampleRate),
				fmt.Sprintf("--channels=%d", AudioChannels),
				"--latency-msec=50",
			},
			Encoding: encF32LE,
		}, nil
	}
	if path, err := exec.LookPath("pw-cat"); err == nil {
		return &captureBackend{
			Name: "pw-cat (mic)",
			Path: path,
			Args: []string{
				"--record",
				"--format", "f32",
				"--rate", fmt.Sprintf("%d", AudioSampleRate),
				"--channels", fmt.Sprintf("%d", AudioChannels),
				"-",
			},
			Encoding: encF32LE,
		}, nil
	}
	if path, err := exec.LookPath("arecord"); err == nil {
		return &captureBackend{
			Name: "arecord (mic)",
			Path: path,
			Args: []string{
				"-t", "raw",
				"-f", "FLOAT_LE",
				"-r", fmt.Sprintf("%d", AudioSampleRate),
				"-c", fmt.Sprintf("%d", AudioChannels),
				"-q",
			},
			Encoding: encF32LE,
		}, nil
	}
	return nil, fmt.Errorf("no microphone capture tool found")
}

// sampleRing is a fixed mono ring buffer. The capture goroutine writes,
// the frame loop reads the newest window; the mutex covers both.
type sampleRing struct {
	mu   sync.Mutex
	buf  []float64
	head int
	fill int
}

func newSampleRing(n int) *sampleRing {
	return &sampleRing{buf: make([]float64, n)}
}

func (r *sampleRing) Write(samples []float64) {
	r.mu.Lock()
	for _, s := range samples {
		r.buf[r.head] = s
		r.head = (r.head + 1) % len(r.buf)
	}
	if r.fill += len(samples); r.fill > len(r.buf) {
		r.fill = len(r.buf)
	}
	r.mu.Unlock()
}

// Latest copies the newest n samples, oldest first. Returns fewer when the
// ring has not filled yet.
func (r *sampleRing) Latest(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.fill {
		n = r.fill
	}
	out := make([]float64, n)
	start := (r.head - n + len(r.buf)) % len(r.buf)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// frameFolder folds an interleaved byte stream to mono samples. Pipe reads
// are not guaranteed to end on a frame boundary, so bytes after the last
// complete frame carry over into the next push instead of being dropped;
// dropping them would shift the stream and corrupt every later frame.
type frameFolder struct {
	enc sampleEncoding
	rem []byte
}

func newFrameFolder(enc sampleEncoding) *frameFolder {
	return &frameFolder{enc: enc}
}

func (ff *frameFolder) frameBytes() int {
	if ff.enc == encS16LE {
		return 2 * AudioChannels
	}
	return 4 * AudioChannels
}

// push consumes raw bytes and returns the mono samples of every complete
// frame now available.
func (ff *frameFolder) push(data []byte) []float64 {
	fb := ff.frameBytes()
	buf := data
	if len(ff.rem) > 0 {
		buf = make([]byte, 0, len(ff.rem)+len(data))
		buf = append(buf, ff.rem...)
		buf = append(buf, data...)
	}

	frames := len(buf) / fb
	mono := make([]float64, frames)
	for f := 0; f < frames; f++ {
		sum := 0.0
		for c := 0; c < AudioChannels; c++ {
			switch ff.enc {
			case encF32LE:
				bits := binary.LittleEndian.Uint32(buf[f*fb+c*4:])
				sum += float64(math.Float32frombits(bits))
			case encS16LE:
				v := int16(binary.LittleEndian.Uint16(buf[f*fb+c*2:]))
				sum += float64(v) / 32768.0
			}
		}
		mono[f] = sum / AudioChannels
	}

	ff.rem = append(ff.rem[:0], buf[frames*fb:]...)
	return mono
}

// CaptureSource runs one capture backend as a child process and folds its
// interleaved stereo stream to mono into a ring buffer.
type CaptureSource struct {
	backend *captureBackend
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	ring    *sampleRing

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
	onEnd   func()
}

// startCapture launches the backend and its reader goroutine. onEnd is
// invoked when the stream ends without Stop being called (device unplugged,
// daemon gone) so the owner can run the same teardown as a manual stop.
func startCapture(backend *captureBackend, onEnd func()) (*CaptureSource, error) {
	cmd := exec.Command(backend.Path, backend.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdout.Close()
		return nil, fmt.Errorf("start %s: %w", backend.Name, err)
	}

	cs := &CaptureSource{
		backend: backend,
		cmd:     cmd,
		stdout:  stdout,
		ring:    newSampleRing(AudioSampleRate / 2),
		onEnd:   onEnd,
	}
	cs.wg.Add(1)
	go cs.readLoop()
	return cs, nil
}

func (cs *CaptureSource) Name() string        { return cs.backend.Name }
func (cs *CaptureSource) SampleRate() float64 { return AudioSampleRate }

// Samples returns the newest n mono samples.
func (cs *CaptureSource) Samples(n int) []float64 { return cs.ring.Latest(n) }

func (cs *CaptureSource) readLoop() {
	defer cs.wg.Done()

	fold := newFrameFolder(cs.backend.Encoding)
	raw := make([]byte, fold.frameBytes()*512)

	for {
		n, err := cs.stdout.Read(raw)
		if n > 0 {
			if mono := fold.push(raw[:n]); len(mono) > 0 {
				cs.ring.Write(mono)
			}
		}
		if err != nil {
			cs.mu.Lock()
			stopped := cs.stopped
			cs.mu.Unlock()
			if !stopped && cs.onEnd != nil {
				// Track ended unexpectedly: same path as a manual stop.
				cs.onEnd()
			}
			return
		}
	}
}

// Stop tears the capture down completely: the child process is killed and
// reaped and the reader drained, so no capture handle leaks into the next
// source.
func (cs *CaptureSource) Stop() {
	cs.mu.Lock()
	if cs.stopped {
		cs.mu.Unlock()
		return
	}
	cs.stopped = true
	cs.mu.Unlock()

	cs.stdout.Close()
	if cs.cmd.Process != nil {
		cs.cmd.Process.Kill()
	}
	cs.cmd.Wait()
	cs.wg.Wait()
}
