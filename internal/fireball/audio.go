package fireball

import (
	"fmt"
	"os"
	"sync/atomic"
)

// AudioSource is one active acquisition: monitor capture, microphone, or a
// decoded file. Exactly one is wired at a time.
type AudioSource interface {
	Name() string
	SampleRate() float64
	Samples(n int) []float64
	Stop()
}

// SourceKind orders the acquisition fallback chain.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceMonitor
	SourceMic
	SourceFile
)

// AudioSystem owns the acquisition chain and the analyzer. All of its
// mutation happens on the frame loop; source-end notifications from reader
// goroutines only set a flag that the next Step consumes.
type AudioSystem struct {
	analyzer *Analyzer
	source   AudioSource
	kind     SourceKind
	filePath string
	wireFn   func(SourceKind) error // replaced in tests

	sourceEnded atomic.Bool
}

func NewAudioSystem(filePath string) *AudioSystem {
	s := &AudioSystem{
		analyzer: NewAnalyzer(AudioSampleRate),
		filePath: filePath,
	}
	s.wireFn = s.wire
	return s
}

// Start walks the fallback chain: monitor capture, then microphone, then
// the user-supplied file. Acquisition failure is never fatal; with every
// tier down the fireball renders silent with zero levels.
func (s *AudioSystem) Start() {
	for _, kind := range []SourceKind{SourceMonitor, SourceMic, SourceFile} {
		if err := s.wireFn(kind); err != nil {
			fmt.Fprintf(os.Stderr, "audio: %v\n", err)
			continue
		}
		fmt.Fprintf(os.Stderr, "audio: using %s\n", s.source.Name())
		return
	}
	fmt.Fprintln(os.Stderr, "audio: no source available (pass -audio-file to analyze a wav/mp3)")
}

// SwitchTo stops the current source, zeroes all analysis state, and wires
// the requested tier. The zeroing happens before the new source delivers
// its first sample, so no beat state leaks across sources.
func (s *AudioSystem) SwitchTo(kind SourceKind) error {
	s.StopSource()
	if kind == SourceNone {
		return nil
	}
	if err := s.wireFn(kind); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "audio: using %s\n", s.source.Name())
	return nil
}

// Cycle advances to the next tier, skipping ones that fail to wire.
func (s *AudioSystem) Cycle() {
	order := []SourceKind{SourceMonitor, SourceMic, SourceFile}
	start := 0
	for i, k := range order {
		if k == s.kind {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(order); i++ {
		kind := order[(start+i)%len(order)]
		if err := s.SwitchTo(kind); err == nil {
			return
		}
	}
	fmt.Fprintln(os.Stderr, "audio: no source available")
}

func (s *AudioSystem) wire(kind SourceKind) error {
	onEnd := func() { s.sourceEnded.Store(true) }
	switch kind {
	case SourceMonitor:
		backend, err := detectMonitorBackend()
		if err != nil {
			return fmt.Errorf("monitor capture: %w", err)
		}
		src, err := startCapture(backend, onEnd)
		if err != nil {
			return fmt.Errorf("monitor capture: %w", err)
		}
		s.source, s.kind = src, kind
	case SourceMic:
		backend, err := detectMicBackend()
		if err != nil {
			return fmt.Errorf("microphone: %w", err)
		}
		src, err := startCapture(backend, onEnd)
		if err != nil {
			return fmt.Errorf("microphone: %w", err)
		}
		s.source, s.kind = src, kind
	case SourceFile:
		if s.filePath == "" {
			return fmt.Errorf("file source: no -audio-file given")
		}
		src, err := openFileSource(s.filePath, onEnd)
		if err != nil {
			return fmt.Errorf("file source: %w", err)
		}
		s.source, s.kind = src, kind
	default:
		return fmt.Errorf("unknown source kind %d", kind)
	}
	return nil
}

// StopSource tears down the active source and zeroes all four levels plus
// the beat baseline, so a re-enabled source starts cold.
func (s *AudioSystem) StopSource() {
	if s.source != nil {
		s.source.Stop()
		s.source = nil
	}
	s.kind = SourceNone
	s.analyzer.Reset()
}

// Step runs one frame of analysis. Invoked once per animation frame,
// synchronous and non-blocking; with no active source the levels stay at
// zero.
func (s *AudioSystem) Step(sensitivity, dt float64) AudioLevels {
	if s.sourceEnded.CompareAndSwap(true, false) {
		// Stream ended on its own: identical teardown to a manual stop.
		fmt.Fprintln(os.Stderr, "audio: source ended, stopping")
		s.StopSource()
	}
	if s.source == nil {
		return s.analyzer.Levels()
	}
	return s.analyzer.Step(s.source.Samples(AnalysisWindow), sensitivity, dt)
}

func (s *AudioSystem) Levels() AudioLevels { return s.analyzer.Levels() }

func (s *AudioSystem) SourceName() string {
	if s.source == nil {
		return "none"
	}
	return s.source.Name()
}

func (s *AudioSystem) Kind() SourceKind { return s.kind }
