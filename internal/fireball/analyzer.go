package fireball

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// AudioLevels carries the per-frame band energies and beat pulse, each in
// [0,1]. Zeroed whenever capture stops.
type AudioLevels struct {
	Bass   float64
	Mid    float64
	Treble float64
	Beat   float64
}

// Analyzer turns raw time-domain samples into band energies and beat pulses
// once per frame. All mutation happens inside Step, on the frame loop.
type Analyzer struct {
	fft  *fourier.FFT
	hann []float64
	rate float64

	// Beat state: slow EMA baseline plus a debounce timer.
	ema       float64
	sinceBeat float64
	levels    AudioLevels

	windowed []float64
	coeffs   []complex128
}

func NewAnalyzer(sampleRate float64) *Analyzer {
	hann := make([]float64, AnalysisWindow)
	for i := range hann {
		hann[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(AnalysisWindow-1)))
	}
	return &Analyzer{
		fft:       fourier.NewFFT(AnalysisWindow),
		hann:      hann,
		rate:      sampleRate,
		sinceBeat: BeatDebounceSec, // first qualifying spike may fire immediately
		windowed:  make([]float64, AnalysisWindow),
	}
}

// Levels returns the most recent analysis result.
func (a *Analyzer) Levels() AudioLevels { return a.levels }

// Reset zeroes all levels and the beat baseline so a re-enabled source
// starts cold. Called on every capture stop and source switch.
func (a *Analyzer) Reset() {
	a.levels = AudioLevels{}
	a.ema = 0
	a.sinceBeat = BeatDebounceSec
}

// Step analyzes the newest time-domain window and advances the beat state
// by dt seconds. samples holds mono amplitudes (any scale); fewer than a
// full window is zero-padded at the front. Synchronous and non-blocking.
func (a *Analyzer) Step(samples []float64, sensitivity, dt float64) AudioLevels {
	for i := range a.windowed {
		a.windowed[i] = 0
	}
	if len(samples) > AnalysisWindow {
		samples = samples[len(samples)-AnalysisWindow:]
	}
	copy(a.windowed[AnalysisWindow-len(samples):], samples)

	rms := 0.0
	for _, s := range a.windowed {
		rms += s * s
	}
	rms = math.Sqrt(rms / AnalysisWindow)

	for i := range a.windowed {
		a.windowed[i] *= a.hann[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	// 2/N single-sided scaling, doubled again to undo the Hann coherent
	// gain of 0.5: a full-scale sine lands near 1.0.
	scale := 4.0 / AnalysisWindow
	bass := a.bandEnergy(BassLowHz, BassHighHz, scale)
	mid := a.bandEnergy(BassHighHz, MidHighHz, scale)
	treble := a.bandEnergy(MidHighHz, TrebleHighHz, scale)

	// Degenerate spectrum but live signal: estimate bands from RMS.
	if (bass+mid+treble)/3.0 < SilenceBandMean && rms > SilenceRMSFloor {
		bass = math.Min(1, rms*RMSBassScale)
		mid = math.Min(1, rms*RMSMidScale)
		treble = math.Min(1, rms*RMSTrebleScale)
	}

	beat := a.stepBeat(bass, mid, sensitivity, dt)

	a.levels = AudioLevels{
		Bass:   clampF(bass, 0, 1),
		Mid:    clampF(mid, 0, 1),
		Treble: clampF(treble, 0, 1),
		Beat:   beat,
	}
	return a.levels
}

func (a *Analyzer) bandEnergy(loHz, hiHz int, scale float64) float64 {
	binHz := a.rate / AnalysisWindow
	lo := int(math.Ceil(float64(loHz) / binHz))
	hi := int(float64(hiHz) / binHz)
	if lo < 1 {
		lo = 1
	}
	if hi >= a.fft.Len()/2 {
		hi = a.fft.Len()/2 - 1
	}
	if hi < lo {
		return 0
	}
	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += cmplx.Abs(a.coeffs[i]) * scale
	}
	return clampF(sum/float64(hi-lo+1), 0, 1)
}

// stepBeat compares the bass-weighted energy against a slow EMA baseline.
// A beat fires at most once per debounce interval; between beats the pulse
// decays linearly. Weighting and smoothing constants are empirically tuned
// (see config.go) and kept as-is.
func (a *Analyzer) stepBeat(bass, mid, sensitivity, dt float64) float64 {
	energy := bass*BeatBassWeight + mid*BeatMidWeight
	a.sinceBeat += dt

	threshold := a.ema * math.Max(BeatMinThreshold, sensitivity)
	fired := energy > threshold && a.sinceBeat >= BeatDebounceSec

	a.ema += BeatEMAAlpha * (energy - a.ema)

	if fired {
		a.sinceBeat = 0
		a.levels.Beat = 1.0
	} else {
		a.levels.Beat = math.Max(0, a.levels.Beat-BeatDecayPerSec*dt)
	}
	return a.levels.Beat
}
