package fireball

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BaseParams are the user-set values behind the per-frame snapshot. The
// control surface edits these through the descriptor list below; audio
// modulation never writes back into them.
type BaseParams struct {
	Octaves         float64
	CoreLowAmp      float64
	CoreHiAmp       float64
	CoreScale       float64
	FlameNoiseScale float64
	FlameHiAmp      float64
	FlameLift       float64
	ShellOffset     float64
	GlowOffsetMul   float64
	SceneScale      float64
	BandCount       float64
	Exposure        float64
	Wash            float64
	GrainAmp        float64
	CoreHot         float64
	GlowStrength    float64

	// Audio-reactive gains.
	BassToFlameLift float64
	BassToGlow      float64
	MidToCoreLow    float64
	TrebleToGrainHi float64
	BeatToExposure  float64
	BeatSensitivity float64
	AudioReactive   bool
}

func DefaultBaseParams() BaseParams {
	return BaseParams{
		Octaves:         5,
		CoreLowAmp:      0.22,
		CoreHiAmp:       0.05,
		CoreScale:       1.0,
		FlameNoiseScale: 2.6,
		FlameHiAmp:      0.55,
		FlameLift:       0.25,
		ShellOffset:     0.03,
		GlowOffsetMul:   2.2,
		SceneScale:      1.0,
		BandCount:       6,
		Exposure:        1.1,
		Wash:            0.25,
		GrainAmp:        0.18,
		CoreHot:         0.65,
		GlowStrength:    1.2,

		BassToFlameLift: 0.55,
		BassToGlow:      0.9,
		MidToCoreLow:    0.3,
		TrebleToGrainHi: 0.25,
		BeatToExposure:  0.45,
		BeatSensitivity: 1.3,
		AudioReactive:   true,
	}
}

// ParamDesc describes one tunable field for whatever control surface is in
// use. The pointer keeps the binding typed; nothing reflects over names.
type ParamDesc struct {
	Label string
	Ptr   *float64
	Min   float64
	Max   float64
	Step  float64
}

// Descriptors returns the tunable-parameter list in panel order.
func (b *BaseParams) Descriptors() []ParamDesc {
	return []ParamDesc{
		{"octaves", &b.Octaves, 1, 8, 1},
		{"core low amp", &b.CoreLowAmp, 0, 1, 0.02},
		{"core hi amp", &b.CoreHiAmp, 0, 0.3, 0.01},
		{"flame noise scale", &b.FlameNoiseScale, 0.5, 8, 0.1},
		{"flame hi amp", &b.FlameHiAmp, 0, 1.5, 0.05},
		{"flame lift", &b.FlameLift, 0, 1.2, 0.05},
		{"shell offset", &b.ShellOffset, 0, 0.2, 0.005},
		{"glow offset mul", &b.GlowOffsetMul, 1, 4, 0.1},
		{"band count", &b.BandCount, 1, 12, 1},
		{"exposure", &b.Exposure, 0.2, 2, 0.05},
		{"wash", &b.Wash, 0, 1, 0.05},
		{"grain amp", &b.GrainAmp, 0, 0.6, 0.02},
		{"core hot", &b.CoreHot, 0, 1, 0.05},
		{"glow strength", &b.GlowStrength, 0, 3, 0.1},
		{"beat sensitivity", &b.BeatSensitivity, 0.5, 3, 0.1},
	}
}

// ParameterSnapshot is the bounded, immutable parameter set for one frame.
// Rebuilt every frame by the modulator and read by the compositor and the
// displacement model; never retained past the frame.
type ParameterSnapshot struct {
	Time    float64
	Octaves int

	CoreLowAmp      float64
	CoreHiAmp       float64
	CoreScale       float64
	FlameNoiseScale float64
	FlameHiAmp      float64
	FlameLift       float64

	BandCount    float64
	GrainAmp     float64
	Wash         float64
	Exposure     float64
	CoreHot      float64
	GlowStrength float64

	ShellOffset float64
	GlowOffset  float64
	SceneScale  float64

	UpDir         mgl32.Vec3
	MouseNDC      mgl32.Vec2
	MouseStrength float64
	MouseFalloff  float64
	MouseOn       bool

	Bass   float64
	Mid    float64
	Treble float64
	Beat   float64

	Model    mgl32.Mat4
	ViewProj mgl32.Mat4
}

// ParameterModulator merges base parameters with the current audio levels
// into one snapshot per frame, clamping every audio-derived value to its
// ceiling so spikes cannot push uniforms past shader calibration.
type ParameterModulator struct{}

func (ParameterModulator) Snapshot(base *BaseParams, levels AudioLevels, t float64,
	upDir mgl32.Vec3, mouse *MouseDeformationField, model, viewProj mgl32.Mat4) ParameterSnapshot {

	bass, mid, treble, beat := levels.Bass, levels.Mid, levels.Treble, levels.Beat
	if !base.AudioReactive {
		// Driven to exactly zero, never left stale.
		bass, mid, treble, beat = 0, 0, 0, 0
	}

	snap := ParameterSnapshot{
		Time:    t,
		Octaves: clampI(int(math.Round(base.Octaves)), MinOctaves, MaxOctaves),

		CoreLowAmp:      math.Min(base.CoreLowAmp+mid*base.MidToCoreLow, CeilCoreLowAmp),
		CoreHiAmp:       base.CoreHiAmp,
		CoreScale:       base.CoreScale,
		FlameNoiseScale: base.FlameNoiseScale,
		FlameHiAmp:      base.FlameHiAmp,
		FlameLift:       math.Min(base.FlameLift+bass*base.BassToFlameLift, CeilFlameLift),

		BandCount:    base.BandCount,
		GrainAmp:     math.Min(base.GrainAmp+treble*base.TrebleToGrainHi, CeilGrainAmp),
		Wash:         base.Wash,
		Exposure:     math.Min(base.Exposure+beat*base.BeatToExposure, CeilExposure),
		CoreHot:      base.CoreHot,
		GlowStrength: math.Min(base.GlowStrength+bass*base.BassToGlow, CeilGlowStrength),

		ShellOffset: base.ShellOffset,
		GlowOffset:  base.ShellOffset * base.GlowOffsetMul,
		SceneScale:  base.SceneScale,

		UpDir: upDir,

		Bass:   bass,
		Mid:    mid,
		Treble: treble,
		Beat:   beat,

		Model:    model,
		ViewProj: viewProj,
	}

	if mouse != nil {
		snap.MouseNDC = mouse.NDC
		snap.MouseStrength = mouse.Strength
		snap.MouseFalloff = mouse.Falloff
		snap.MouseOn = mouse.Enabled
	}
	return snap
}
