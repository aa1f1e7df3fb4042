package fireball

// Window defaults.
const (
	WindowWidth  = 1024
	WindowHeight = 768
	FOVDegrees   = 45.0
	NearPlane    = 0.1
	FarPlane     = 100.0
)

// Orbit camera bounds and speeds.
const (
	CamMinPitch    = -1.35 // just short of the poles to keep the view matrix stable
	CamMaxPitch    = 1.35
	CamMinRadius   = 1.6
	CamMaxRadius   = 12.0
	CamStartRadius = 3.2
	CamRotateSpeed = 0.008 // radians per dragged pixel
	CamZoomSpeed   = 0.6   // scaled by 0.1 per scroll notch
)

// Noise shape.
const (
	NoiseLacunarity = 2.02 // non-integer so octaves never align on the lattice
	NoiseAmpSeed    = 0.5
	MinOctaves      = 1
	MaxOctaves      = 8
)

// Audio capture/analysis.
const (
	AudioSampleRate  = 44100
	AudioChannels    = 2
	AnalysisWindow   = 1024 // samples per FFT window
	BassLowHz        = 20
	BassHighHz       = 150
	MidHighHz        = 2000
	TrebleHighHz     = 10000
	SilenceBandMean  = 0.02 // below this the spectrum is considered degenerate
	SilenceRMSFloor  = 0.01 // above this a signal is still present
	RMSBassScale     = 2.2
	RMSMidScale      = 1.4
	RMSTrebleScale   = 0.9
	BeatEMAAlpha     = 0.15
	BeatBassWeight   = 1.0
	BeatMidWeight    = 0.25
	BeatDebounceSec  = 0.26
	BeatDecayPerSec  = 3.5
	BeatMinThreshold = 0.5
)

// Audio-to-parameter ceilings. Each derived parameter is clamped here to
// keep uniforms inside the range the shader is calibrated for.
const (
	CeilFlameLift    = 1.8
	CeilGlowStrength = 3.0
	CeilCoreLowAmp   = 1.0
	CeilGrainAmp     = 0.6
	CeilExposure     = 2.0
)

// Mouse deformation.
const (
	MouseMinFalloff    = 1e-3
	MouseTangentialAmp = 0.12 // magnitude of the cursor-ward surface pull
)
