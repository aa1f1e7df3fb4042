package fireball

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PassIndex selects both the blend/depth state and the displacement branch.
// Geometry and shading must read the same index per draw call.
type PassIndex int

const (
	PassCore PassIndex = iota
	PassFlame
	PassGlow
)

func (p PassIndex) String() string {
	switch p {
	case PassCore:
		return "core"
	case PassFlame:
		return "flame"
	case PassGlow:
		return "glow"
	}
	return "unknown"
}

// SurfaceSample is the CPU evaluation of one displaced surface point plus
// the varyings the shading stage derives alongside it. It mirrors the
// vertex-stage GLSL in shaders.go; tests hold the two models together.
type SurfaceSample struct {
	Position mgl32.Vec3
	Height   float64 // net outward displacement including the shell offset
	FBM      float64 // accumulated flame noise, 0 on the core pass
	Radial   float64 // falloff with height above the body
	Rim      float64 // screen-edge factor from the projected position
	Grain    float64 // high-frequency crack/grain sample
	UpAlign  float64 // dot(normal, effective up)
}

// DisplacePoint evaluates the displacement model for a unit-sphere (or
// plane) surface point. Pure numeric function; the falloff in the snapshot
// is clamped internally so callers cannot divide by zero.
func DisplacePoint(p mgl32.Vec3, pass PassIndex, snap *ParameterSnapshot, mouse *MouseDeformationField) SurfaceSample {
	n := p
	if l := n.Len(); l > 1e-6 {
		n = n.Mul(1 / l)
	} else {
		n = mgl32.Vec3{0, 1, 0}
	}
	p = p.Mul(float32(snap.SceneScale))

	px, py, pz := float64(p.X()), float64(p.Y()), float64(p.Z())
	qx, qy, qz := px*snap.CoreScale, py*snap.CoreScale, pz*snap.CoreScale

	// Fixed low-frequency rock shape plus tiny jitter. Time-invariant so the
	// body reads as solid magma.
	coreDisp := snap.CoreLowAmp*(0.70*math.Sin(0.85*qy)+0.50*math.Cos(0.60*qz)+0.40*math.Sin(0.60*qx)) +
		snap.CoreHiAmp*(valueNoise3(qx*6, qy*6, qz*6)-0.5)

	offset := 0.0
	switch pass {
	case PassFlame:
		offset = snap.ShellOffset
	case PassGlow:
		offset = snap.GlowOffset
	}

	// Mouse influence is measured on the pre-mouse displaced point.
	pre := p.Add(n.Mul(float32(coreDisp + offset)))
	preNDC := mgl32.TransformCoordinate(pre, snap.ViewProj)
	ndc := mgl32.Vec2{preNDC.X(), preNDC.Y()}

	influence := 0.0
	var pull mgl32.Vec3
	up := snap.UpDir
	if mouse != nil && pass != PassCore {
		// The core pass is immune: the solid body must not wobble.
		influence = mouse.Influence(ndc) * mouse.Strength
		if !snap.MouseOn {
			influence = 0
		}
		if influence > 0 {
			pull = mouse.TangentPull(n, ndc)
			up = mixVec3(up, pull, float32(clampF(influence, 0, 1)))
			if l := up.Len(); l > 1e-6 {
				up = up.Mul(1 / l)
			} else {
				up = snap.UpDir
			}
		}
	}

	disp := coreDisp
	fbmVal := 0.0
	if pass != PassCore {
		upAlign := clampF(float64(n.Dot(up)), 0, 1)
		topWeight := math.Pow(upAlign, 1.6)
		drift := 0.7 * snap.Time
		fx := px*snap.FlameNoiseScale + float64(up.X())*drift
		fy := py*snap.FlameNoiseScale + float64(up.Y())*drift
		fz := pz*snap.FlameNoiseScale + float64(up.Z())*drift
		fbmVal = fbm(fx, fy, fz, snap.Octaves)
		disp += topWeight * (snap.FlameHiAmp*(fbmVal-0.5) + snap.FlameLift)
	}

	pos := p.Add(n.Mul(float32(disp + offset)))
	if influence > 0 {
		pos = pos.Add(pull.Mul(float32(MouseTangentialAmp * influence)))
	}

	dx, dy, dz := float64(pos.X()), float64(pos.Y()), float64(pos.Z())
	height := disp + offset
	posNDC := mgl32.TransformCoordinate(pos, snap.ViewProj)
	rimR := math.Hypot(float64(posNDC.X()), float64(posNDC.Y()))

	return SurfaceSample{
		Position: pos,
		Height:   height,
		FBM:      fbmVal,
		Radial:   math.Exp(-2.0 * math.Max(0, height)),
		Rim:      smoothstepF(0.55, 0.95, rimR),
		Grain:    valueNoise3(dx*24, dy*24, dz*24),
		UpAlign:  float64(n.Dot(up)),
	}
}

func mixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
