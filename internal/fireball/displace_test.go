package fireball

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testSnapshot(t float64) ParameterSnapshot {
	base := DefaultBaseParams()
	var mod ParameterModulator
	cam := NewOrbitCamera()
	return mod.Snapshot(&base, AudioLevels{}, t, mgl32.Vec3{0, 1, 0}, nil,
		mgl32.Ident4(), cam.ViewProj(4.0/3.0))
}

func spherePoints(seed int64, n int) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]mgl32.Vec3, 0, n)
	for len(pts) < n {
		v := mgl32.Vec3{
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
		}
		if l := v.Len(); l > 0.1 {
			pts = append(pts, v.Mul(1/l))
		}
	}
	return pts
}

// TestCorePassTimeInvariant verifies the solid body does not animate: two
// frames far apart in time displace core vertices identically
func TestCorePassTimeInvariant(t *testing.T) {
	s1 := testSnapshot(0.0)
	s2 := testSnapshot(137.5)
	for _, p := range spherePoints(11, 200) {
		a := DisplacePoint(p, PassCore, &s1, nil)
		b := DisplacePoint(p, PassCore, &s2, nil)
		if a.Position != b.Position || a.Height != b.Height {
			t.Fatalf("core pass moved with time at %v: %+v vs %+v", p, a, b)
		}
	}
}

// TestFlamePassAnimates verifies the flame shell does move with time
func TestFlamePassAnimates(t *testing.T) {
	s1 := testSnapshot(0.0)
	s2 := testSnapshot(3.0)
	moved := false
	for _, p := range spherePoints(12, 50) {
		a := DisplacePoint(p, PassFlame, &s1, nil)
		b := DisplacePoint(p, PassFlame, &s2, nil)
		if a.Position != b.Position {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("flame pass produced identical geometry at t=0 and t=3")
	}
}

// TestCorePassMouseImmune verifies cursor deformation never reaches the
// solid body
func TestCorePassMouseImmune(t *testing.T) {
	snap := testSnapshot(1.0)
	snap.MouseOn = true
	mouse := NewMouseDeformationField()
	mouse.Strength = 5.0
	mouse.SetCursor(WindowWidth/2, WindowHeight/2, WindowWidth, WindowHeight)

	for _, p := range spherePoints(13, 200) {
		with := DisplacePoint(p, PassCore, &snap, mouse)
		without := DisplacePoint(p, PassCore, &snap, nil)
		if with.Position != without.Position {
			t.Fatalf("mouse deformed core vertex %v: %v vs %v", p, with.Position, without.Position)
		}
	}
}

// TestShellSeparation verifies the glow shell sits exactly
// GlowOffset-ShellOffset further out than the flame shell when the cursor is
// inactive
func TestShellSeparation(t *testing.T) {
	snap := testSnapshot(2.0)
	want := snap.GlowOffset - snap.ShellOffset
	for _, p := range spherePoints(14, 100) {
		flame := DisplacePoint(p, PassFlame, &snap, nil)
		glow := DisplacePoint(p, PassGlow, &snap, nil)
		if diff := glow.Height - flame.Height; math.Abs(diff-want) > 1e-9 {
			t.Fatalf("shell separation at %v = %v, want %v", p, diff, want)
		}
	}
}

// TestMouseUpBlendSaturates verifies strength past full influence cannot
// push the up blend beyond the pull direction: the mix weight clamps at 1
func TestMouseUpBlendSaturates(t *testing.T) {
	snap := testSnapshot(1.0)
	snap.MouseOn = true

	// Huge falloff makes the Gaussian near 1 everywhere, so both strengths
	// drive the blend weight past 1 and must land on the same clamped up.
	weak := NewMouseDeformationField()
	weak.Falloff = 100
	weak.Strength = 3
	weak.NDC = mgl32.Vec2{0.3, 0.2}
	strong := NewMouseDeformationField()
	strong.Falloff = 100
	strong.Strength = 300
	strong.NDC = weak.NDC

	for _, p := range spherePoints(17, 100) {
		a := DisplacePoint(p, PassFlame, &snap, weak)
		b := DisplacePoint(p, PassFlame, &snap, strong)
		if math.Abs(a.UpAlign-b.UpAlign) > 1e-6 || math.Abs(a.FBM-b.FBM) > 1e-6 {
			t.Fatalf("saturated strengths diverge at %v: upAlign %v vs %v, fbm %v vs %v",
				p, a.UpAlign, b.UpAlign, a.FBM, b.FBM)
		}
	}
}

// TestRadialFalloff verifies the radial varying decays with height and stays
// in (0,1]
func TestRadialFalloff(t *testing.T) {
	snap := testSnapshot(0.7)
	for _, p := range spherePoints(15, 100) {
		s := DisplacePoint(p, PassFlame, &snap, nil)
		if s.Radial <= 0 || s.Radial > 1 {
			t.Fatalf("radial %v out of (0,1] at %v", s.Radial, p)
		}
		if s.Height > 0 && s.Radial >= 1 {
			t.Fatalf("positive height %v did not attenuate radial (%v)", s.Height, s.Radial)
		}
	}
}

// TestTangentPullFrame verifies the pull vector is unit length and lies in
// the tangent plane
func TestTangentPullFrame(t *testing.T) {
	mouse := NewMouseDeformationField()
	mouse.NDC = mgl32.Vec2{0.3, -0.2}
	rng := rand.New(rand.NewSource(16))
	for i := 0; i < 500; i++ {
		n := mgl32.Vec3{
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
		}
		if l := n.Len(); l > 0.1 {
			n = n.Mul(1 / l)
		} else {
			continue
		}
		ndc := mgl32.Vec2{float32(rng.Float64()*2 - 1), float32(rng.Float64()*2 - 1)}
		pull := mouse.TangentPull(n, ndc)
		if pull == (mgl32.Vec3{}) {
			continue // degenerate screen direction
		}
		if math.Abs(float64(pull.Len())-1) > 1e-5 {
			t.Fatalf("pull not unit length: %v (len %v)", pull, pull.Len())
		}
		if dot := math.Abs(float64(pull.Dot(n))); dot > 1e-5 {
			t.Fatalf("pull not tangent to normal %v: dot %v", n, dot)
		}
	}
}

// TestTangentPullPolarNormal verifies the frame survives a normal aligned
// with world up
func TestTangentPullPolarNormal(t *testing.T) {
	mouse := NewMouseDeformationField()
	mouse.NDC = mgl32.Vec2{0.5, 0.5}
	pull := mouse.TangentPull(mgl32.Vec3{0, 1, 0}, mgl32.Vec2{-0.5, -0.5})
	if pull == (mgl32.Vec3{}) {
		t.Fatal("polar normal produced a zero pull")
	}
	if math.Abs(float64(pull.Len())-1) > 1e-5 {
		t.Errorf("polar pull not unit length: %v", pull.Len())
	}
}

// TestInfluenceShape verifies the Gaussian peaks at the cursor, decays with
// distance, and respects the enabled flag
func TestInfluenceShape(t *testing.T) {
	mouse := NewMouseDeformationField()
	mouse.NDC = mgl32.Vec2{0.1, 0.2}

	at := mouse.Influence(mgl32.Vec2{0.1, 0.2})
	if math.Abs(at-1) > 1e-9 {
		t.Errorf("influence at cursor = %v, want 1", at)
	}
	near := mouse.Influence(mgl32.Vec2{0.2, 0.2})
	far := mouse.Influence(mgl32.Vec2{0.9, 0.2})
	if !(at > near && near > far) {
		t.Errorf("influence not decaying: at=%v near=%v far=%v", at, near, far)
	}
	mouse.Enabled = false
	if got := mouse.Influence(mgl32.Vec2{0.1, 0.2}); got != 0 {
		t.Errorf("disabled influence = %v, want 0", got)
	}
}

// TestInfluenceZeroFalloff verifies a degenerate falloff is clamped instead
// of dividing by zero
func TestInfluenceZeroFalloff(t *testing.T) {
	mouse := NewMouseDeformationField()
	mouse.Falloff = 0
	got := mouse.Influence(mgl32.Vec2{0.4, 0.4})
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("zero falloff produced %v", got)
	}
}
