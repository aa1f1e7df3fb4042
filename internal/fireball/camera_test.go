package fireball

import (
	"math"
	"math/rand"
	"testing"
)

// TestOrbitBoundsUnderEventStorm verifies pitch and radius never escape
// their bounds for an arbitrary drag/scroll sequence
func TestOrbitBoundsUnderEventStorm(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cam := NewOrbitCamera()
	for i := 0; i < 20000; i++ {
		if rng.Intn(2) == 0 {
			cam.Drag((rng.Float64()-0.5)*400, (rng.Float64()-0.5)*400)
		} else {
			cam.Scroll((rng.Float64() - 0.5) * 10)
		}
		if cam.Pitch < CamMinPitch || cam.Pitch > CamMaxPitch {
			t.Fatalf("event %d: pitch %v escaped [%v,%v]", i, cam.Pitch, CamMinPitch, CamMaxPitch)
		}
		if cam.Radius < CamMinRadius || cam.Radius > CamMaxRadius {
			t.Fatalf("event %d: radius %v escaped [%v,%v]", i, cam.Radius, CamMinRadius, CamMaxRadius)
		}
	}
}

// TestEyeOnOrbitSphere verifies the eye sits at the configured radius
func TestEyeOnOrbitSphere(t *testing.T) {
	cam := NewOrbitCamera()
	cam.Drag(120, -60)
	cam.Scroll(1)
	eye := cam.Eye()
	if got := float64(eye.Len()); math.Abs(got-cam.Radius) > 1e-4 {
		t.Errorf("|eye| = %v, want radius %v", got, cam.Radius)
	}
}

// TestScrollDirection verifies scrolling in zooms and out zooms back
func TestScrollDirection(t *testing.T) {
	cam := NewOrbitCamera()
	r0 := cam.Radius
	cam.Scroll(1)
	if cam.Radius <= r0 {
		t.Errorf("scroll +1: radius %v, want > %v", cam.Radius, r0)
	}
	cam.Scroll(-1)
	cam.Scroll(-1)
	if cam.Radius >= r0 {
		t.Errorf("scroll -1 twice: radius %v, want < %v", cam.Radius, r0)
	}
}
