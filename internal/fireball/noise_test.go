package fireball

import (
	"math"
	"math/rand"
	"testing"
)

// TestValueNoiseRange verifies output stays in [0,1] for arbitrary finite input
func TestValueNoiseRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		x := (rng.Float64() - 0.5) * 200
		y := (rng.Float64() - 0.5) * 200
		z := (rng.Float64() - 0.5) * 200
		v := valueNoise3(x, y, z)
		if v < 0 || v > 1 {
			t.Fatalf("valueNoise3(%v,%v,%v) = %v, out of [0,1]", x, y, z, v)
		}
	}
}

// TestValueNoiseContinuity verifies small input deltas produce small output deltas
func TestValueNoiseContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const eps = 1e-4
	for i := 0; i < 2000; i++ {
		x := (rng.Float64() - 0.5) * 50
		y := (rng.Float64() - 0.5) * 50
		z := (rng.Float64() - 0.5) * 50
		a := valueNoise3(x, y, z)
		b := valueNoise3(x+eps, y, z)
		if math.Abs(a-b) > 0.01 {
			t.Fatalf("discontinuity at (%v,%v,%v): |%v-%v| = %v", x, y, z, a, b, math.Abs(a-b))
		}
	}
}

// TestValueNoiseLatticeIdentity verifies noise equals hash3 at integer lattice points
func TestValueNoiseLatticeIdentity(t *testing.T) {
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			for z := -3; z <= 3; z++ {
				fx, fy, fz := float64(x), float64(y), float64(z)
				n := valueNoise3(fx, fy, fz)
				h := hash3(fx, fy, fz)
				if math.Abs(n-h) > 1e-12 {
					t.Fatalf("lattice point (%d,%d,%d): noise %v != hash %v", x, y, z, n, h)
				}
			}
		}
	}
}

// TestFbmOctaveBound verifies adding an octave changes the sum by at most
// that octave's amplitude 0.5^(k+1)
func TestFbmOctaveBound(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		x := (rng.Float64() - 0.5) * 20
		y := (rng.Float64() - 0.5) * 20
		z := (rng.Float64() - 0.5) * 20
		for k := 1; k < MaxOctaves; k++ {
			a := fbm(x, y, z, k)
			b := fbm(x, y, z, k+1)
			bound := math.Pow(0.5, float64(k+1))
			if diff := math.Abs(b - a); diff > bound+1e-12 {
				t.Fatalf("fbm octave %d->%d at (%v,%v,%v): diff %v exceeds %v", k, k+1, x, y, z, diff, bound)
			}
		}
	}
}

// TestFbmOctaveClamp verifies the high clamp and the zero degenerate case
func TestFbmOctaveClamp(t *testing.T) {
	if got, want := fbm(1.3, -2.7, 0.4, 20), fbm(1.3, -2.7, 0.4, MaxOctaves); got != want {
		t.Errorf("fbm with 20 octaves = %v, want clamp to %d octaves = %v", got, MaxOctaves, want)
	}
	if got := fbm(1.3, -2.7, 0.4, 0); got != 0 {
		t.Errorf("fbm with 0 octaves = %v, want 0", got)
	}
	if got := fbm(1.3, -2.7, 0.4, -5); got != 0 {
		t.Errorf("fbm with -5 octaves = %v, want 0", got)
	}
}

// TestHash3Deterministic verifies repeated calls agree bit for bit
func TestHash3Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		x := (rng.Float64() - 0.5) * 100
		y := (rng.Float64() - 0.5) * 100
		z := (rng.Float64() - 0.5) * 100
		if hash3(x, y, z) != hash3(x, y, z) {
			t.Fatalf("hash3 not deterministic at (%v,%v,%v)", x, y, z)
		}
	}
}
