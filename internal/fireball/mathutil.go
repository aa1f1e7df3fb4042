package fireball

import "math"

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerpF(a, b, t float64) float64 {
	return a + (b-a)*t
}

// fade is the 3t^2-2t^3 curve used on every noise axis.
func fade(t float64) float64 {
	return t * t * (3.0 - 2.0*t)
}

func fract(v float64) float64 {
	return v - math.Floor(v)
}

func smoothstepF(edge0, edge1, v float64) float64 {
	t := clampF((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3.0 - 2.0*t)
}

func signF(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
