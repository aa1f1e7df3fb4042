package fireball

import "math"

// Value noise over an integer lattice. This is the CPU mirror of the GLSL
// functions in shaders.go: both stages and the host must agree on the field
// so core cracking and grain stay consistent between vertex and fragment
// evaluation of overlapping coordinates.

// hash3 returns a deterministic pseudo-random scalar in [0,1) for a 3D
// coordinate. Same sin-dot construction as the shader hash.
func hash3(x, y, z float64) float64 {
	s := math.Sin(x*12.9898+y*78.233+z*37.719) * 43758.5453
	return fract(s)
}

// valueNoise3 interpolates hash3 at the 8 lattice corners around (x,y,z)
// with a smooth fade per axis. Output in [0,1]; at integer lattice points it
// equals hash3 of that point.
func valueNoise3(x, y, z float64) float64 {
	ix, iy, iz := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := x-ix, y-iy, z-iz

	wx := fade(fx)
	wy := fade(fy)
	wz := fade(fz)

	c000 := hash3(ix, iy, iz)
	c100 := hash3(ix+1, iy, iz)
	c010 := hash3(ix, iy+1, iz)
	c110 := hash3(ix+1, iy+1, iz)
	c001 := hash3(ix, iy, iz+1)
	c101 := hash3(ix+1, iy, iz+1)
	c011 := hash3(ix, iy+1, iz+1)
	c111 := hash3(ix+1, iy+1, iz+1)

	x00 := lerpF(c000, c100, wx)
	x10 := lerpF(c010, c110, wx)
	x01 := lerpF(c001, c101, wx)
	x11 := lerpF(c011, c111, wx)

	y0 := lerpF(x00, x10, wy)
	y1 := lerpF(x01, x11, wy)

	return lerpF(y0, y1, wz)
}

// fbm sums valueNoise3 octaves with amplitude halving and lacunarity 2.02.
// Octaves above MaxOctaves are clamped for cost; zero or negative octave
// counts degenerate to a zero sum (callers clamp the low end).
func fbm(x, y, z float64, octaves int) float64 {
	if octaves > MaxOctaves {
		octaves = MaxOctaves
	}
	sum := 0.0
	amp := NoiseAmpSeed
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * valueNoise3(x*freq, y*freq, z*freq)
		amp *= 0.5
		freq *= NoiseLacunarity
	}
	return sum
}
