package fireball

import "math"

// Mesh collaborators: the displaced-sphere and plane primitives the core
// renders. Positions only; normals are derived in-shader from the unit
// sphere assumption.

type Mesh struct {
	Vertices []float32 // xyz triples
	Indices  []uint32
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }
func (m *Mesh) IndexCount() int  { return len(m.Indices) }

// NewIcosphere builds a unit sphere by subdividing an icosahedron. Each
// subdivision level quadruples the triangle count; 4 gives 5120 triangles,
// dense enough for vertex-stage displacement to stay smooth.
func NewIcosphere(subdivisions int) *Mesh {
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	verts := [][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range verts {
		verts[i] = normalize3(verts[i])
	}
	faces := [][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	midCache := make(map[uint64]uint32)
	midpoint := func(a, b uint32) uint32 {
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		key := uint64(lo)<<32 | uint64(hi)
		if idx, ok := midCache[key]; ok {
			return idx
		}
		va, vb := verts[a], verts[b]
		mid := normalize3([3]float64{
			(va[0] + vb[0]) / 2, (va[1] + vb[1]) / 2, (va[2] + vb[2]) / 2,
		})
		verts = append(verts, mid)
		idx := uint32(len(verts) - 1)
		midCache[key] = idx
		return idx
	}

	for s := 0; s < subdivisions; s++ {
		next := make([][3]uint32, 0, len(faces)*4)
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			next = append(next,
				[3]uint32{f[0], a, c},
				[3]uint32{f[1], b, a},
				[3]uint32{f[2], c, b},
				[3]uint32{a, b, c},
			)
		}
		faces = next
	}

	m := &Mesh{
		Vertices: make([]float32, 0, len(verts)*3),
		Indices:  make([]uint32, 0, len(faces)*3),
	}
	for _, v := range verts {
		m.Vertices = append(m.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	for _, f := range faces {
		m.Indices = append(m.Indices, f[0], f[1], f[2])
	}
	return m
}

// NewPlane builds a res x res grid on the z=0 square, pushed slightly off
// the origin so normalize() in the displacement model stays defined.
func NewPlane(res int) *Mesh {
	if res < 1 {
		res = 1
	}
	m := &Mesh{}
	for y := 0; y <= res; y++ {
		for x := 0; x <= res; x++ {
			fx := float32(x)/float32(res)*2 - 1
			fy := float32(y)/float32(res)*2 - 1
			m.Vertices = append(m.Vertices, fx, fy, 0.25)
		}
	}
	stride := uint32(res + 1)
	for y := uint32(0); y < uint32(res); y++ {
		for x := uint32(0); x < uint32(res); x++ {
			i := y*stride + x
			m.Indices = append(m.Indices,
				i, i+1, i+stride,
				i+1, i+stride+1, i+stride,
			)
		}
	}
	return m
}

func normalize3(v [3]float64) [3]float64 {
	l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float64{v[0] / l, v[1] / l, v[2] / l}
}
