package fireball

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MouseDeformationField tracks the cursor in normalized device coordinates
// and converts it into a screen-space attraction. The only state is the NDC
// position, a strength/falloff pair, and the enabled flag.
type MouseDeformationField struct {
	NDC      mgl32.Vec2
	Strength float64
	Falloff  float64
	Enabled  bool
}

func NewMouseDeformationField() *MouseDeformationField {
	return &MouseDeformationField{
		Strength: 1.0,
		Falloff:  0.35,
		Enabled:  true,
	}
}

// SetCursor converts a window-pixel cursor position into NDC.
func (m *MouseDeformationField) SetCursor(px, py float64, winW, winH int) {
	if winW <= 0 || winH <= 0 {
		return
	}
	m.NDC[0] = float32(px/float64(winW)*2.0 - 1.0)
	m.NDC[1] = float32(1.0 - py/float64(winH)*2.0)
}

// Influence returns the Gaussian attraction weight for a point already in NDC.
func (m *MouseDeformationField) Influence(ndc mgl32.Vec2) float64 {
	if !m.Enabled {
		return 0
	}
	falloff := m.Falloff
	if falloff < MouseMinFalloff {
		falloff = MouseMinFalloff
	}
	dx := float64(ndc[0] - m.NDC[0])
	dy := float64(ndc[1] - m.NDC[1])
	d := math.Sqrt(dx*dx + dy*dy)
	return math.Exp(-(d / falloff) * (d / falloff))
}

// TangentPull builds a unit vector in the surface tangent plane pointing
// toward the cursor. The orthonormal frame around the normal switches its
// reference axis when the normal runs close to +Y, so the cross product
// never degenerates.
func (m *MouseDeformationField) TangentPull(normal mgl32.Vec3, ndc mgl32.Vec2) mgl32.Vec3 {
	ref := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(normal.Y())) > 0.95 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	tanU := ref.Cross(normal)
	if l := tanU.Len(); l > 1e-6 {
		tanU = tanU.Mul(1 / l)
	} else {
		return mgl32.Vec3{}
	}
	tanV := normal.Cross(tanU)

	// Screen-space direction from the point to the cursor drives the mix of
	// the two tangent axes.
	dx := float64(m.NDC[0] - ndc[0])
	dy := float64(m.NDC[1] - ndc[1])
	l := math.Sqrt(dx*dx + dy*dy)
	if l < 1e-6 {
		return mgl32.Vec3{}
	}
	pull := tanU.Mul(float32(dx / l)).Add(tanV.Mul(float32(dy / l)))
	if pl := pull.Len(); pl > 1e-6 {
		return pull.Mul(1 / pl)
	}
	return mgl32.Vec3{}
}
