package fireball

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera holds spherical eye coordinates around a fixed origin target.
// Pitch and radius are re-clamped on every update so no event sequence can
// push the eye past the configured bounds.
type OrbitCamera struct {
	Yaw    float64
	Pitch  float64
	Radius float64

	RotateSpeed float64
	ZoomSpeed   float64
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Yaw:         0.35,
		Pitch:       0.25,
		Radius:      CamStartRadius,
		RotateSpeed: CamRotateSpeed,
		ZoomSpeed:   CamZoomSpeed,
	}
}

// Drag applies a cursor delta in pixels while the rotate button is held.
func (c *OrbitCamera) Drag(dx, dy float64) {
	c.Yaw += dx * c.RotateSpeed
	c.Pitch = clampF(c.Pitch+dy*c.RotateSpeed, CamMinPitch, CamMaxPitch)
}

// Scroll applies one scroll event. Zoom is multiplicative so a notch feels
// the same near and far.
func (c *OrbitCamera) Scroll(delta float64) {
	c.Radius = clampF(c.Radius*(1.0+signF(delta)*c.ZoomSpeed*0.1), CamMinRadius, CamMaxRadius)
}

// Eye returns the camera position on the orbit sphere.
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl32.Vec3{
		float32(c.Radius * cp * math.Sin(c.Yaw)),
		float32(c.Radius * math.Sin(c.Pitch)),
		float32(c.Radius * cp * math.Cos(c.Yaw)),
	}
}

func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(FOVDegrees), aspect, NearPlane, FarPlane)
}

// ViewProj is the matrix bound as u_ViewProj and reused by the host when
// projecting surface points for mouse influence.
func (c *OrbitCamera) ViewProj(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}
