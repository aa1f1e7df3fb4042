package fireball

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// boundUniform is one entry of the capability table: a location resolved at
// link time plus a typed apply closure. Absent uniforms (optimized out or
// unused by the current shader build) keep present=false and are skipped at
// bind time; that is never an error.
type boundUniform struct {
	name    string
	loc     int32
	present bool
	apply   func(loc int32, snap *ParameterSnapshot)
}

// Renderer issues the three composited passes per frame over a shared
// program and mesh. Pass order is fixed: opaque core first, then the two
// additive overlays.
type Renderer struct {
	prog uint32
	vao  uint32
	vbo  uint32
	ebo  uint32

	indexCount int32
	table      []boundUniform
	passLoc    int32
	passOK     bool
}

func NewRenderer(mesh *Mesh) (*Renderer, error) {
	prog, err := linkProgram(fireballVertSrc, fireballFragSrc)
	if err != nil {
		return nil, fmt.Errorf("fireball program: %w", err)
	}

	r := &Renderer{prog: prog}
	r.buildUniformTable()

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))
	gl.BindVertexArray(0)

	r.UploadMesh(mesh)
	return r, nil
}

// UploadMesh replaces the active mesh (sphere/plane switch).
func (r *Renderer) UploadMesh(mesh *Mesh) {
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	r.indexCount = int32(len(mesh.Indices))
}

func (r *Renderer) Destroy() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.prog)
}

func (r *Renderer) resolve(name string) (int32, bool) {
	loc := gl.GetUniformLocation(r.prog, gl.Str(name+"\x00"))
	return loc, loc >= 0
}

// buildUniformTable resolves every uniform of the contract once. Binding
// iterates this table; nothing probes for uniforms per frame.
func (r *Renderer) buildUniformTable() {
	f := func(get func(*ParameterSnapshot) float64) func(int32, *ParameterSnapshot) {
		return func(loc int32, s *ParameterSnapshot) { gl.Uniform1f(loc, float32(get(s))) }
	}
	add := func(name string, apply func(int32, *ParameterSnapshot)) {
		loc, ok := r.resolve(name)
		r.table = append(r.table, boundUniform{name: name, loc: loc, present: ok, apply: apply})
	}

	add("u_Model", func(loc int32, s *ParameterSnapshot) {
		gl.UniformMatrix4fv(loc, 1, false, &s.Model[0])
	})
	add("u_ViewProj", func(loc int32, s *ParameterSnapshot) {
		gl.UniformMatrix4fv(loc, 1, false, &s.ViewProj[0])
	})
	add("u_Time", f(func(s *ParameterSnapshot) float64 { return s.Time }))
	add("u_Octaves", func(loc int32, s *ParameterSnapshot) {
		gl.Uniform1i(loc, int32(s.Octaves))
	})
	add("u_CoreLowAmp", f(func(s *ParameterSnapshot) float64 { return s.CoreLowAmp }))
	add("u_CoreHiAmp", f(func(s *ParameterSnapshot) float64 { return s.CoreHiAmp }))
	add("u_CoreScale", f(func(s *ParameterSnapshot) float64 { return s.CoreScale }))
	add("u_FlameNoiseScale", f(func(s *ParameterSnapshot) float64 { return s.FlameNoiseScale }))
	add("u_FlameHiAmp", f(func(s *ParameterSnapshot) float64 { return s.FlameHiAmp }))
	add("u_FlameLift", f(func(s *ParameterSnapshot) float64 { return s.FlameLift }))
	add("u_UpDir", func(loc int32, s *ParameterSnapshot) {
		gl.Uniform3f(loc, s.UpDir.X(), s.UpDir.Y(), s.UpDir.Z())
	})
	add("u_MouseNDC", func(loc int32, s *ParameterSnapshot) {
		gl.Uniform2f(loc, s.MouseNDC.X(), s.MouseNDC.Y())
	})
	add("u_MouseStrength", f(func(s *ParameterSnapshot) float64 { return s.MouseStrength }))
	add("u_MouseFalloff", f(func(s *ParameterSnapshot) float64 { return s.MouseFalloff }))
	add("u_MouseOn", func(loc int32, s *ParameterSnapshot) {
		on := float32(0)
		if s.MouseOn {
			on = 1
		}
		gl.Uniform1f(loc, on)
	})
	add("u_ShellOffset", f(func(s *ParameterSnapshot) float64 { return s.ShellOffset }))
	add("u_GlowOffset", f(func(s *ParameterSnapshot) float64 { return s.GlowOffset }))
	add("u_SceneScale", f(func(s *ParameterSnapshot) float64 { return s.SceneScale }))
	add("u_BandCount", f(func(s *ParameterSnapshot) float64 { return s.BandCount }))
	add("u_Exposure", f(func(s *ParameterSnapshot) float64 { return s.Exposure }))
	add("u_Wash", f(func(s *ParameterSnapshot) float64 { return s.Wash }))
	add("u_GrainAmp", f(func(s *ParameterSnapshot) float64 { return s.GrainAmp }))
	add("u_CoreHot", f(func(s *ParameterSnapshot) float64 { return s.CoreHot }))
	add("u_GlowStrength", f(func(s *ParameterSnapshot) float64 { return s.GlowStrength }))
	add("u_AudioBass", f(func(s *ParameterSnapshot) float64 { return s.Bass }))
	add("u_AudioMid", f(func(s *ParameterSnapshot) float64 { return s.Mid }))
	add("u_AudioTreble", f(func(s *ParameterSnapshot) float64 { return s.Treble }))
	add("u_AudioBeat", f(func(s *ParameterSnapshot) float64 { return s.Beat }))

	r.passLoc, r.passOK = r.resolve("u_Pass")
}

func (r *Renderer) bindSnapshot(snap *ParameterSnapshot) {
	for i := range r.table {
		u := &r.table[i]
		if u.present {
			u.apply(u.loc, snap)
		}
	}
}

func (r *Renderer) setPass(p PassIndex) {
	if r.passOK {
		gl.Uniform1i(r.passLoc, int32(p))
	}
}

func (r *Renderer) draw() {
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, glOffset(0))
}

// RenderFrame issues the three passes in their fixed order. The ordering
// encodes the depth/blend layering: the opaque body writes depth, the two
// overlays blend additively without occluding each other. GL state is
// returned to opaque defaults afterwards.
func (r *Renderer) RenderFrame(snap *ParameterSnapshot) {
	gl.UseProgram(r.prog)
	r.bindSnapshot(snap)
	gl.BindVertexArray(r.vao)

	// Core: opaque base.
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	r.setPass(PassCore)
	r.draw()

	// Flame: additive overlay, no depth write.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.DepthMask(false)
	r.setPass(PassFlame)
	r.draw()

	// Glow: same blend state, strictly outside the flame shell.
	r.setPass(PassGlow)
	r.draw()

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}
