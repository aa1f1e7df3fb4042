package fireball

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Options are the runtime choices exposed on the command line.
type Options struct {
	AudioFile    string // wav/mp3 for the last acquisition tier
	Shape        string // "sphere" or "plane"
	Subdivisions int    // icosphere density
	NoAudio      bool   // start with reactivity off
}

// RunDesktop opens the window and drives the frame loop until close.
// One frame: input -> audio analysis -> parameter snapshot -> three passes.
func RunDesktop(opts Options) {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		// No meaningful degraded mode exists without a GL context.
		panic(fmt.Errorf("gl init: %w", err))
	}

	if opts.Subdivisions <= 0 {
		opts.Subdivisions = 4
	}
	if opts.Subdivisions > 6 {
		opts.Subdivisions = 6
	}
	sphere := true
	mesh := NewIcosphere(opts.Subdivisions)
	if opts.Shape == "plane" {
		sphere = false
		mesh = NewPlane(96)
	}

	rend, err := NewRenderer(mesh)
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	audio := NewAudioSystem(opts.AudioFile)
	audio.Start()
	defer audio.StopSource()

	cam := NewOrbitCamera()
	mouse := NewMouseDeformationField()
	base := DefaultBaseParams()
	if opts.NoAudio {
		base.AudioReactive = false
	}
	descs := base.Descriptors()
	selected := 0
	var mod ParameterModulator
	input := NewInput(window)

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.015, 0.005, 0.02, 1.0)

	upSmooth := mgl32.Vec3{0, 1, 0}
	fpsTimer, fpsFrames := 0.0, 0

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		// Feature toggles and the minimal parameter surface.
		if input.JustPressed(window, glfw.KeyM) {
			mouse.Enabled = !mouse.Enabled
		}
		if input.JustPressed(window, glfw.KeyA) {
			base.AudioReactive = !base.AudioReactive
		}
		if input.JustPressed(window, glfw.KeyS) {
			audio.Cycle()
		}
		if input.JustPressed(window, glfw.KeyP) {
			sphere = !sphere
			if sphere {
				rend.UploadMesh(NewIcosphere(opts.Subdivisions))
			} else {
				rend.UploadMesh(NewPlane(96))
			}
		}
		if input.JustPressed(window, glfw.KeyLeftBracket) {
			selected = (selected + len(descs) - 1) % len(descs)
			fmt.Printf("param: %s = %.3g\n", descs[selected].Label, *descs[selected].Ptr)
		}
		if input.JustPressed(window, glfw.KeyRightBracket) {
			selected = (selected + 1) % len(descs)
			fmt.Printf("param: %s = %.3g\n", descs[selected].Label, *descs[selected].Ptr)
		}
		if input.JustPressed(window, glfw.KeyMinus) {
			d := descs[selected]
			*d.Ptr = clampF(*d.Ptr-d.Step, d.Min, d.Max)
			fmt.Printf("param: %s = %.3g\n", d.Label, *d.Ptr)
		}
		if input.JustPressed(window, glfw.KeyEqual) {
			d := descs[selected]
			*d.Ptr = clampF(*d.Ptr+d.Step, d.Min, d.Max)
			fmt.Printf("param: %s = %.3g\n", d.Label, *d.Ptr)
		}

		// Geometry-affecting state: camera drag/zoom and cursor NDC.
		if dx, dy := input.DragDelta(window); dx != 0 || dy != 0 {
			cam.Drag(dx, dy)
		}
		if s := input.TakeScroll(); s != 0 {
			cam.Scroll(s)
		}
		winW, winH := window.GetSize()
		cx, cy := window.GetCursorPos()
		mouse.SetCursor(cx, cy, winW, winH)

		// Signal state.
		levels := audio.Step(base.BeatSensitivity, dt)

		// The flame leans toward the cursor while deformation is on and
		// eases back to world up when it is not.
		upTarget := mgl32.Vec3{0, 1, 0}
		if mouse.Enabled {
			upTarget = mgl32.Vec3{mouse.NDC.X() * 0.3, 1, -mouse.NDC.Y() * 0.3}
		}
		upSmooth = mixVec3(upSmooth, upTarget, float32(clampF(4.0*dt, 0, 1)))
		if l := upSmooth.Len(); l > 1e-6 {
			upSmooth = upSmooth.Mul(1 / l)
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		aspect := float32(fbW) / float32(fbH)
		model := mgl32.Ident4()
		snap := mod.Snapshot(&base, levels, now, upSmooth, mouse, model, cam.ViewProj(aspect))

		gl.Viewport(0, 0, int32(fbW), int32(fbH))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		rend.RenderFrame(&snap)
		window.SwapBuffers()

		fpsFrames++
		if fpsTimer += dt; fpsTimer >= 1.0 {
			window.SetTitle(fmt.Sprintf("Fireball | %d fps | audio: %s", fpsFrames, audio.SourceName()))
			fpsTimer, fpsFrames = 0, 0
		}
	}
}
