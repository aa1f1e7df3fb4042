package fireball

import "github.com/go-gl/glfw/v3.3/glfw"

// Input tracks per-key edge state, drag deltas, and accumulated scroll.
// Scroll arrives via callback; everything else is polled on the frame loop.
type Input struct {
	prevKeys map[glfw.Key]bool

	dragging    bool
	prevCursorX float64
	prevCursorY float64

	scrollY float64
}

func NewInput(window *glfw.Window) *Input {
	in := &Input{prevKeys: make(map[glfw.Key]bool)}
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		in.scrollY += yoff
	})
	return in
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// TakeScroll drains the scroll accumulated since the last frame.
func (in *Input) TakeScroll() float64 {
	s := in.scrollY
	in.scrollY = 0
	return s
}

// DragDelta returns the cursor delta while the rotate button is held.
// The first frame of a drag yields no delta so the view never jumps.
func (in *Input) DragDelta(window *glfw.Window) (dx, dy float64) {
	cx, cy := window.GetCursorPos()
	held := window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	if held && in.dragging {
		dx = cx - in.prevCursorX
		dy = cy - in.prevCursorY
	}
	in.dragging = held
	in.prevCursorX = cx
	in.prevCursorY = cy
	return dx, dy
}
