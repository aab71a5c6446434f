package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MatrixStack holds the current projection and model-view matrices plus a
// LIFO stack of saved values for each.
//
// The zero value is not ready for use; call NewMatrixStack. Pop on an empty
// stack keeps the current value.
type MatrixStack struct {
	projection mgl32.Mat4
	modelView  mgl32.Mat4

	projStack []mgl32.Mat4
	mvStack   []mgl32.Mat4
}

// NewMatrixStack returns a stack with identity projection and model-view.
func NewMatrixStack() *MatrixStack {
	s := &MatrixStack{}
	s.init()
	return s
}

func (s *MatrixStack) init() {
	s.projection = mgl32.Ident4()
	s.modelView = mgl32.Ident4()
}

// SetProjection replaces the current projection matrix.
func (s *MatrixStack) SetProjection(m mgl32.Mat4) { s.projection = m }

// SetModelView replaces the current model-view matrix.
func (s *MatrixStack) SetModelView(m mgl32.Mat4) { s.modelView = m }

// Projection returns the current projection matrix.
func (s *MatrixStack) Projection() mgl32.Mat4 { return s.projection }

// ModelView returns the current model-view matrix.
func (s *MatrixStack) ModelView() mgl32.Mat4 { return s.modelView }

// MVP returns projection × model-view.
func (s *MatrixStack) MVP() mgl32.Mat4 {
	return s.projection.Mul4(s.modelView)
}

// PushModelView saves the current model-view matrix.
func (s *MatrixStack) PushModelView() {
	s.mvStack = append(s.mvStack, s.modelView)
}

// PopModelView restores the most recently saved model-view matrix.
func (s *MatrixStack) PopModelView() {
	debugAssert(len(s.mvStack) > 0, "PopModelView on empty stack")
	s.modelView, s.mvStack = pop(s.mvStack, s.modelView)
}

// Push2D saves both matrices and switches to pixel coordinates over
// [0,w]×[h,0] with the origin at the top-left.
func (s *MatrixStack) Push2D(w, h int) {
	s.projStack = append(s.projStack, s.projection)
	s.mvStack = append(s.mvStack, s.modelView)
	s.Mode2D(w, h)
}

// Pop2D restores both matrices saved by the matching Push2D.
func (s *MatrixStack) Pop2D() {
	debugAssert(len(s.projStack) > 0 && len(s.mvStack) > 0, "Pop2D on empty stack",
		"projection", len(s.projStack), "modelview", len(s.mvStack))
	s.projection, s.projStack = pop(s.projStack, s.projection)
	s.modelView, s.mvStack = pop(s.mvStack, s.modelView)
}

func pop(stack []mgl32.Mat4, cur mgl32.Mat4) (mgl32.Mat4, []mgl32.Mat4) {
	n := len(stack)
	if n == 0 {
		return cur, stack
	}
	return stack[n-1], stack[:n-1]
}

// Depth returns the number of saved projection and model-view matrices.
func (s *MatrixStack) Depth() (projection, modelView int) {
	return len(s.projStack), len(s.mvStack)
}

// TranslateMV post-multiplies the model-view by a translation.
func (s *MatrixStack) TranslateMV(x, y, z float32) {
	s.modelView = s.modelView.Mul4(mgl32.Translate3D(x, y, z))
}

// RotateMV post-multiplies the model-view by a rotation of deg degrees
// around (x, y, z). A zero axis leaves the matrix unchanged.
func (s *MatrixStack) RotateMV(deg, x, y, z float32) {
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		debugAssert(false, "RotateMV with zero axis")
		return
	}
	s.modelView = s.modelView.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(deg), axis.Normalize()))
}

// ScaleMV post-multiplies the model-view by a scale.
func (s *MatrixStack) ScaleMV(x, y, z float32) {
	s.modelView = s.modelView.Mul4(mgl32.Scale3D(x, y, z))
}

// Mode2D sets a Y-down orthographic projection over [0,w]×[h,0] with
// near/far [-1,1] and resets the model-view.
func (s *MatrixStack) Mode2D(w, h int) {
	s.projection = mgl32.Ortho(0, float32(w), float32(h), 0, -1, 1)
	s.modelView = mgl32.Ident4()
}

// Mode3D sets a perspective projection with a vertical field of view in
// degrees and resets the model-view.
func (s *MatrixStack) Mode3D(fovDeg, aspect, near, far float32) {
	s.projection = mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
	s.modelView = mgl32.Ident4()
}

// Project maps an object-space point to window coordinates for a viewport
// of vw×vh pixels, origin at the top-left.
func (s *MatrixStack) Project(obj mgl32.Vec3, vw, vh int) mgl32.Vec3 {
	win := mgl32.Project(obj, s.modelView, s.projection, 0, 0, vw, vh)
	win[1] = float32(vh) - win[1]
	return win
}

// Unproject maps window coordinates (origin top-left, z in [0,1] depth
// range) back to object space.
func (s *MatrixStack) Unproject(win mgl32.Vec3, vw, vh int) (mgl32.Vec3, error) {
	win[1] = float32(vh) - win[1]
	return mgl32.UnProject(win, s.modelView, s.projection, 0, 0, vw, vh)
}
