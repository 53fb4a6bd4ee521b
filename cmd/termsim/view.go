package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cellAspect is how many columns make up one row's height on a typical terminal font.
const cellAspect = 2

// view maps the z=0 slice of the world onto terminal cells. Center is the world point
// shown in the middle of the screen; Scale is rows per world unit.
type view struct {
	Width, Height int
	Center        mgl32.Vec2
	Scale         float32
}

func newView(w, h int) view {
	return view{Width: w, Height: h, Center: mgl32.Vec2{0, 6}, Scale: 1.5}
}

// project returns the cell under p. ok is false outside the screen.
func (v view) project(p mgl32.Vec3) (x, y int, ok bool) {
	fx := float32(v.Width)/2 + (p.X()-v.Center.X())*v.Scale*cellAspect
	fy := float32(v.Height)/2 - (p.Y()-v.Center.Y())*v.Scale
	x, y = int(math32.Floor(fx)), int(math32.Floor(fy))
	return x, y, x >= 0 && y >= 0 && x < v.Width && y < v.Height
}

// unproject returns the world point (z=0) at the center of cell (x, y).
func (v view) unproject(x, y int) mgl32.Vec3 {
	fx := float32(x) + 0.5
	fy := float32(y) + 0.5
	return mgl32.Vec3{
		v.Center.X() + (fx-float32(v.Width)/2)/(v.Scale*cellAspect),
		v.Center.Y() - (fy-float32(v.Height)/2)/v.Scale,
		0,
	}
}

// cellSize is the height of one row in world units.
func (v view) cellSize() float32 {
	return 1 / v.Scale
}

func (v *view) zoom(factor float32) {
	v.Scale = mgl32.Clamp(v.Scale*factor, 0.2, 8)
}

func (v *view) pan(dx, dy float32) {
	v.Center = v.Center.Add(mgl32.Vec2{dx, dy}.Mul(v.cellSize()))
}
