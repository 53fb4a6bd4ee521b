package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape is collidable geometry. The set of shapes is closed: *Sphere and *Plane.
type Shape interface {
	isShape()
}

// Sphere is a ball of fixed radius centred on its body's position.
type Sphere struct {
	Body   *Body
	radius float32
}

// NewSphere attaches a sphere of the given radius to body.
func NewSphere(body *Body, radius float32) (*Sphere, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	s := &Sphere{Body: body}
	if err := s.SetRadius(radius); err != nil {
		return nil, err
	}
	return s, nil
}

func (*Sphere) isShape() {}

// Radius returns the sphere radius.
func (s *Sphere) Radius() float32 {
	return s.radius
}

// SetRadius changes the radius; it must be positive and finite.
func (s *Sphere) SetRadius(radius float32) error {
	if !(radius > 0) || !isFinite(radius) {
		return fmt.Errorf("radius %v: %w", radius, ErrInvalidRadius)
	}
	s.radius = radius
	return nil
}

// Center returns the sphere's center, i.e. its body's position.
func (s *Sphere) Center() mgl32.Vec3 {
	return s.Body.Position
}

// Plane is an infinite static plane: every point P on it satisfies
// dot(P, Normal()) == Offset(). Planes take part in collision only; they are never
// integrated and never receive impulses.
type Plane struct {
	normal mgl32.Vec3
	offset float32
}

// NewPlane returns the plane with the given normal (normalized here, any orientation)
// at a signed distance offset from the origin along that normal.
func NewPlane(normal mgl32.Vec3, offset float32) (*Plane, error) {
	n, l := normalizeOr(normal, mgl32.Vec3{})
	if l == 0 || !isFinite(offset) {
		return nil, fmt.Errorf("normal %v offset %v: %w", normal, offset, ErrDegenerateNormal)
	}
	return &Plane{normal: n, offset: offset}, nil
}

// NewPlaneThroughPoint returns the plane with the given normal passing through point.
func NewPlaneThroughPoint(normal, point mgl32.Vec3) (*Plane, error) {
	n, l := normalizeOr(normal, mgl32.Vec3{})
	if l == 0 || !isFiniteVec(point) {
		return nil, fmt.Errorf("normal %v point %v: %w", normal, point, ErrDegenerateNormal)
	}
	return &Plane{normal: n, offset: point.Dot(n)}, nil
}

func (*Plane) isShape() {}

// Normal returns the plane's unit normal.
func (p *Plane) Normal() mgl32.Vec3 {
	return p.normal
}

// Offset returns the plane's signed distance from the origin along Normal.
func (p *Plane) Offset() float32 {
	return p.offset
}

// SignedDistance returns how far point lies in front of (positive) or behind (negative)
// the plane.
func (p *Plane) SignedDistance(point mgl32.Vec3) float32 {
	return point.Dot(p.normal) - p.offset
}

// Origin returns the point of the plane closest to the world origin.
func (p *Plane) Origin() mgl32.Vec3 {
	return p.normal.Mul(p.offset)
}

// IntersectRay returns where the ray origin + t*dir (t >= 0) meets the plane. ok is false
// for rays parallel to the plane or pointing away from it.
func (p *Plane) IntersectRay(origin, dir mgl32.Vec3) (point mgl32.Vec3, ok bool) {
	denom := dir.Dot(p.normal)
	if denom == 0 || !isFinite(denom) {
		return mgl32.Vec3{}, false
	}
	t := -p.SignedDistance(origin) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}
