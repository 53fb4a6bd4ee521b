package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Contact is the result of a narrow-phase test between two shapes.
// Normal is a unit vector pointing from the second shape toward the first; Penetration
// is the overlap depth along it (positive = overlapping, zero or negative = apart).
type Contact struct {
	Normal      mgl32.Vec3
	Penetration float32
}

// Overlapping reports whether the contact needs resolving.
func (c Contact) Overlapping() bool {
	return c.Penetration > 0
}

// Detect dispatches to the narrow-phase test for the pair (a, b). ok is false for pairs
// with no test (plane vs plane).
func Detect(a, b Shape) (c Contact, ok bool) {
	switch a := a.(type) {
	case *Sphere:
		switch b := b.(type) {
		case *Sphere:
			return DetectSpheres(a, b), true
		case *Plane:
			return DetectSpherePlane(a, b), true
		}
	case *Plane:
		if s, isSphere := b.(*Sphere); isSphere {
			c = DetectSpherePlane(s, a)
			c.Normal = c.Normal.Mul(-1)
			return c, true
		}
	}
	return Contact{}, false
}

// DetectSpheres tests two spheres. The normal points from b's center toward a's center;
// when the centers coincide it is FallbackNormal.
func DetectSpheres(a, b *Sphere) Contact {
	normal, dist := normalizeOr(a.Center().Sub(b.Center()), FallbackNormal)
	return Contact{
		Normal:      normal,
		Penetration: a.radius + b.radius - dist,
	}
}

// DetectSpherePlane tests a sphere against a plane. The normal is the plane normal,
// flipped when the sphere's center lies behind the plane so that it always points
// toward the side the sphere is on.
func DetectSpherePlane(s *Sphere, p *Plane) Contact {
	normal := p.normal
	dist := p.SignedDistance(s.Center())
	if dist < 0 {
		normal = normal.Mul(-1)
		dist = math32.Abs(dist)
	}
	return Contact{
		Normal:      normal,
		Penetration: s.radius - dist,
	}
}
