package physics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func almostEqual(a, b, tolerance float32) bool {
	return math32.Abs(a-b) <= tolerance
}

func vec3AlmostEqual(a, b mgl32.Vec3, tolerance float32) bool {
	return almostEqual(a[0], b[0], tolerance) &&
		almostEqual(a[1], b[1], tolerance) &&
		almostEqual(a[2], b[2], tolerance)
}

func mustBody(t *testing.T, pos, vel mgl32.Vec3, inverseMass float32) *Body {
	t.Helper()
	b, err := NewBody(pos, inverseMass, 1)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	b.Velocity = vel
	return b
}

func mustSphere(t *testing.T, pos, vel mgl32.Vec3, inverseMass, radius float32) *Sphere {
	t.Helper()
	s, err := NewSphere(mustBody(t, pos, vel, inverseMass), radius)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

func mustPlane(t *testing.T, normal mgl32.Vec3, offset float32) *Plane {
	t.Helper()
	p, err := NewPlane(normal, offset)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	return p
}
