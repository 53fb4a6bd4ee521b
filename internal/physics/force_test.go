package physics

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGravity_MassIndependent(t *testing.T) {
	g := &Gravity{Acceleration: mgl32.Vec3{0, -10, 0}}
	light := mustBody(t, mgl32.Vec3{}, mgl32.Vec3{}, 1)
	heavy := mustBody(t, mgl32.Vec3{}, mgl32.Vec3{}, 0.25)

	g.UpdateForce(light)
	g.UpdateForce(heavy)

	if heavy.Force() != (mgl32.Vec3{0, -40, 0}) {
		t.Errorf("heavy force = %v, want (0,-40,0)", heavy.Force())
	}

	Integrate(light, 0.1)
	Integrate(heavy, 0.1)
	if !vec3AlmostEqual(light.Velocity, heavy.Velocity, eps) {
		t.Errorf("velocities differ: %v vs %v", light.Velocity, heavy.Velocity)
	}
	if !vec3AlmostEqual(light.Velocity, mgl32.Vec3{0, -1, 0}, eps) {
		t.Errorf("velocity = %v, want (0,-1,0)", light.Velocity)
	}
}

func TestGravity_SkipsStatic(t *testing.T) {
	b := NewStaticBody(mgl32.Vec3{})
	(&Gravity{Acceleration: mgl32.Vec3{0, -10, 0}}).UpdateForce(b)
	if b.Force() != (mgl32.Vec3{}) {
		t.Errorf("static body got %v", b.Force())
	}
}

func TestSpring_UpdateForce(t *testing.T) {
	missing := AnchorFunc(func() (mgl32.Vec3, bool) { return mgl32.Vec3{}, false })

	tests := []struct {
		name   string
		anchor Anchor
		pos    mgl32.Vec3
		want   mgl32.Vec3
	}{
		{"stretched pulls in", FixedPoint{}, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{-4, 0, 0}},
		{"compressed pushes out", FixedPoint{}, mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{"at rest length", FixedPoint{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}},
		{"coincident ends", FixedPoint{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}},
		{"anchor gone", missing, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSpring(tt.anchor, 2, 1)
			if err != nil {
				t.Fatal(err)
			}
			b := mustBody(t, tt.pos, mgl32.Vec3{}, 1)
			s.UpdateForce(b)
			if !vec3AlmostEqual(b.Force(), tt.want, eps) {
				t.Errorf("force = %v, want %v", b.Force(), tt.want)
			}
		})
	}
}

func TestSpring_FollowsBody(t *testing.T) {
	other := mustBody(t, mgl32.Vec3{}, mgl32.Vec3{}, 1)
	s, err := NewSpring(BodyAnchor(other), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	b := mustBody(t, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{}, 1)

	other.Position = mgl32.Vec3{0, 1, 0}
	s.UpdateForce(b)

	if !vec3AlmostEqual(b.Force(), mgl32.Vec3{0, -1, 0}, eps) {
		t.Errorf("force = %v, want (0,-1,0)", b.Force())
	}
}

func TestNewSpring_Invalid(t *testing.T) {
	if _, err := NewSpring(nil, 1, 1); !errors.Is(err, ErrNilAnchor) {
		t.Errorf("nil anchor err = %v", err)
	}
	if _, err := NewSpring(FixedPoint{}, -1, 1); !errors.Is(err, ErrInvalidSpring) {
		t.Errorf("negative constant err = %v", err)
	}
	if _, err := NewSpring(FixedPoint{}, 1, -1); !errors.Is(err, ErrInvalidSpring) {
		t.Errorf("negative rest length err = %v", err)
	}
}

func TestAttractor_UpdateForce(t *testing.T) {
	off := func() bool { return false }

	tests := []struct {
		name   string
		power  float32
		active func() bool
		target mgl32.Vec3
		want   mgl32.Vec3
	}{
		{"attracts", 8, nil, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{2, 0, 0}},
		{"repels", -8, nil, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{-2, 0, 0}},
		{"inverse square", 8, nil, mgl32.Vec3{0, 4, 0}, mgl32.Vec3{0, 0.5, 0}},
		{"inactive", 8, off, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{}},
		{"on target", 8, nil, mgl32.Vec3{}, mgl32.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAttractor(FixedPoint(tt.target), tt.power)
			if err != nil {
				t.Fatal(err)
			}
			a.Active = tt.active
			b := mustBody(t, mgl32.Vec3{}, mgl32.Vec3{}, 1)
			a.UpdateForce(b)
			if !vec3AlmostEqual(b.Force(), tt.want, eps) {
				t.Errorf("force = %v, want %v", b.Force(), tt.want)
			}
		})
	}
}

func TestForceGenerators_OrderIndependent(t *testing.T) {
	spring, err := NewSpring(FixedPoint{1, 2, 3}, 3, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	attractor, err := NewAttractor(FixedPoint{-2, 0, 1}, 5)
	if err != nil {
		t.Fatal(err)
	}
	gens := []ForceGenerator{
		&Gravity{Acceleration: mgl32.Vec3{0, -9.8, 0}},
		spring,
		attractor,
		&ConstantForce{Force: mgl32.Vec3{0.3, 0, -0.7}},
	}

	forward := mustBody(t, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{}, 0.5)
	backward := mustBody(t, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{}, 0.5)
	for i := range gens {
		gens[i].UpdateForce(forward)
		gens[len(gens)-1-i].UpdateForce(backward)
	}

	if !vec3AlmostEqual(forward.Force(), backward.Force(), eps) {
		t.Errorf("forces depend on order: %v vs %v", forward.Force(), backward.Force())
	}
}
