package arsenal

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"particle-sandbox/internal/engineconfig"
	"particle-sandbox/internal/physics"
)

const eps = 1e-4

func vec3AlmostEqual(a, b mgl32.Vec3, tolerance float32) bool {
	return math32.Abs(a[0]-b[0]) <= tolerance &&
		math32.Abs(a[1]-b[1]) <= tolerance &&
		math32.Abs(a[2]-b[2]) <= tolerance
}

func testConfig() engineconfig.Gun {
	return engineconfig.Gun{
		MuzzleSpeed:           10,
		ProjectileRadius:      0.5,
		ProjectileInverseMass: 1,
		Lifetime:              time.Second,
		SpringConstant:        20,
		RestLength:            2,
		AttractorPower:        50,
	}
}

func newTestGun(t *testing.T, cfg engineconfig.Gun, opts ...Option) (*Gun, *physics.World) {
	t.Helper()
	w := physics.NewWorld()
	g, err := NewGun(w, cfg, 1, mgl32.Vec3{}, opts...)
	if err != nil {
		t.Fatalf("NewGun: %v", err)
	}
	return g, w
}

func sphereOf(t *testing.T, w *physics.World, h physics.Handle) *physics.Sphere {
	t.Helper()
	s, ok := w.Sphere(h)
	if !ok {
		t.Fatalf("handle %d is not a sphere", h)
	}
	return s
}

func TestGun_CycleNextWraps(t *testing.T) {
	g, _ := newTestGun(t, testConfig())
	seen := make(map[Weapon]bool)
	for i, n := 0, len(Weapons()); i < n; i++ {
		seen[g.Weapon()] = true
		g.CycleNext()
	}
	if g.Weapon() != Ball {
		t.Errorf("after a full cycle weapon = %v, want ball", g.Weapon())
	}
	if len(seen) != len(Weapons()) {
		t.Errorf("visited %d weapons, want %d", len(seen), len(Weapons()))
	}
}

func TestWeapon_ParseRoundTrip(t *testing.T) {
	for _, w := range Weapons() {
		got, err := ParseWeapon(w.String())
		if err != nil || got != w {
			t.Errorf("ParseWeapon(%q) = %v, %v", w.String(), got, err)
		}
	}
	if _, err := ParseWeapon("bazooka"); err == nil {
		t.Error("expected error for unknown weapon")
	}
}

func TestGun_Aim(t *testing.T) {
	g, _ := newTestGun(t, testConfig())

	if d := g.Direction(); !vec3AlmostEqual(d, mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("initial direction = %v, want +Y", d)
	}

	g.Rotate(math32.Pi / 2)
	if d := g.Direction(); !vec3AlmostEqual(d, mgl32.Vec3{-1, 0, 0}, eps) {
		t.Errorf("direction after quarter turn = %v, want -X", d)
	}
	if m := g.Muzzle(); !vec3AlmostEqual(m, mgl32.Vec3{-MuzzleLength, 0, 0}, eps) {
		t.Errorf("muzzle = %v", m)
	}

	g.Rotate(-math32.Pi)
	if a := g.Angle(); math32.Abs(a-3*math32.Pi/2) > eps {
		t.Errorf("angle = %v, want 3pi/2", a)
	}
}

func TestGun_FireBall(t *testing.T) {
	g, w := newTestGun(t, testConfig())
	g.Rotate(math32.Pi / 2)

	shot, err := g.Fire()
	if err != nil {
		t.Fatal(err)
	}
	if shot.Weapon != Ball || len(shot.Handles) != 1 {
		t.Fatalf("shot = %+v", shot)
	}
	s := sphereOf(t, w, shot.Handles[0])
	if !vec3AlmostEqual(s.Body.Position, g.Muzzle(), eps) {
		t.Errorf("position = %v, want muzzle %v", s.Body.Position, g.Muzzle())
	}
	if !vec3AlmostEqual(s.Body.Velocity, mgl32.Vec3{-10, 0, 0}, eps) {
		t.Errorf("velocity = %v, want (-10,0,0)", s.Body.Velocity)
	}
	if s.Radius() != 0.5 || s.Body.InverseMass() != 1 {
		t.Errorf("radius %v inverse mass %v", s.Radius(), s.Body.InverseMass())
	}
}

func TestGun_FireHeavyBall(t *testing.T) {
	g, w := newTestGun(t, testConfig())
	shot, err := g.FireWeapon(HeavyBall)
	if err != nil {
		t.Fatal(err)
	}
	s := sphereOf(t, w, shot.Handles[0])
	if math32.Abs(s.Radius()-0.75) > eps || math32.Abs(s.Body.InverseMass()-0.1) > eps {
		t.Errorf("radius %v inverse mass %v", s.Radius(), s.Body.InverseMass())
	}
}

func TestGun_FirePairedSpring(t *testing.T) {
	cfg := testConfig()
	cfg.MuzzleSpeed = 0
	g, w := newTestGun(t, cfg)

	shot, err := g.FireWeapon(PairedSpring)
	if err != nil {
		t.Fatal(err)
	}
	if len(shot.Handles) != 2 {
		t.Fatalf("paired spring spawned %d bodies", len(shot.Handles))
	}
	a := sphereOf(t, w, shot.Handles[0])
	b := sphereOf(t, w, shot.Handles[1])
	before := a.Body.Position.Sub(b.Body.Position).Len()

	if err := w.Step(0.01); err != nil {
		t.Fatal(err)
	}

	// Spawned closer than the rest length, the springs push the pair apart.
	after := a.Body.Position.Sub(b.Body.Position).Len()
	if after <= before {
		t.Errorf("separation %v -> %v, want growth", before, after)
	}
	momentum := a.Body.Momentum().Add(b.Body.Momentum())
	if momentum.Len() > eps {
		t.Errorf("pair momentum = %v, want zero", momentum)
	}
}

func TestGun_FireStaticSpring(t *testing.T) {
	cfg := testConfig()
	cfg.MuzzleSpeed = 0
	cfg.RestLength = 0
	g, w := newTestGun(t, cfg)

	shot, err := g.FireWeapon(StaticSpring)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Step(0.01); err != nil {
		t.Fatal(err)
	}
	s := sphereOf(t, w, shot.Handles[0])
	if !(s.Body.Velocity[1] < 0) {
		t.Errorf("velocity = %v, want pull toward the pivot", s.Body.Velocity)
	}
}

func TestGun_FireAttractorAndRepulsor(t *testing.T) {
	tests := []struct {
		name           string
		weapon         Weapon
		attract, repel bool
		wantSign       float32
	}{
		{"attractor held", Attractor, true, false, 1},
		{"attractor released", Attractor, false, true, 0},
		{"repulsor held", Repulsor, false, true, -1},
		{"repulsor released", Repulsor, true, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MuzzleSpeed = 0
			attract, repel := tt.attract, tt.repel
			g, w := newTestGun(t, cfg,
				WithTarget(physics.FixedPoint{5, 1, 0}),
				WithTriggers(func() bool { return attract }, func() bool { return repel }),
			)

			shot, err := g.FireWeapon(tt.weapon)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Step(0.01); err != nil {
				t.Fatal(err)
			}

			vx := sphereOf(t, w, shot.Handles[0]).Body.Velocity[0]
			switch {
			case tt.wantSign > 0 && !(vx > 0),
				tt.wantSign < 0 && !(vx < 0),
				tt.wantSign == 0 && vx != 0:
				t.Errorf("vx = %v, want sign %v", vx, tt.wantSign)
			}
		})
	}
}

func TestGun_AttractorWithoutTarget(t *testing.T) {
	cfg := testConfig()
	cfg.MuzzleSpeed = 0
	g, w := newTestGun(t, cfg, WithTriggers(func() bool { return true }, nil))

	shot, err := g.FireWeapon(Attractor)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Step(0.01); err != nil {
		t.Fatal(err)
	}
	if v := sphereOf(t, w, shot.Handles[0]).Body.Velocity; v != (mgl32.Vec3{}) {
		t.Errorf("velocity = %v, want zero without a target", v)
	}
}

func TestGun_UpdateExpiresShots(t *testing.T) {
	g, w := newTestGun(t, testConfig())
	if _, err := g.FireWeapon(PairedSpring); err != nil {
		t.Fatal(err)
	}
	if _, err := g.FireWeapon(Ball); err != nil {
		t.Fatal(err)
	}

	if n := g.Update(500 * time.Millisecond); n != 0 {
		t.Fatalf("expired %d shots early", n)
	}
	if _, err := g.FireWeapon(Ball); err != nil {
		t.Fatal(err)
	}
	if n := g.Update(600 * time.Millisecond); n != 2 {
		t.Fatalf("expired %d shots, want 2", n)
	}
	if len(g.Shots()) != 1 || w.Stats().Bodies != 1 {
		t.Errorf("live shots %d bodies %d, want 1 and 1", len(g.Shots()), w.Stats().Bodies)
	}

	g.Clear()
	if len(g.Shots()) != 0 || w.Stats().Bodies != 0 {
		t.Errorf("after Clear: shots %d bodies %d", len(g.Shots()), w.Stats().Bodies)
	}
}

func TestGun_ZeroLifetimeKeepsShots(t *testing.T) {
	cfg := testConfig()
	cfg.Lifetime = 0
	g, _ := newTestGun(t, cfg)
	if _, err := g.Fire(); err != nil {
		t.Fatal(err)
	}
	if n := g.Update(time.Hour); n != 0 || len(g.Shots()) != 1 {
		t.Errorf("expired %d, live %d", n, len(g.Shots()))
	}
}

func TestGun_UpdateForgetsRemovedBodies(t *testing.T) {
	for _, lifetime := range []time.Duration{0, time.Hour} {
		cfg := testConfig()
		cfg.Lifetime = lifetime
		g, w := newTestGun(t, cfg)

		ball, err := g.FireWeapon(Ball)
		if err != nil {
			t.Fatal(err)
		}
		pair, err := g.FireWeapon(PairedSpring)
		if err != nil {
			t.Fatal(err)
		}
		second := pair.Handles[1]
		w.Remove(ball.Handles[0])
		w.Remove(pair.Handles[0])

		if n := g.Update(time.Millisecond); n != 0 {
			t.Errorf("lifetime %v: expired %d, want 0", lifetime, n)
		}
		shots := g.Shots()
		if len(shots) != 1 || shots[0] != pair {
			t.Fatalf("lifetime %v: live shots %v, want only the pair", lifetime, shots)
		}
		if len(pair.Handles) != 1 || pair.Handles[0] != second {
			t.Errorf("lifetime %v: pair handles = %v", lifetime, pair.Handles)
		}

		w.Remove(pair.Handles[0])
		g.Update(time.Millisecond)
		if len(g.Shots()) != 0 {
			t.Errorf("lifetime %v: %d shots left after all bodies removed", lifetime, len(g.Shots()))
		}
	}
}

func TestNewGun_Invalid(t *testing.T) {
	w := physics.NewWorld()
	if _, err := NewGun(nil, testConfig(), 1, mgl32.Vec3{}); err == nil {
		t.Error("expected error for nil world")
	}
	cfg := testConfig()
	cfg.ProjectileRadius = 0
	if _, err := NewGun(w, cfg, 1, mgl32.Vec3{}); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := NewGun(w, testConfig(), 0, mgl32.Vec3{}); err == nil {
		t.Error("expected error for zero damping")
	}
}
