package sandbox

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"particle-sandbox/internal/arsenal"
	"particle-sandbox/internal/engineconfig"
	"particle-sandbox/internal/physics"
)

func newTestSandbox(t *testing.T, mutate func(*engineconfig.Config), opts ...Option) *Sandbox {
	t.Helper()
	cfg := engineconfig.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustTick(t *testing.T, s *Sandbox) bool {
	t.Helper()
	ran, err := s.FixedUpdate()
	if err != nil {
		t.Fatalf("FixedUpdate: %v", err)
	}
	return ran
}

func TestNew_BuildsWorldFromConfig(t *testing.T) {
	s := newTestSandbox(t, func(c *engineconfig.Config) {
		c.Physics.Planes = append(c.Physics.Planes, engineconfig.Plane{Normal: mgl32.Vec3{1, 0, 0}, Offset: -10})
	})
	st := s.Stats()
	if st.Planes != 2 || st.Bodies != 0 {
		t.Errorf("stats = %+v", st)
	}
	if s.Gravity() != engineconfig.Default().Physics.Gravity {
		t.Errorf("gravity = %v", s.Gravity())
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.Physics.Timestep = 0
	if _, err := New(cfg); !errors.Is(err, physics.ErrInvalidTimestep) {
		t.Errorf("err = %v, want ErrInvalidTimestep", err)
	}
}

func TestSandbox_DroppedSphereStaysAboveGround(t *testing.T) {
	s := newTestSandbox(t, nil)
	h, err := s.Spawn(mgl32.Vec3{3, 4, 0}, mgl32.Vec3{}, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	sp, _ := s.World().Sphere(h)

	landed := false
	for i := 0; i < 600; i++ {
		mustTick(t, s)
		if y := sp.Body.Position[1]; y < 0.5-1e-3 {
			t.Fatalf("sphere sank into the ground: y = %v", y)
		}
		if s.Stats().Contacts > 0 {
			landed = true
		}
	}
	if !landed {
		t.Error("sphere never touched the ground")
	}
	if s.Stats().Ticks != 600 {
		t.Errorf("Ticks = %d, want 600", s.Stats().Ticks)
	}
}

func TestSandbox_PauseAndStep(t *testing.T) {
	s := newTestSandbox(t, nil)

	s.Pause()
	if mustTick(t, s) {
		t.Fatal("paused sandbox advanced")
	}

	s.StepOnce(2)
	if !mustTick(t, s) || !mustTick(t, s) {
		t.Fatal("queued steps did not run")
	}
	if mustTick(t, s) {
		t.Fatal("ran more ticks than queued")
	}
	if s.Stats().Ticks != 2 {
		t.Errorf("Ticks = %d, want 2", s.Stats().Ticks)
	}

	s.StepOnce(3)
	s.Resume()
	if !s.Paused() && !mustTick(t, s) {
		t.Fatal("resumed sandbox did not advance")
	}
}

func TestSandbox_ResetKeepsGunState(t *testing.T) {
	s := newTestSandbox(t, nil)
	s.Gun().Rotate(1)
	s.Gun().CycleNext()
	if _, err := s.Gun().Fire(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Spawn(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, 1, 1); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if st := s.Stats(); st.Bodies != 0 || st.Planes != 1 {
		t.Errorf("stats after reset = %+v", st)
	}
	if s.Gun().Weapon() != arsenal.HeavyBall || s.Gun().Angle() != 1 {
		t.Errorf("gun state lost: %v %v", s.Gun().Weapon(), s.Gun().Angle())
	}
	if len(s.Gun().Shots()) != 0 {
		t.Errorf("shots survived reset: %d", len(s.Gun().Shots()))
	}
}

func TestSandbox_ShotsExpire(t *testing.T) {
	s := newTestSandbox(t, func(c *engineconfig.Config) {
		c.Gun.Lifetime = 50 * time.Millisecond
		c.Physics.Planes = nil
	})
	if _, err := s.Gun().Fire(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		mustTick(t, s)
	}
	if st := s.Stats(); st.Bodies != 0 {
		t.Errorf("bodies = %d, want 0 after lifetime", st.Bodies)
	}
}

func TestSandbox_SetGravity(t *testing.T) {
	s := newTestSandbox(t, func(c *engineconfig.Config) { c.Physics.Planes = nil })
	h, err := s.Spawn(mgl32.Vec3{}, mgl32.Vec3{}, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.SetGravity(mgl32.Vec3{})
	mustTick(t, s)

	b, _ := s.World().Body(h)
	if b.Velocity != (mgl32.Vec3{}) {
		t.Errorf("velocity = %v with zero gravity", b.Velocity)
	}
	if s.Config().Physics.Gravity != (mgl32.Vec3{}) {
		t.Errorf("config gravity not updated")
	}
}

func TestSandbox_ContactListeners(t *testing.T) {
	s := newTestSandbox(t, nil)
	var events []physics.ContactEvent
	s.OnContact(func(ev physics.ContactEvent) { events = append(events, ev) })

	if _, err := s.Spawn(mgl32.Vec3{0, 0.4, 0}, mgl32.Vec3{0, -2, 0}, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	mustTick(t, s)

	if len(events) != 1 || !events[0].Plane || events[0].ClosingSpeed <= 0 {
		t.Errorf("events = %+v", events)
	}

	// Listeners survive a reset.
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Spawn(mgl32.Vec3{0, 0.4, 0}, mgl32.Vec3{0, -2, 0}, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	mustTick(t, s)
	if len(events) != 2 {
		t.Errorf("got %d events after reset, want 2", len(events))
	}
}

func TestSandbox_SpawnInvalid(t *testing.T) {
	s := newTestSandbox(t, nil)
	if _, err := s.Spawn(mgl32.Vec3{}, mgl32.Vec3{}, 0, 1); !errors.Is(err, physics.ErrInvalidRadius) {
		t.Errorf("zero radius err = %v", err)
	}
	if _, err := s.Spawn(mgl32.Vec3{}, mgl32.Vec3{}, 1, -1); !errors.Is(err, physics.ErrInvalidInverseMass) {
		t.Errorf("negative inverse mass err = %v", err)
	}
}
