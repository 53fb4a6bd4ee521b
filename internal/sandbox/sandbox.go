// Package sandbox is the host-independent game state shared by the window and terminal
// frontends: a physics world built from configuration, the gun, and the fixed-step clock.
package sandbox

import (
	"fmt"
	"io"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"particle-sandbox/internal/arsenal"
	"particle-sandbox/internal/engineconfig"
	"particle-sandbox/internal/physics"
)

// GunPosition is where the gun's pivot sits.
var GunPosition = mgl32.Vec3{0, 1, 0}

// Sandbox owns the world and the gun. It is driven from a single goroutine.
type Sandbox struct {
	cfg engineconfig.Config
	log logrus.FieldLogger

	world   *physics.World
	gravity *physics.Gravity
	gun     *arsenal.Gun

	target  physics.Anchor
	attract func() bool
	repel   func() bool

	listeners []physics.ContactHandler
	paused    bool
	pending   int
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithLogger sets the logger shared with the world and the gun.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Sandbox) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTarget sets the anchor attractor shots pull toward.
func WithTarget(target physics.Anchor) Option {
	return func(s *Sandbox) { s.target = target }
}

// WithTriggers sets the attractor and repulsor activation predicates.
func WithTriggers(attract, repel func() bool) Option {
	return func(s *Sandbox) { s.attract, s.repel = attract, repel }
}

// New validates cfg and builds the world: global gravity, the configured planes and the gun.
func New(cfg engineconfig.Config, opts ...Option) (*Sandbox, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	s := &Sandbox{
		cfg:     cfg.Clone(),
		log:     discard,
		gravity: &physics.Gravity{Acceleration: cfg.Physics.Gravity},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sandbox) build() error {
	w := physics.NewWorld(physics.WithLogger(s.log), physics.WithContactHandler(s.dispatch))
	w.AddGlobalForce(s.gravity)
	for i, p := range s.cfg.Physics.Planes {
		plane, err := physics.NewPlane(p.Normal, p.Offset)
		if err != nil {
			return fmt.Errorf("sandbox: plane %d: %w", i, err)
		}
		if _, err := w.AddPlane(plane); err != nil {
			return fmt.Errorf("sandbox: plane %d: %w", i, err)
		}
	}

	var angle float32
	weapon := arsenal.Ball
	if s.gun != nil {
		angle, weapon = s.gun.Angle(), s.gun.Weapon()
	}
	gun, err := arsenal.NewGun(w, s.cfg.Gun, s.cfg.Physics.Damping, GunPosition,
		arsenal.WithLogger(s.log),
		arsenal.WithTarget(s.target),
		arsenal.WithTriggers(s.attract, s.repel),
	)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	gun.Rotate(angle)
	if err := gun.Select(weapon); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}

	s.world, s.gun = w, gun
	return nil
}

func (s *Sandbox) dispatch(ev physics.ContactEvent) {
	for _, l := range s.listeners {
		l(ev)
	}
}

// OnContact adds a listener called for every contact the world resolves.
func (s *Sandbox) OnContact(h physics.ContactHandler) {
	if h != nil {
		s.listeners = append(s.listeners, h)
	}
}

// World returns the current world. Reset replaces it.
func (s *Sandbox) World() *physics.World {
	return s.world
}

// Gun returns the current gun. Reset replaces it, keeping aim and weapon.
func (s *Sandbox) Gun() *arsenal.Gun {
	return s.gun
}

// Config returns a copy of the active configuration.
func (s *Sandbox) Config() engineconfig.Config {
	return s.cfg.Clone()
}

// Timestep returns the fixed dt in seconds.
func (s *Sandbox) Timestep() float32 {
	return s.cfg.Physics.Timestep
}

// TimestepDuration returns the fixed dt as a time.Duration.
func (s *Sandbox) TimestepDuration() time.Duration {
	return time.Duration(float64(s.cfg.Physics.Timestep) * float64(time.Second))
}

// FixedUpdate advances one tick: expired shots are removed, then the world steps.
// While paused it does nothing unless StepOnce queued a tick. It reports whether a
// tick ran.
func (s *Sandbox) FixedUpdate() (bool, error) {
	if s.paused {
		if s.pending == 0 {
			return false, nil
		}
		s.pending--
	}
	s.gun.Update(s.TimestepDuration())
	if err := s.world.Step(s.cfg.Physics.Timestep); err != nil {
		return false, fmt.Errorf("sandbox: %w", err)
	}
	return true, nil
}

// Pause stops FixedUpdate from advancing.
func (s *Sandbox) Pause() {
	s.paused = true
	s.log.Info("sandbox: paused")
}

// Resume undoes Pause and drops any queued single steps.
func (s *Sandbox) Resume() {
	s.paused = false
	s.pending = 0
	s.log.Info("sandbox: resumed")
}

// Paused reports whether the simulation is paused.
func (s *Sandbox) Paused() bool {
	return s.paused
}

// StepOnce pauses the simulation and queues n ticks for the following FixedUpdate calls.
func (s *Sandbox) StepOnce(n int) {
	if n < 1 {
		n = 1
	}
	s.paused = true
	s.pending += n
}

// Reset throws away every body and rebuilds the world from configuration.
func (s *Sandbox) Reset() error {
	if err := s.build(); err != nil {
		return err
	}
	s.pending = 0
	s.log.Info("sandbox: reset")
	return nil
}

// Gravity returns the current gravity acceleration.
func (s *Sandbox) Gravity() mgl32.Vec3 {
	return s.gravity.Acceleration
}

// SetGravity changes the gravity applied to every body from the next tick on.
func (s *Sandbox) SetGravity(g mgl32.Vec3) {
	s.gravity.Acceleration = g
	s.cfg.Physics.Gravity = g
	s.log.WithField("gravity", g).Info("sandbox: gravity changed")
}

// Spawn adds a free sphere. inverseMass 0 creates an immovable sphere.
func (s *Sandbox) Spawn(pos, vel mgl32.Vec3, radius, inverseMass float32) (physics.Handle, error) {
	b, err := physics.NewBody(pos, inverseMass, s.cfg.Physics.Damping)
	if err != nil {
		return 0, fmt.Errorf("sandbox: spawn: %w", err)
	}
	b.Velocity = vel
	sp, err := physics.NewSphere(b, radius)
	if err != nil {
		return 0, fmt.Errorf("sandbox: spawn: %w", err)
	}
	h, err := s.world.AddSphere(sp)
	if err != nil {
		return 0, fmt.Errorf("sandbox: spawn: %w", err)
	}
	return h, nil
}

// Stats returns the world's counters.
func (s *Sandbox) Stats() physics.Stats {
	return s.world.Stats()
}
