// Package arsenal implements the sandbox gun: a pivot that aims in the XY plane and
// fires spheres, spring pairs and attractors into a physics.World.
package arsenal

import (
	"fmt"
	"io"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"particle-sandbox/internal/engineconfig"
	"particle-sandbox/internal/physics"
)

// Weapon selects what Fire spawns.
type Weapon int

const (
	Ball Weapon = iota
	HeavyBall
	PairedSpring
	StaticSpring
	Attractor
	Repulsor
	weaponCount
)

var weaponNames = [...]string{"ball", "heavy", "paired-spring", "static-spring", "attractor", "repulsor"}

func (w Weapon) String() string {
	if w < 0 || w >= weaponCount {
		return fmt.Sprintf("Weapon(%d)", int(w))
	}
	return weaponNames[w]
}

// ParseWeapon returns the weapon with the given String name.
func ParseWeapon(name string) (Weapon, error) {
	for i, n := range weaponNames {
		if n == name {
			return Weapon(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weapon %q", name)
}

// Weapons returns every weapon in cycle order.
func Weapons() []Weapon {
	ws := make([]Weapon, weaponCount)
	for i := range ws {
		ws[i] = Weapon(i)
	}
	return ws
}

const (
	// MuzzleLength is the distance from the pivot to where projectiles spawn.
	MuzzleLength = 1.0

	heavyRadiusScale      = 1.5
	heavyInverseMassScale = 0.1
)

// Shot is what one Fire call put into the world.
type Shot struct {
	Weapon  Weapon
	Handles []physics.Handle
	age     time.Duration
}

// Option configures a Gun.
type Option func(*Gun)

// WithLogger sets the logger used for fired and expired shots.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Gun) {
		if log != nil {
			g.log = log
		}
	}
}

// WithTarget sets the anchor attractor and repulsor shots pull toward, typically the
// mouse position projected into the world.
func WithTarget(target physics.Anchor) Option {
	return func(g *Gun) {
		g.SetTarget(target)
	}
}

// WithTriggers sets the predicates that switch attractor and repulsor shots on.
func WithTriggers(attract, repel func() bool) Option {
	return func(g *Gun) {
		g.SetTriggers(attract, repel)
	}
}

// Gun fires projectiles into a world. Aim rotates about +Z; angle 0 points along +Y.
type Gun struct {
	world    *physics.World
	cfg      engineconfig.Gun
	damping  float32
	position mgl32.Vec3
	angle    float32
	weapon   Weapon

	target  physics.Anchor
	attract func() bool
	repel   func() bool

	shots []*Shot
	log   logrus.FieldLogger
}

// NewGun returns a gun at position firing into world. damping is given to every
// projectile body.
func NewGun(world *physics.World, cfg engineconfig.Gun, damping float32, position mgl32.Vec3, opts ...Option) (*Gun, error) {
	if world == nil {
		return nil, fmt.Errorf("arsenal: nil world")
	}
	if !(cfg.ProjectileRadius > 0) {
		return nil, fmt.Errorf("arsenal: radius %v: %w", cfg.ProjectileRadius, physics.ErrInvalidRadius)
	}
	if !(damping > 0 && damping <= 1) {
		return nil, fmt.Errorf("arsenal: damping %v: %w", damping, physics.ErrInvalidDamping)
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	g := &Gun{
		world:    world,
		cfg:      cfg,
		damping:  damping,
		position: position,
		target:   noTarget,
		attract:  never,
		repel:    never,
		log:      discard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

var noTarget = physics.AnchorFunc(func() (mgl32.Vec3, bool) { return mgl32.Vec3{}, false })

func never() bool { return false }

// SetTarget replaces the attractor target; nil means no target.
func (g *Gun) SetTarget(target physics.Anchor) {
	if target == nil {
		target = noTarget
	}
	g.target = target
}

// SetTriggers replaces the attractor and repulsor activation predicates; nil means never.
func (g *Gun) SetTriggers(attract, repel func() bool) {
	if attract == nil {
		attract = never
	}
	if repel == nil {
		repel = never
	}
	g.attract, g.repel = attract, repel
}

// Weapon returns the selected weapon.
func (g *Gun) Weapon() Weapon {
	return g.weapon
}

// CycleNext selects the next weapon, wrapping after the last one.
func (g *Gun) CycleNext() Weapon {
	g.weapon = (g.weapon + 1) % weaponCount
	return g.weapon
}

// Select selects w.
func (g *Gun) Select(w Weapon) error {
	if w < 0 || w >= weaponCount {
		return fmt.Errorf("arsenal: unknown weapon %d", int(w))
	}
	g.weapon = w
	return nil
}

// Angle returns the aim angle in radians.
func (g *Gun) Angle() float32 {
	return g.angle
}

// Rotate turns the aim by delta radians (counter-clockwise seen from +Z).
func (g *Gun) Rotate(delta float32) {
	g.angle = wrapAngle(g.angle + delta)
}

func wrapAngle(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}

// Position returns the pivot.
func (g *Gun) Position() mgl32.Vec3 {
	return g.position
}

// Direction returns the unit aim direction.
func (g *Gun) Direction() mgl32.Vec3 {
	return mgl32.Vec3{-math32.Sin(g.angle), math32.Cos(g.angle), 0}
}

// Muzzle returns where projectiles spawn.
func (g *Gun) Muzzle() mgl32.Vec3 {
	return g.position.Add(g.Direction().Mul(MuzzleLength))
}

// Shots returns the live shots, oldest first.
func (g *Gun) Shots() []*Shot {
	return g.shots
}

// Fire spawns the selected weapon's projectile.
func (g *Gun) Fire() (*Shot, error) {
	return g.FireWeapon(g.weapon)
}

// FireWeapon spawns w's projectile at the muzzle with velocity Direction*MuzzleSpeed.
func (g *Gun) FireWeapon(w Weapon) (*Shot, error) {
	var (
		handles []physics.Handle
		err     error
	)
	switch w {
	case Ball:
		handles, err = g.fireBall(g.cfg.ProjectileRadius, g.cfg.ProjectileInverseMass)
	case HeavyBall:
		handles, err = g.fireBall(g.cfg.ProjectileRadius*heavyRadiusScale, g.cfg.ProjectileInverseMass*heavyInverseMassScale)
	case PairedSpring:
		handles, err = g.firePairedSpring()
	case StaticSpring:
		handles, err = g.fireStaticSpring()
	case Attractor:
		handles, err = g.fireAttractor(g.cfg.AttractorPower, func() bool { return g.attract() })
	case Repulsor:
		handles, err = g.fireAttractor(-g.cfg.AttractorPower, func() bool { return g.repel() })
	default:
		return nil, fmt.Errorf("arsenal: unknown weapon %d", int(w))
	}
	if err != nil {
		return nil, fmt.Errorf("arsenal: fire %s: %w", w, err)
	}

	shot := &Shot{Weapon: w, Handles: handles}
	g.shots = append(g.shots, shot)
	g.log.WithFields(logrus.Fields{"weapon": w.String(), "bodies": len(handles)}).Debug("arsenal: fired")
	return shot, nil
}

func (g *Gun) spawn(pos mgl32.Vec3, radius, inverseMass float32) (physics.Handle, error) {
	b, err := physics.NewBody(pos, inverseMass, g.damping)
	if err != nil {
		return 0, err
	}
	b.Velocity = g.Direction().Mul(g.cfg.MuzzleSpeed)
	s, err := physics.NewSphere(b, radius)
	if err != nil {
		return 0, err
	}
	return g.world.AddSphere(s)
}

func (g *Gun) fireBall(radius, inverseMass float32) ([]physics.Handle, error) {
	h, err := g.spawn(g.Muzzle(), radius, inverseMass)
	if err != nil {
		return nil, err
	}
	return []physics.Handle{h}, nil
}

// firePairedSpring spawns two spheres side by side across the aim line, each pulled
// toward the other by its own spring, so both ends move rather than only the first.
func (g *Gun) firePairedSpring() ([]physics.Handle, error) {
	r := g.cfg.ProjectileRadius
	dir := g.Direction()
	side := mgl32.Vec3{dir[1], -dir[0], 0}.Mul(r)

	a, err := g.spawn(g.Muzzle().Add(side), r, g.cfg.ProjectileInverseMass)
	if err != nil {
		return nil, err
	}
	b, err := g.spawn(g.Muzzle().Sub(side), r, g.cfg.ProjectileInverseMass)
	if err != nil {
		g.world.Remove(a)
		return nil, err
	}
	handles := []physics.Handle{a, b}
	if err := g.link(a, g.world.Anchor(b)); err != nil {
		g.despawn(handles)
		return nil, err
	}
	if err := g.link(b, g.world.Anchor(a)); err != nil {
		g.despawn(handles)
		return nil, err
	}
	return handles, nil
}

// fireStaticSpring spawns a sphere tethered to the gun's pivot.
func (g *Gun) fireStaticSpring() ([]physics.Handle, error) {
	h, err := g.spawn(g.Muzzle(), g.cfg.ProjectileRadius, g.cfg.ProjectileInverseMass)
	if err != nil {
		return nil, err
	}
	if err := g.link(h, physics.FixedPoint(g.position)); err != nil {
		g.world.Remove(h)
		return nil, err
	}
	return []physics.Handle{h}, nil
}

func (g *Gun) link(h physics.Handle, other physics.Anchor) error {
	spring, err := physics.NewSpring(other, g.cfg.SpringConstant, g.cfg.RestLength)
	if err != nil {
		return err
	}
	return g.world.Subscribe(spring, h)
}

func (g *Gun) fireAttractor(power float32, active func() bool) ([]physics.Handle, error) {
	h, err := g.spawn(g.Muzzle(), g.cfg.ProjectileRadius, g.cfg.ProjectileInverseMass)
	if err != nil {
		return nil, err
	}
	// Target and triggers may be replaced after firing; read them through the gun.
	target := physics.AnchorFunc(func() (mgl32.Vec3, bool) { return g.target.AnchorPosition() })
	attractor, err := physics.NewAttractor(target, power)
	if err != nil {
		g.world.Remove(h)
		return nil, err
	}
	attractor.Active = active
	if err := g.world.Subscribe(attractor, h); err != nil {
		g.world.Remove(h)
		return nil, err
	}
	return []physics.Handle{h}, nil
}

// Update ages every shot by dt and removes those older than the configured lifetime
// from the world. A lifetime of zero keeps shots forever. Shots whose bodies were all
// removed from the world by other means are forgotten. It returns how many shots
// expired.
func (g *Gun) Update(dt time.Duration) int {
	expired := 0
	kept := g.shots[:0]
	for _, s := range g.shots {
		if !g.prune(s) {
			continue
		}
		if g.cfg.Lifetime > 0 {
			s.age += dt
			if s.age >= g.cfg.Lifetime {
				g.despawn(s.Handles)
				expired++
				continue
			}
		}
		kept = append(kept, s)
	}
	clear(g.shots[len(kept):])
	g.shots = kept
	if expired > 0 {
		g.log.WithField("count", expired).Debug("arsenal: shots expired")
	}
	return expired
}

// prune drops handles no longer registered with the world and reports whether any remain.
func (g *Gun) prune(s *Shot) bool {
	live := s.Handles[:0]
	for _, h := range s.Handles {
		if _, ok := g.world.Body(h); ok {
			live = append(live, h)
		}
	}
	s.Handles = live
	return len(live) > 0
}

// Clear removes every live shot from the world.
func (g *Gun) Clear() {
	for _, s := range g.shots {
		g.despawn(s.Handles)
	}
	g.shots = nil
}

func (g *Gun) despawn(handles []physics.Handle) {
	for _, h := range handles {
		g.world.Remove(h)
	}
}
