package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ForceGenerator contributes a force to a body for the current step.
// UpdateForce must only add to the body's accumulator (never overwrite it) and must
// not read the accumulator, so the order in which generators run is not observable.
type ForceGenerator interface {
	UpdateForce(b *Body)
}

// Anchor is a live reference to a point a generator pulls toward. ok is false once the
// referenced object no longer exists, in which case the generator contributes nothing.
type Anchor interface {
	AnchorPosition() (pos mgl32.Vec3, ok bool)
}

// FixedPoint is an anchor that never moves and never disappears.
type FixedPoint mgl32.Vec3

func (p FixedPoint) AnchorPosition() (mgl32.Vec3, bool) {
	return mgl32.Vec3(p), true
}

// AnchorFunc adapts a function to the Anchor interface.
type AnchorFunc func() (mgl32.Vec3, bool)

func (f AnchorFunc) AnchorPosition() (mgl32.Vec3, bool) {
	return f()
}

// BodyAnchor follows the current position of b.
func BodyAnchor(b *Body) Anchor {
	return AnchorFunc(func() (mgl32.Vec3, bool) {
		if b == nil {
			return mgl32.Vec3{}, false
		}
		return b.Position, true
	})
}

// Gravity applies a constant acceleration: the force added is mass * Acceleration, so
// every movable body falls at the same rate. Immovable bodies receive nothing.
type Gravity struct {
	Acceleration mgl32.Vec3
}

func (g *Gravity) UpdateForce(b *Body) {
	if b.inverseMass == 0 {
		return
	}
	b.AddForce(g.Acceleration.Mul(1 / b.inverseMass))
}

// ConstantForce adds the same force every step regardless of mass.
type ConstantForce struct {
	Force mgl32.Vec3
}

func (c *ConstantForce) UpdateForce(b *Body) {
	b.AddForce(c.Force)
}

// Spring is a Hooke spring between the body and Other. The force is
// SpringConstant * (RestLength - length) along the direction from Other to the body:
// a stretched spring pulls the body in, a compressed one pushes it out.
type Spring struct {
	Other          Anchor
	SpringConstant float32
	RestLength     float32
}

// NewSpring validates the parameters and returns a spring toward other.
func NewSpring(other Anchor, springConstant, restLength float32) (*Spring, error) {
	if other == nil {
		return nil, ErrNilAnchor
	}
	if springConstant < 0 || restLength < 0 || !isFinite(springConstant) || !isFinite(restLength) {
		return nil, fmt.Errorf("k=%v rest=%v: %w", springConstant, restLength, ErrInvalidSpring)
	}
	return &Spring{Other: other, SpringConstant: springConstant, RestLength: restLength}, nil
}

func (s *Spring) UpdateForce(b *Body) {
	if s.Other == nil {
		return
	}
	other, ok := s.Other.AnchorPosition()
	if !ok {
		return
	}
	// Coincident ends have no direction to push along.
	dir, length := normalizeOr(b.Position.Sub(other), mgl32.Vec3{})
	if length == 0 {
		return
	}
	b.AddForce(dir.Mul((s.RestLength - length) * s.SpringConstant))
}

// Attractor pulls the body toward Target with magnitude Power / distance^2.
// A negative Power repels. Active, when set, gates the force (e.g. a held mouse button).
type Attractor struct {
	Target Anchor
	Power  float32
	Active func() bool
}

// NewAttractor returns an attractor toward target. Use a negative power for a repeller.
func NewAttractor(target Anchor, power float32) (*Attractor, error) {
	if target == nil {
		return nil, ErrNilAnchor
	}
	return &Attractor{Target: target, Power: power}, nil
}

func (a *Attractor) UpdateForce(b *Body) {
	if a.Target == nil || (a.Active != nil && !a.Active()) {
		return
	}
	target, ok := a.Target.AnchorPosition()
	if !ok {
		return
	}
	disp := target.Sub(b.Position)
	distSq := disp.Dot(disp)
	if distSq == 0 || !isFinite(distSq) {
		return
	}
	dir := disp.Mul(1 / math32.Sqrt(distSq))
	b.AddForce(dir.Mul(a.Power / distSq))
}
