package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Body is a point mass: position, velocity, an accumulator for the forces applied this
// step, inverse mass and damping. There is no orientation.
// An inverse mass of 0 means infinite mass; such a body is never moved by integration
// or collision resolution and acts as a static anchor. The zero value is an immovable
// body at the origin.
type Body struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	force       mgl32.Vec3
	inverseMass float32
	damping     float32
}

// NewBody returns a body at position with zero velocity.
// inverseMass must be finite and >= 0; damping must be in (0, 1] (1 = no drag).
func NewBody(position mgl32.Vec3, inverseMass, damping float32) (*Body, error) {
	b := &Body{Position: position, damping: 1}
	if err := b.SetInverseMass(inverseMass); err != nil {
		return nil, err
	}
	if err := b.SetDamping(damping); err != nil {
		return nil, err
	}
	return b, nil
}

// NewStaticBody returns an immovable body at position.
func NewStaticBody(position mgl32.Vec3) *Body {
	return &Body{Position: position, damping: 1}
}

// InverseMass returns 1/mass, or 0 for an immovable body.
func (b *Body) InverseMass() float32 {
	return b.inverseMass
}

// SetInverseMass sets 1/mass. 0 makes the body immovable.
func (b *Body) SetInverseMass(inverseMass float32) error {
	if inverseMass < 0 || !isFinite(inverseMass) {
		return fmt.Errorf("inverse mass %v: %w", inverseMass, ErrInvalidInverseMass)
	}
	b.inverseMass = inverseMass
	return nil
}

// Mass returns the body's mass; +Inf for an immovable body.
func (b *Body) Mass() float32 {
	if b.inverseMass == 0 {
		return math32.Inf(1)
	}
	return 1 / b.inverseMass
}

// SetMass sets the mass. +Inf makes the body immovable.
func (b *Body) SetMass(mass float32) error {
	if mass <= 0 || math32.IsNaN(mass) {
		return fmt.Errorf("mass %v: %w", mass, ErrInvalidMass)
	}
	if math32.IsInf(mass, 1) {
		b.inverseMass = 0
		return nil
	}
	return b.SetInverseMass(1 / mass)
}

// Static reports whether the body has infinite mass.
func (b *Body) Static() bool {
	return b.inverseMass == 0
}

// Damping returns the per-second velocity retention factor.
func (b *Body) Damping() float32 {
	return b.damping
}

// SetDamping sets the velocity retention factor. Velocity is scaled by damping^dt
// every step, so 1 disables drag.
func (b *Body) SetDamping(damping float32) error {
	if !(damping > 0 && damping <= 1) {
		return fmt.Errorf("damping %v: %w", damping, ErrInvalidDamping)
	}
	b.damping = damping
	return nil
}

// AddForce adds f to the accumulator. Forces are summed until the next integration.
func (b *Body) AddForce(f mgl32.Vec3) {
	b.force = b.force.Add(f)
}

// Force returns the force accumulated since the last integration.
func (b *Body) Force() mgl32.Vec3 {
	return b.force
}

// ClearForce resets the accumulator.
func (b *Body) ClearForce() {
	b.force = mgl32.Vec3{}
}

// Momentum returns mass * velocity, or the zero vector for an immovable body.
func (b *Body) Momentum() mgl32.Vec3 {
	if b.inverseMass == 0 {
		return mgl32.Vec3{}
	}
	return b.Velocity.Mul(1 / b.inverseMass)
}
