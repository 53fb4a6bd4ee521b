package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Integrate advances b by dt seconds with semi-implicit (symplectic) Euler:
// velocity is updated from the accumulated force first, then position moves with the
// new velocity. The accumulator is cleared afterwards.
//
// Immovable bodies keep their position and velocity; only the accumulator is cleared.
// A dt that is not positive and finite is ignored and leaves the body untouched.
func Integrate(b *Body, dt float32) {
	if b == nil || !(dt > 0) || !isFinite(dt) {
		return
	}
	if b.inverseMass == 0 {
		b.force = mgl32.Vec3{}
		return
	}

	acc := b.force.Mul(b.inverseMass)
	b.Velocity = b.Velocity.Mul(math32.Pow(b.damping, dt)).Add(acc.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.force = mgl32.Vec3{}
}
