package physics

// ResolveContact separates two bodies along c and removes their closing velocity.
//
// Each body is pushed out by the fraction of c.Penetration equal to its share of the
// total inverse mass, so an immovable body never moves and a movable one takes the
// whole correction. If the bodies approach along the normal, a perfectly elastic impulse
// (restitution 1) is split the same way, which conserves linear momentum.
//
// It is a no-op when the contact is not overlapping, when both bodies are immovable,
// or when a and b are the same body. The return value reports whether anything was
// applied.
func ResolveContact(c Contact, a, b *Body) bool {
	if !c.Overlapping() || a == nil || b == nil || a == b {
		return false
	}
	invA, invB := a.inverseMass, b.inverseMass
	total := invA + invB
	if total == 0 {
		return false
	}
	shareA, shareB := invA/total, invB/total

	if invA != 0 {
		a.Position = a.Position.Add(c.Normal.Mul(c.Penetration * shareA))
	}
	if invB != 0 {
		b.Position = b.Position.Sub(c.Normal.Mul(c.Penetration * shareB))
	}

	sepVel := c.Normal.Dot(a.Velocity.Sub(b.Velocity))
	if sepVel < 0 {
		deltaV := -2 * sepVel
		if invA != 0 {
			a.Velocity = a.Velocity.Add(c.Normal.Mul(deltaV * shareA))
		}
		if invB != 0 {
			b.Velocity = b.Velocity.Sub(c.Normal.Mul(deltaV * shareB))
		}
	}
	return true
}

// ResolvePlaneContact resolves a contact between b and a static plane: b moves the full
// penetration along the normal and, if moving into the plane, has the normal component
// of its velocity reflected. The tangential component is kept.
func ResolvePlaneContact(c Contact, b *Body) bool {
	if !c.Overlapping() || b == nil || b.inverseMass == 0 {
		return false
	}
	b.Position = b.Position.Add(c.Normal.Mul(c.Penetration))

	sepVel := c.Normal.Dot(b.Velocity)
	if sepVel < 0 {
		b.Velocity = b.Velocity.Add(c.Normal.Mul(-2 * sepVel))
	}
	return true
}

// ResolveSpheres detects and resolves a sphere pair in one call.
func ResolveSpheres(a, b *Sphere) (Contact, bool) {
	c := DetectSpheres(a, b)
	return c, ResolveContact(c, a.Body, b.Body)
}

// ResolveSpherePlane detects and resolves a sphere against a plane in one call.
func ResolveSpherePlane(s *Sphere, p *Plane) (Contact, bool) {
	c := DetectSpherePlane(s, p)
	return c, ResolvePlaneContact(c, s.Body)
}
