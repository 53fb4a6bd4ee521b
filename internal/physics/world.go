package physics

import (
	"fmt"
	"io"
	"reflect"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Handle identifies a body or plane registered with a World. Handles are never reused.
type Handle uint64

// ContactEvent describes one contact resolved during Step. For sphere-plane contacts
// Plane is true and B is the plane's handle. ClosingSpeed is the approach speed along
// the normal before resolution (0 if the shapes were already separating).
type ContactEvent struct {
	A, B         Handle
	Plane        bool
	Contact      Contact
	ClosingSpeed float32
}

// ContactHandler is called for every resolved contact, in resolution order. It runs in
// the middle of Step; registry changes it makes take effect from the next step.
type ContactHandler func(ContactEvent)

// Stats is a snapshot of the world's size and the last step's collision work.
type Stats struct {
	Ticks       uint64
	Bodies      int
	Spheres     int
	Planes      int
	PairsTested int
	Contacts    int
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for registry changes (debug) and rejected steps (warn).
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithContactHandler installs h as the contact callback.
func WithContactHandler(h ContactHandler) Option {
	return func(w *World) {
		w.onContact = h
	}
}

type entry struct {
	body   *Body
	sphere *Sphere
}

type subscription struct {
	gen    ForceGenerator
	handle Handle
}

type sphereRef struct {
	handle Handle
	sphere *Sphere
}

type planeRef struct {
	handle Handle
	plane  *Plane
}

// World is the explicit registry of bodies, spheres, planes and force generators, and
// runs the fixed-timestep simulation over them.
//
// Pairs are visited in registration order and resolved one after another, each seeing
// the positions left by the previous one. There is no global solver: a crowded scene may
// keep a little residual overlap after one step, which later steps work off.
//
// World is not safe for concurrent use; the host calls Step and reads bodies from a
// single goroutine.
type World struct {
	bodies  *orderedmap.OrderedMap[Handle, *entry]
	planes  *orderedmap.OrderedMap[Handle, *Plane]
	index   map[*Body]Handle
	globals []ForceGenerator
	subs    []subscription
	next    Handle

	log       logrus.FieldLogger
	onContact ContactHandler
	stats     Stats

	sphereScratch []sphereRef
	planeScratch  []planeRef
}

// NewWorld returns an empty world.
func NewWorld(opts ...Option) *World {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	w := &World{
		bodies: orderedmap.NewOrderedMap[Handle, *entry](),
		planes: orderedmap.NewOrderedMap[Handle, *Plane](),
		index:  make(map[*Body]Handle),
		log:    discard,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetContactHandler replaces the contact callback; nil disables it.
func (w *World) SetContactHandler(h ContactHandler) {
	w.onContact = h
}

func (w *World) allocHandle() Handle {
	w.next++
	return w.next
}

// AddBody registers a point mass without collision geometry. It is integrated and
// receives forces but never collides.
func (w *World) AddBody(b *Body) (Handle, error) {
	return w.add(&entry{body: b})
}

// AddSphere registers a sphere and its body.
func (w *World) AddSphere(s *Sphere) (Handle, error) {
	if s == nil {
		return 0, ErrNilBody
	}
	return w.add(&entry{body: s.Body, sphere: s})
}

func (w *World) add(e *entry) (Handle, error) {
	if e.body == nil {
		return 0, ErrNilBody
	}
	if h, dup := w.index[e.body]; dup {
		return 0, fmt.Errorf("body already has handle %d: %w", h, ErrDuplicateBody)
	}
	h := w.allocHandle()
	w.bodies.Set(h, e)
	w.index[e.body] = h
	w.log.WithFields(logrus.Fields{"handle": h, "sphere": e.sphere != nil}).Debug("physics: body registered")
	return h, nil
}

// AddPlane registers a static plane.
func (w *World) AddPlane(p *Plane) (Handle, error) {
	if p == nil {
		return 0, fmt.Errorf("nil plane: %w", ErrDegenerateNormal)
	}
	h := w.allocHandle()
	w.planes.Set(h, p)
	w.log.WithFields(logrus.Fields{"handle": h, "normal": p.normal, "offset": p.offset}).Debug("physics: plane registered")
	return h, nil
}

// Remove unregisters the body or plane behind h together with every force subscription
// targeting it. It reports whether h was registered.
func (w *World) Remove(h Handle) bool {
	if e, ok := w.bodies.Get(h); ok {
		w.bodies.Delete(h)
		delete(w.index, e.body)
		kept := w.subs[:0]
		for _, s := range w.subs {
			if s.handle != h {
				kept = append(kept, s)
			}
		}
		clear(w.subs[len(kept):])
		w.subs = kept
		w.log.WithField("handle", h).Debug("physics: body removed")
		return true
	}
	if w.planes.Delete(h) {
		w.log.WithField("handle", h).Debug("physics: plane removed")
		return true
	}
	return false
}

// Body returns the body registered under h.
func (w *World) Body(h Handle) (*Body, bool) {
	e, ok := w.bodies.Get(h)
	if !ok {
		return nil, false
	}
	return e.body, true
}

// Sphere returns the sphere registered under h; ok is false for planes, bare bodies and
// unknown handles.
func (w *World) Sphere(h Handle) (*Sphere, bool) {
	e, ok := w.bodies.Get(h)
	if !ok || e.sphere == nil {
		return nil, false
	}
	return e.sphere, true
}

// Plane returns the plane registered under h.
func (w *World) Plane(h Handle) (*Plane, bool) {
	return w.planes.Get(h)
}

// HandleOf returns the handle b was registered under.
func (w *World) HandleOf(b *Body) (Handle, bool) {
	h, ok := w.index[b]
	return h, ok
}

// Anchor returns a live anchor on the body behind h. It stops resolving as soon as h is
// removed, so generators pointing at it fall back to zero force.
func (w *World) Anchor(h Handle) Anchor {
	return AnchorFunc(func() (mgl32.Vec3, bool) {
		e, ok := w.bodies.Get(h)
		if !ok {
			return mgl32.Vec3{}, false
		}
		return e.body.Position, true
	})
}

// AddGlobalForce applies gen to every registered body each step.
func (w *World) AddGlobalForce(gen ForceGenerator) {
	if gen != nil {
		w.globals = append(w.globals, gen)
	}
}

// sameGenerator reports whether a and b are the same generator. Generators whose
// dynamic type is not comparable (func or slice based) never match, so they cannot be
// removed later; register pointers to remove them.
func sameGenerator(a, b ForceGenerator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// RemoveGlobalForce removes gen from the global generators.
func (w *World) RemoveGlobalForce(gen ForceGenerator) bool {
	for i, g := range w.globals {
		if sameGenerator(g, gen) {
			w.globals = append(w.globals[:i], w.globals[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribe applies gen to each of the given bodies every step.
// All handles are checked before any subscription is added.
func (w *World) Subscribe(gen ForceGenerator, handles ...Handle) error {
	if gen == nil {
		return ErrNilForce
	}
	for _, h := range handles {
		if _, ok := w.bodies.Get(h); !ok {
			return fmt.Errorf("subscribe handle %d: %w", h, ErrUnknownHandle)
		}
	}
	for _, h := range handles {
		w.subs = append(w.subs, subscription{gen: gen, handle: h})
	}
	return nil
}

// Unsubscribe drops every subscription of gen and returns how many there were.
func (w *World) Unsubscribe(gen ForceGenerator) int {
	kept := w.subs[:0]
	for _, s := range w.subs {
		if !sameGenerator(s.gen, gen) {
			kept = append(kept, s)
		}
	}
	n := len(w.subs) - len(kept)
	clear(w.subs[len(kept):])
	w.subs = kept
	return n
}

// EachSphere calls fn for every registered sphere in registration order.
func (w *World) EachSphere(fn func(Handle, *Sphere)) {
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		if el.Value.sphere != nil {
			fn(el.Key, el.Value.sphere)
		}
	}
}

// EachPlane calls fn for every registered plane in registration order.
func (w *World) EachPlane(fn func(Handle, *Plane)) {
	for el := w.planes.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Stats returns registry sizes and the counters of the last step.
func (w *World) Stats() Stats {
	s := w.stats
	s.Bodies = w.bodies.Len()
	s.Planes = w.planes.Len()
	s.Spheres = 0
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		if el.Value.sphere != nil {
			s.Spheres++
		}
	}
	return s
}

// Step advances the simulation by dt: every force generator runs, every body is
// integrated, then each unordered sphere pair is resolved exactly once, followed by
// each sphere-plane pair. A dt that is not positive and finite is rejected and nothing
// changes.
func (w *World) Step(dt float32) error {
	if !(dt > 0) || !isFinite(dt) {
		w.log.WithField("dt", dt).Warn("physics: step rejected")
		return fmt.Errorf("step dt %v: %w", dt, ErrInvalidTimestep)
	}

	w.applyForces()
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		Integrate(el.Value.body, dt)
	}
	w.resolveContacts()
	w.stats.Ticks++
	return nil
}

func (w *World) applyForces() {
	if len(w.globals) > 0 {
		for el := w.bodies.Front(); el != nil; el = el.Next() {
			for _, g := range w.globals {
				g.UpdateForce(el.Value.body)
			}
		}
	}
	for _, s := range w.subs {
		if e, ok := w.bodies.Get(s.handle); ok {
			s.gen.UpdateForce(e.body)
		}
	}
}

func (w *World) resolveContacts() {
	w.sphereScratch = w.sphereScratch[:0]
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		if el.Value.sphere != nil {
			w.sphereScratch = append(w.sphereScratch, sphereRef{handle: el.Key, sphere: el.Value.sphere})
		}
	}
	w.planeScratch = w.planeScratch[:0]
	for el := w.planes.Front(); el != nil; el = el.Next() {
		w.planeScratch = append(w.planeScratch, planeRef{handle: el.Key, plane: el.Value})
	}

	w.stats.PairsTested = 0
	w.stats.Contacts = 0

	spheres := w.sphereScratch
	for i := 0; i < len(spheres); i++ {
		a := spheres[i]
		for j := i + 1; j < len(spheres); j++ {
			b := spheres[j]
			w.stats.PairsTested++
			c := DetectSpheres(a.sphere, b.sphere)
			if !c.Overlapping() {
				continue
			}
			closing := -c.Normal.Dot(a.sphere.Body.Velocity.Sub(b.sphere.Body.Velocity))
			if ResolveContact(c, a.sphere.Body, b.sphere.Body) {
				w.emit(ContactEvent{A: a.handle, B: b.handle, Contact: c, ClosingSpeed: max(closing, 0)})
			}
		}
	}

	for _, s := range spheres {
		for _, p := range w.planeScratch {
			w.stats.PairsTested++
			c := DetectSpherePlane(s.sphere, p.plane)
			if !c.Overlapping() {
				continue
			}
			closing := -c.Normal.Dot(s.sphere.Body.Velocity)
			if ResolvePlaneContact(c, s.sphere.Body) {
				w.emit(ContactEvent{A: s.handle, B: p.handle, Plane: true, Contact: c, ClosingSpeed: max(closing, 0)})
			}
		}
	}
}

func (w *World) emit(ev ContactEvent) {
	w.stats.Contacts++
	if w.onContact != nil {
		w.onContact(ev)
	}
}
