package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"particle-sandbox/internal/arsenal"
	"particle-sandbox/internal/physics"
	"particle-sandbox/internal/primitives"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	planeDrawSize = 60
	barrelRadius  = 0.15

	minDistance = 5
	maxDistance = 120
	zoomSpeed   = 2
	panSpeed    = 10
)

var (
	staticColor = rl.NewColor(150, 150, 150, 255)
	planeColor  = rl.NewColor(70, 90, 110, 160)
	gunColor    = rl.NewColor(230, 200, 80, 255)
	targetColor = rl.NewColor(240, 80, 80, 255)
	palette     = []rl.Color{
		rl.NewColor(90, 170, 250, 255),
		rl.NewColor(250, 140, 70, 255),
		rl.NewColor(120, 220, 120, 255),
		rl.NewColor(220, 110, 220, 255),
		rl.NewColor(250, 220, 90, 255),
		rl.NewColor(90, 220, 210, 255),
	}
)

// Scene holds the 3D camera and draws the world. The simulation lives in the XY plane
// (gun aim, mouse target) with gravity along -Y, so the camera looks down -Z.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool

	prims  *primitives.Registry
	aim    *physics.Plane
	target mgl32.Vec3
	onAim  bool
}

// New returns a scene looking at the play area above the origin.
func New() *Scene {
	s := &Scene{GridVisible: true, prims: primitives.NewRegistry()}
	s.Camera.Position = rl.NewVector3(0, 6, 30)
	s.Camera.Target = rl.NewVector3(0, 5, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	// z = 0 always has a valid normal.
	s.aim, _ = physics.NewPlane(mgl32.Vec3{0, 0, 1}, 0)
	return s
}

// SetGridVisible sets whether the ground grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Update runs once per frame: mouse wheel zooms, arrow keys pan (when input is true),
// and the mouse ray is projected onto z = 0 for MouseTarget.
func (s *Scene) Update(dt float32, input bool) {
	if input {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			d := s.Camera.Position.Z - s.Camera.Target.Z
			d = mgl32.Clamp(d-wheel*zoomSpeed, minDistance, maxDistance)
			s.Camera.Position.Z = s.Camera.Target.Z + d
		}
		var pan mgl32.Vec2
		if rl.IsKeyDown(rl.KeyLeft) {
			pan[0]--
		}
		if rl.IsKeyDown(rl.KeyRight) {
			pan[0]++
		}
		if rl.IsKeyDown(rl.KeyUp) {
			pan[1]++
		}
		if rl.IsKeyDown(rl.KeyDown) {
			pan[1]--
		}
		pan = pan.Mul(panSpeed * dt)
		s.Camera.Position.X += pan[0]
		s.Camera.Target.X += pan[0]
		s.Camera.Position.Y += pan[1]
		s.Camera.Target.Y += pan[1]
	}

	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), s.Camera)
	s.target, s.onAim = s.aim.IntersectRay(vec(ray.Position), vec(ray.Direction))
}

// MouseTarget returns the point under the mouse on the z = 0 plane. It is a live anchor
// suitable for attractors.
func (s *Scene) MouseTarget() physics.Anchor {
	return physics.AnchorFunc(func() (mgl32.Vec3, bool) {
		return s.target, s.onAim
	})
}

// Draw renders the world and the gun. Call after ClearBackground and before 2D overlays.
func (s *Scene) Draw(world *physics.World, gun *arsenal.Gun, showTarget bool) {
	cam := vec(s.Camera.Position)
	s.prims.SetView(cam, mgl32.Vec3{0.4, 1, 0.6}.Normalize())

	rl.BeginMode3D(s.Camera)
	if s.GridVisible {
		drawGrid()
	}
	world.EachSphere(func(h physics.Handle, sp *physics.Sphere) {
		c := staticColor
		if !sp.Body.Static() {
			c = palette[int(h)%len(palette)]
		}
		s.prims.DrawSphere(sp.Center(), sp.Radius(), c)
	})
	world.EachPlane(func(_ physics.Handle, p *physics.Plane) {
		s.prims.DrawPlane(p.Origin(), p.Normal(), planeDrawSize, planeColor)
	})
	if gun != nil {
		s.prims.DrawBarrel(gun.Position(), gun.Direction(), arsenal.MuzzleLength, barrelRadius, gunColor)
	}
	if showTarget && s.onAim {
		s.prims.DrawSphere(s.target, 0.15, targetColor)
	}
	rl.EndMode3D()
}

// Unload frees the meshes. Call before the window closes.
func (s *Scene) Unload() {
	s.prims.Unload()
}

func vec(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// drawGrid draws the ground grid on the XZ plane with major/minor lines and axis lines.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	axes := [3]rl.Color{
		rl.NewColor(220, 80, 80, axisLineAlpha),
		rl.NewColor(80, 220, 80, axisLineAlpha),
		rl.NewColor(80, 80, 220, axisLineAlpha),
	}
	for i, c := range axes {
		var a, b mgl32.Vec3
		a[i], b[i] = -gridExtent, gridExtent
		rl.DrawLine3D(rl.NewVector3(a[0], a[1], a[2]), rl.NewVector3(b[0], b[1], b[2]), c)
	}
}
