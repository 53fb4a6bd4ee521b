package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind names a cached mesh.
type Kind int

const (
	Sphere Kind = iota
	Plane
	Barrel
	kindCount
)

type cached struct {
	mesh  rl.Mesh
	mtl   rl.Material
	ready bool
}

// Registry holds one mesh+material per Kind. Meshes are created on first use so that
// GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    [kindCount]cached
	shader   rl.Shader
	viewPos  mgl32.Vec3
	lightDir mgl32.Vec3
}

// NewRegistry returns an empty registry lit from above-right.
func NewRegistry() *Registry {
	return &Registry{lightDir: mgl32.Vec3{0.5, 1, 0.5}.Normalize()}
}

// SetView sets camera position and direction-to-light for this frame. Call once per
// frame before drawing.
func (r *Registry) SetView(viewPos, lightDir mgl32.Vec3) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

const (
	sphereRings    = 16
	sphereSlices   = 16
	barrelSlices   = 12
	planeSubdivide = 1
)

func (r *Registry) ensure(k Kind) *cached {
	c := &r.cache[k]
	if c.ready {
		return c
	}
	switch k {
	case Sphere:
		// Unit radius; scaled per instance.
		c.mesh = rl.GenMeshSphere(1, sphereRings, sphereSlices)
	case Plane:
		c.mesh = rl.GenMeshPlane(1, 1, planeSubdivide, planeSubdivide)
	case Barrel:
		c.mesh = rl.GenMeshCylinder(1, 1, barrelSlices)
	}
	c.mtl = rl.LoadMaterialDefault()
	if !rl.IsShaderValid(r.shader) {
		r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	}
	if rl.IsShaderValid(r.shader) {
		c.mtl.Shader = r.shader
	}
	c.ready = true
	return c
}

// DrawSphere draws a sphere. Must be called between BeginMode3D and EndMode3D.
func (r *Registry) DrawSphere(center mgl32.Vec3, radius float32, color rl.Color) {
	m := mgl32.Translate3D(center[0], center[1], center[2]).Mul4(mgl32.Scale3D(radius, radius, radius))
	r.draw(Sphere, m, color)
}

// DrawPlane draws a size x size square of the plane centred on origin, turned so the
// mesh's +Y faces along normal.
func (r *Registry) DrawPlane(origin, normal mgl32.Vec3, size float32, color rl.Color) {
	rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, normal.Normalize()).Mat4()
	m := mgl32.Translate3D(origin[0], origin[1], origin[2]).Mul4(rot).Mul4(mgl32.Scale3D(size, 1, size))
	r.draw(Plane, m, color)
	// The mesh is single sided; draw the back face too.
	flip := mgl32.HomogRotate3DX(mgl32.DegToRad(180))
	r.draw(Plane, m.Mul4(flip), color)
}

// DrawBarrel draws a cylinder from base along dir.
func (r *Registry) DrawBarrel(base, dir mgl32.Vec3, length, radius float32, color rl.Color) {
	rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, dir.Normalize()).Mat4()
	m := mgl32.Translate3D(base[0], base[1], base[2]).Mul4(rot).Mul4(mgl32.Scale3D(radius, length, radius))
	r.draw(Barrel, m, color)
}

func (r *Registry) draw(k Kind, transform mgl32.Mat4, color rl.Color) {
	c := r.ensure(k)
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = color
	}
	r.setUniforms()
	rl.DrawMesh(c.mesh, c.mtl, toMatrix(transform))
}

// Unload frees the GPU resources. Call before closing the window.
func (r *Registry) Unload() {
	for i := range r.cache {
		c := &r.cache[i]
		if !c.ready {
			continue
		}
		rl.UnloadMesh(&c.mesh)
		c.ready = false
	}
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
}

// toMatrix converts a column-major mgl32 matrix into raylib's layout. Both use the
// OpenGL convention, so Mi maps to m[i].
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
