package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FallbackNormal is the contact normal used when the direction between two shapes is
// undefined, e.g. two spheres whose centers coincide exactly.
var FallbackNormal = mgl32.Vec3{1, 0, 0}

// normalizeOr returns v scaled to unit length together with its original length.
// When v has no usable length (zero, NaN or Inf) it returns fallback and 0.
func normalizeOr(v, fallback mgl32.Vec3) (mgl32.Vec3, float32) {
	l := math32.Sqrt(v.Dot(v))
	if l == 0 || !isFinite(l) {
		return fallback, 0
	}
	inv := 1 / l
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, l
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func isFiniteVec(v mgl32.Vec3) bool {
	return isFinite(v[0]) && isFinite(v[1]) && isFinite(v[2])
}
