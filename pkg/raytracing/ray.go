// Package raytracing defines the Ray type and the closest-hit query used by
// both the CPU and GPU integrators.
package raytracing

import "github.com/simpala/grinder-trace/pkg/vecmath"

// Ray is an origin and direction. The direction need not be pre-normalized
// for intersection math, but shading assumes it is unit length.
type Ray struct {
	Origin    vecmath.Point3
	Direction vecmath.Vec3
}

// At evaluates the ray's position at parameter t.
func (r Ray) At(t float64) vecmath.Point3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
