// Package geometry implements the closed set of analytic primitives this
// renderer supports: spheres and axis-aligned cubes. Adding a primitive
// means adding a branch everywhere a Geometry is switched on — spec.md §9
// calls this out as intentional.
package geometry

import (
	"math"

	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/vecmath"
)

// Sphere is defined by a center and a positive radius.
type Sphere struct {
	Center vecmath.Point3
	Radius float64
}

// Intersect solves a*t^2 + 2k*t + c = 0 for the nearest non-negative root,
// per spec.md §4.2.
func (s Sphere) Intersect(r raytracing.Ray) (float64, bool) {
	o := r.Origin
	d := r.Direction
	oc := o.Sub(s.Center)

	a := d.Dot(d)
	k := oc.Dot(d)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := k*k - a*c
	if discriminant < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-k - sqrtDisc) / a
	t2 := (-k + sqrtDisc) / a

	if t1 >= 0 {
		return t1, true
	}
	if t2 >= 0 {
		return t2, true
	}
	return 0, false
}

// NormalAt returns the outward normal at a point assumed to lie on the
// sphere's surface.
func (s Sphere) NormalAt(p vecmath.Point3) vecmath.Vec3 {
	return p.Sub(s.Center).Normalize()
}

// AABB returns the sphere's axis-aligned bounding box, used by the GPU
// integrator when placing TLAS instances.
func (s Sphere) AABB() (min, max vecmath.Point3) {
	r := vecmath.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return s.Center.Sub(r), s.Center.Add(r)
}

// Cube is an axis-aligned cube defined by its center and side length.
type Cube struct {
	Center     vecmath.Point3
	SideLength float64
}

// Intersect performs a slab-method AABB test, per spec.md §4.2: if tmax<0
// or tmin>tmax the ray misses; if tmin<0 the ray originates inside the
// cube and the exit point (tmax) is returned, otherwise the entry point
// (tmin) is returned.
func (c Cube) Intersect(r raytracing.Ray) (float64, bool) {
	half := c.SideLength / 2
	min := c.Center.Sub(vecmath.Vec3{X: half, Y: half, Z: half})
	max := c.Center.Add(vecmath.Vec3{X: half, Y: half, Z: half})

	tmin, tmax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := component(r.Origin, axis)
		d := component(r.Direction, axis)
		lo := component(min, axis)
		hi := component(max, axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NormalAt returns the face normal for a point assumed to lie on the
// cube's surface: the axis minimizing |(|local_axis| - half_side)|
// identifies the face, per spec.md §4.2.
func (c Cube) NormalAt(p vecmath.Point3) vecmath.Vec3 {
	local := p.Sub(c.Center)
	half := c.SideLength / 2

	xDist := math.Abs(math.Abs(local.X) - half)
	yDist := math.Abs(math.Abs(local.Y) - half)
	zDist := math.Abs(math.Abs(local.Z) - half)

	switch {
	case xDist < yDist && xDist < zDist:
		return vecmath.Vec3{X: sign(local.X)}
	case yDist < zDist:
		return vecmath.Vec3{Y: sign(local.Y)}
	default:
		return vecmath.Vec3{Z: sign(local.Z)}
	}
}

// AABB returns the cube's bounding box (itself, since it is axis-aligned).
func (c Cube) AABB() (min, max vecmath.Point3) {
	half := c.SideLength / 2
	h := vecmath.Vec3{X: half, Y: half, Z: half}
	return c.Center.Sub(h), c.Center.Add(h)
}

func component(v vecmath.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func sign(f float64) float64 {
	if f >= 0 {
		return 1
	}
	return -1
}
