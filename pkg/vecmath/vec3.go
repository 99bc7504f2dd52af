// Package vecmath provides the 3D linear algebra primitives shared by the
// camera, geometry and integrator packages.
package vecmath

import "math"

// Vec3 is a 3D vector or point, depending on context. Direction vectors
// passed into shading are unit-length unless documented otherwise.
type Vec3 struct {
	X, Y, Z float64
}

// Point3 is an alias for Vec3 used where a value is conceptually a position.
type Point3 = Vec3

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Mul(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// MulVec multiplies component-wise (the Hadamard product used for throughput).
func (a Vec3) MulVec(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LengthSquared() float64 { return a.Dot(a) }
func (a Vec3) Length() float64        { return math.Sqrt(a.LengthSquared()) }

// Normalize returns a unit vector in the same direction. The zero vector is
// returned unchanged rather than producing NaNs.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Mul(1 / l)
}

// NearZero reports whether every component is close enough to zero that the
// direction should be treated as degenerate.
func (a Vec3) NearZero() bool {
	const eps = 1e-8
	return math.Abs(a.X) < eps && math.Abs(a.Y) < eps && math.Abs(a.Z) < eps
}

func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Clamp01 clamps every component to [0, 1].
func (a Vec3) Clamp01() Vec3 {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return Vec3{clamp(a.X), clamp(a.Y), clamp(a.Z)}
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Reflect mirrors d around the unit normal n: d - 2(d.n)n.
func Reflect(d, n Vec3) Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

// CanRefract reports whether a ray with unit direction d crossing a boundary
// with relative index of refraction etaOverEtaT can refract (i.e. does not
// totally internally reflect).
func CanRefract(d, n Vec3, etaOverEtaT float64) bool {
	cosTheta := math.Min(d.Negate().Dot(n), 1)
	sinTheta2 := 1 - cosTheta*cosTheta
	return etaOverEtaT*etaOverEtaT*sinTheta2 <= 1
}

// Refract bends a unit direction d across a boundary with unit normal n and
// relative index of refraction etaOverEtaT. Callers must check CanRefract
// first; behavior is undefined (mathematically, a NaN) if TIR would occur.
func Refract(d, n Vec3, etaOverEtaT float64) Vec3 {
	cosTheta := math.Min(d.Negate().Dot(n), 1)
	rOutPerp := d.Add(n.Mul(cosTheta)).Mul(etaOverEtaT)
	rOutParallel := n.Mul(-math.Sqrt(math.Abs(1 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Schlick computes the Schlick approximation of Fresnel reflectance for a
// dielectric boundary with the given index of refraction.
func Schlick(cosTheta, ior float64) float64 {
	r0 := (ior - 1) / (ior + 1)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}
