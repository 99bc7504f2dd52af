package vecmath

import "math"

// Mat4 is a row-major 4x4 matrix: M[row][col].
type Mat4 [4][4]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// MulVec4 transforms v by m.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// Mul composes two matrices, a applied after b (a*b).
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[r][k] * b[k][c]
			}
			out[r][c] = sum
		}
	}
	return out
}

// Det computes the determinant via cofactor expansion along the first row.
func (m Mat4) Det() float64 {
	sub := func(skipRow, skipCol int) [3][3]float64 {
		var s [3][3]float64
		ri := 0
		for r := 0; r < 4; r++ {
			if r == skipRow {
				continue
			}
			ci := 0
			for c := 0; c < 4; c++ {
				if c == skipCol {
					continue
				}
				s[ri][ci] = m[r][c]
				ci++
			}
			ri++
		}
		return s
	}
	det3 := func(s [3][3]float64) float64 {
		return s[0][0]*(s[1][1]*s[2][2]-s[1][2]*s[2][1]) -
			s[0][1]*(s[1][0]*s[2][2]-s[1][2]*s[2][0]) +
			s[0][2]*(s[1][0]*s[2][1]-s[1][1]*s[2][0])
	}
	var det float64
	sign := 1.0
	for c := 0; c < 4; c++ {
		det += sign * m[0][c] * det3(sub(0, c))
		sign = -sign
	}
	return det
}

// Inverse computes the general 4x4 matrix inverse via the adjugate method.
// Precondition: Det(m) != 0 — spec.md treats a singular view/projection
// matrix as a programmer error, not a recoverable one.
func (m Mat4) Inverse() Mat4 {
	det := m.Det()
	if det == 0 {
		panic("vecmath: Inverse of singular matrix")
	}
	invDet := 1 / det

	minor := func(r, c int) float64 {
		var s [3][3]float64
		ri := 0
		for rr := 0; rr < 4; rr++ {
			if rr == r {
				continue
			}
			ci := 0
			for cc := 0; cc < 4; cc++ {
				if cc == c {
					continue
				}
				s[ri][ci] = m[rr][cc]
				ci++
			}
			ri++
		}
		return s[0][0]*(s[1][1]*s[2][2]-s[1][2]*s[2][1]) -
			s[0][1]*(s[1][0]*s[2][2]-s[1][2]*s[2][0]) +
			s[0][2]*(s[1][0]*s[2][1]-s[1][1]*s[2][0])
	}

	var cof Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sign := 1.0
			if (r+c)%2 == 1 {
				sign = -1
			}
			cof[r][c] = sign * minor(r, c)
		}
	}

	// Adjugate is the transpose of the cofactor matrix.
	var inv Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			inv[r][c] = cof[c][r] * invDet
		}
	}
	return inv
}

// LookAtLH builds a left-handed view matrix for a camera at eye looking at
// target with the given up vector, matching this system's left-handed
// world convention (spec.md §9).
func LookAtLH(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize() // forward, +Z in view space
	r := up.Normalize().Cross(f).Normalize()
	u := f.Cross(r)

	return Mat4{
		{r.X, r.Y, r.Z, -r.Dot(eye)},
		{u.X, u.Y, u.Z, -u.Dot(eye)},
		{f.X, f.Y, f.Z, -f.Dot(eye)},
		{0, 0, 0, 1},
	}
}

// PerspectiveLH builds a left-handed perspective projection matrix mapping
// z in [near, far] to [0, 1] (reversed is not used; this matches the
// straightforward convention the CPU integrator's clip-space math expects).
func PerspectiveLH(fovYRadians, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovYRadians/2)
	return Mat4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, far / (far - near), -(far * near) / (far - near)},
		{0, 0, 1, 0},
	}
}

// OrthographicLH builds a left-handed orthographic projection matrix whose
// view-space extent is [-size/2, size/2] in X and Y (size is the
// Orthographic variant's "size" field from spec.md §3).
func OrthographicLH(size, aspect, near, far float64) Mat4 {
	halfH := size / 2
	halfW := halfH * aspect
	return Mat4{
		{1 / halfW, 0, 0, 0},
		{0, 1 / halfH, 0, 0},
		{0, 0, 1 / (far - near), -near / (far - near)},
		{0, 0, 0, 1},
	}
}
