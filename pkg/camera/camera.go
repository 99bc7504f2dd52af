// Package camera holds the renderer's view onto a scene: pose, projection
// and the cached matrices (and their inverses) derived from them.
package camera

import (
	"math"

	"github.com/simpala/grinder-trace/pkg/vecmath"
)

// ProjectionKind distinguishes the two supported projections.
type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

// Projection is a tagged union over the camera's projection variant:
// Perspective carries a vertical field of view in degrees, Orthographic
// carries a vertical extent ("size").
type Projection struct {
	Kind ProjectionKind
	// FovDegrees is used when Kind == Perspective. Must be in (0, 180).
	FovDegrees float64
	// Size is used when Kind == Orthographic.
	Size float64
}

// Camera holds pose and projection parameters and caches the view/
// projection matrices (and their inverses) derived from them. Every
// mutator recomputes the caches eagerly so that read paths stay
// branch-free, matching the teacher's eager-recompute-on-mutation style.
type Camera struct {
	position, target, up vecmath.Vec3
	resX, resY           int
	projection           Projection
	near, far             float64

	view, proj       vecmath.Mat4
	invView, invProj vecmath.Mat4
}

// New builds a camera and computes its initial matrix caches.
// Precondition (caller-enforced, per spec.md §3): fov in (0, 180) degrees
// for Perspective, near > 0, far > near.
func New(position, target, up vecmath.Vec3, resX, resY int, projection Projection, near, far float64) *Camera {
	c := &Camera{
		position:   position,
		target:     target,
		up:         up,
		resX:       resX,
		resY:       resY,
		projection: projection,
		near:       near,
		far:        far,
	}
	c.recompute()
	return c
}

func (c *Camera) recompute() {
	c.view = vecmath.LookAtLH(c.position, c.target, c.up)
	aspect := float64(c.resX) / float64(c.resY)
	switch c.projection.Kind {
	case Orthographic:
		c.proj = vecmath.OrthographicLH(c.projection.Size, aspect, c.near, c.far)
	default:
		fovRad := c.projection.FovDegrees * math.Pi / 180
		c.proj = vecmath.PerspectiveLH(fovRad, aspect, c.near, c.far)
	}
	c.invView = c.view.Inverse()
	c.invProj = c.proj.Inverse()
}

func (c *Camera) Position() vecmath.Vec3    { return c.position }
func (c *Camera) Target() vecmath.Vec3      { return c.target }
func (c *Camera) Up() vecmath.Vec3          { return c.up }
func (c *Camera) Resolution() (int, int)    { return c.resX, c.resY }
func (c *Camera) Projection() Projection    { return c.projection }
func (c *Camera) NearClip() float64         { return c.near }
func (c *Camera) FarClip() float64          { return c.far }
func (c *Camera) ViewMatrix() vecmath.Mat4  { return c.view }
func (c *Camera) ProjMatrix() vecmath.Mat4  { return c.proj }
func (c *Camera) InverseView() vecmath.Mat4 { return c.invView }
func (c *Camera) InverseProj() vecmath.Mat4 { return c.invProj }

func (c *Camera) SetPosition(p vecmath.Vec3) { c.position = p; c.recompute() }
func (c *Camera) SetTarget(t vecmath.Vec3)   { c.target = t; c.recompute() }
func (c *Camera) SetUp(u vecmath.Vec3)       { c.up = u; c.recompute() }

func (c *Camera) SetResolution(w, h int) {
	c.resX, c.resY = w, h
	c.recompute()
}

func (c *Camera) SetClipPlanes(near, far float64) {
	c.near, c.far = near, far
	c.recompute()
}

func (c *Camera) SetProjection(p Projection) {
	c.projection = p
	c.recompute()
}

// basis returns the camera's orthonormal right/up/forward vectors, derived
// from the cached view matrix rows.
func (c *Camera) basis() (right, up, forward vecmath.Vec3) {
	return vecmath.Vec3{X: c.view[0][0], Y: c.view[0][1], Z: c.view[0][2]},
		vecmath.Vec3{X: c.view[1][0], Y: c.view[1][1], Z: c.view[1][2]},
		vecmath.Vec3{X: c.view[2][0], Y: c.view[2][1], Z: c.view[2][2]}
}

// Pan translates both position and target along the screen-plane basis in
// world space. The delta magnitude scales by the distance between position
// and target, per spec.md §4.1.
func (c *Camera) Pan(dx, dy float64) {
	right, up, _ := c.basis()
	dist := c.target.Sub(c.position).Length()
	offset := right.Mul(-dx * dist).Add(up.Mul(dy * dist))
	c.position = c.position.Add(offset)
	c.target = c.target.Add(offset)
	c.recompute()
}

// Orbit rotates the camera position around the target in spherical
// coordinates (azimuth, elevation) relative to world-up, clamping
// elevation away from the poles, per spec.md §4.1.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	const poleEpsilon = 1e-3

	offset := c.position.Sub(c.target)
	radius := offset.Length()
	if radius == 0 {
		return
	}

	elevation := math.Asin(clamp(offset.Y/radius, -1, 1))
	azimuth := math.Atan2(offset.X, offset.Z)

	azimuth += dAzimuth
	elevation += dElevation
	maxElevation := math.Pi/2 - poleEpsilon
	elevation = clamp(elevation, -maxElevation, maxElevation)

	newOffset := vecmath.Vec3{
		X: radius * math.Cos(elevation) * math.Sin(azimuth),
		Y: radius * math.Sin(elevation),
		Z: radius * math.Cos(elevation) * math.Cos(azimuth),
	}
	c.position = c.target.Add(newOffset)
	c.recompute()
}

// Zoom moves the position along the (position - target) axis by d. It
// refuses to cross the target: d must be less than the current distance.
func (c *Camera) Zoom(d float64) {
	toCamera := c.position.Sub(c.target)
	dist := toCamera.Length()
	if d >= dist {
		return
	}
	newDist := dist - d
	c.position = c.target.Add(toCamera.Mul(newDist / dist))
	c.recompute()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
