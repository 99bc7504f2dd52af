package renderer

import (
	"math"
	"testing"

	"github.com/simpala/grinder-trace/pkg/camera"
	"github.com/simpala/grinder-trace/pkg/geometry"
	"github.com/simpala/grinder-trace/pkg/material"
	"github.com/simpala/grinder-trace/pkg/scene"
	"github.com/simpala/grinder-trace/pkg/vecmath"
	"github.com/simpala/grinder-trace/pkg/world"
)

func skyScene(resolution int) *scene.Scene {
	cam := camera.New(
		vecmath.Vec3{Z: -3}, vecmath.Vec3{}, vecmath.Vec3{Y: 1},
		resolution, resolution,
		camera.Projection{Kind: camera.Perspective, FovDegrees: 60},
		0.1, 100,
	)
	return &scene.Scene{
		Camera: cam,
		World: world.World{
			Kind:        world.Sky,
			TopColor:    vecmath.Vec3{X: 0.53, Y: 0.8, Z: 0.92},
			BottomColor: vecmath.Vec3{X: 1, Y: 1, Z: 1},
		},
	}
}

// sphereSceneWithCamera builds a one-object scene: a unit sphere at the
// origin under world w, shaded with mat, viewed through cam.
func sphereSceneWithCamera(cam *camera.Camera, w world.World, mat material.Material) *scene.Scene {
	return &scene.Scene{
		Camera: cam,
		World:  w,
		Objects: []scene.Object{
			{Geometry: geometry.Sphere{Center: vecmath.Point3{}, Radius: 1}, Material: mat},
		},
	}
}

func sphereScene(resolution int, w world.World, mat material.Material) *scene.Scene {
	cam := camera.New(
		vecmath.Vec3{Z: -3}, vecmath.Vec3{}, vecmath.Vec3{Y: 1},
		resolution, resolution,
		camera.Projection{Kind: camera.Perspective, FovDegrees: 60},
		0.1, 100,
	)
	return sphereSceneWithCamera(cam, w, mat)
}

func TestEmptySceneSkyGradient(t *testing.T) {
	s := skyScene(16)
	r := NewCPU(1, 1)

	img := r.RenderFrame(s)
	if img == nil {
		t.Fatal("expected an image")
	}

	// Top row should be close to the top sky color (all channels high).
	c := img.RGBAAt(8, 0)
	if c.R < 100 || c.G < 150 {
		t.Errorf("top row color = %v, expected bright sky tone", c)
	}
}

func TestAccumulationMonotonicity(t *testing.T) {
	s := skyScene(4)
	r := NewCPU(4, 1)
	r.NewFrame(s)

	for i := 1; i <= 4; i++ {
		_, ok := r.RenderSample(s)
		if !ok {
			t.Fatalf("sample %d: expected RenderSample to succeed", i)
		}
		if r.SampleCount() != i {
			t.Errorf("sample count = %d, want %d", r.SampleCount(), i)
		}
	}
}

func TestConvergenceCapReturnsFalse(t *testing.T) {
	s := skyScene(4)
	r := NewCPU(2, 1)
	r.NewFrame(s)

	r.RenderSample(s)
	r.RenderSample(s)

	if _, ok := r.RenderSample(s); ok {
		t.Error("expected RenderSample to refuse once max_sample_count reached")
	}
}

func TestResolutionChangeReallocatesBuffer(t *testing.T) {
	s := skyScene(4)
	r := NewCPU(1, 1)
	r.RenderFrame(s)

	s2 := skyScene(8)
	r.NewFrame(s2)
	if r.SampleCount() != 0 {
		t.Errorf("sample count after new_frame = %d, want 0", r.SampleCount())
	}
	_, ok := r.RenderSample(s2)
	if !ok {
		t.Fatal("expected first post-resize sample to succeed")
	}
	if r.SampleCount() != 1 {
		t.Errorf("sample count = %d, want 1", r.SampleCount())
	}
}

func TestPerPixelClipSpaceNoNaN(t *testing.T) {
	s := skyScene(2)
	r := NewCPU(1, 1)
	rng := vecmath.NewRNG(42)
	v := r.perPixel(0.5, 0.5, s, rng)
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		t.Errorf("per_pixel produced NaN: %v", v)
	}
}

// TestDiffuseSphereSilhouetteAndLuminance covers scenario 2 of the
// acceptance properties: a diffuse sphere under a flat world should leave a
// visible silhouette, and an interior pixel should read clearly brighter
// than the 0.4 luminance floor.
//
// A dead-center ray hits the sphere head-on and, since the diffuse bounce
// leaves on the outward hemisphere, it can never re-intersect a convex
// sphere — the second segment always escapes straight to the constant
// world color. That makes the interior radiance exactly albedo*worldColor
// on every sample, so albedo=0.6 under a white world gives a deterministic
// ~0.6 luminance with no dependence on sample count or RNG seed.
func TestDiffuseSphereSilhouetteAndLuminance(t *testing.T) {
	mat := material.Material{Albedo: vecmath.Vec3{X: 0.6, Y: 0.6, Z: 0.6}, Roughness: 1}
	w := world.World{Kind: world.Solid, Color: vecmath.Vec3{X: 1, Y: 1, Z: 1}}
	s := sphereScene(32, w, mat)
	r := NewCPU(64, 4)

	img := r.RenderFrame(s)

	inside := img.RGBAAt(16, 16)
	outside := img.RGBAAt(1, 1)

	insideLum := (float64(inside.R) + float64(inside.G) + float64(inside.B)) / (3 * 255)
	outsideLum := (float64(outside.R) + float64(outside.G) + float64(outside.B)) / (3 * 255)

	if inside == outside {
		t.Fatalf("silhouette not visible: interior pixel %v equals background pixel %v", inside, outside)
	}
	if insideLum <= 0.4 {
		t.Errorf("interior luminance = %v, want > 0.4", insideLum)
	}
	if outsideLum <= insideLum {
		t.Errorf("background luminance (%v) should exceed the dimmed interior (%v)", outsideLum, insideLum)
	}
}

// TestTransmissiveSphereGrazingBrightness covers scenario 3: a glass sphere
// (transmission=1, ior=1.5, roughness=0) under a sky world should diverge
// from a purely reflective sphere, and brighten at grazing incidence as
// Schlick reflectance takes over from transmission.
//
// The dead-center pixel of an odd-resolution image always carries a ray
// along the camera's exact boresight, so rather than deriving off-center
// pixel coordinates from the perspective projection, a second camera is
// aimed so its boresight itself grazes the sphere: the sphere's angular
// radius as seen from the eye is asin(radius/distance) = asin(1/3) ≈
// 19.47°, and aiming 0.3/0.95 (≈17.5°, tan ratio 0.316 against the
// tangent's 0.354) keeps a comfortable margin inside that while still
// landing close to the silhouette edge.
func TestTransmissiveSphereGrazingBrightness(t *testing.T) {
	sky := world.World{
		Kind:        world.Sky,
		TopColor:    vecmath.Vec3{X: 0.53, Y: 0.8, Z: 0.92},
		BottomColor: vecmath.Vec3{X: 1, Y: 1, Z: 1},
	}
	glass := material.Material{Albedo: vecmath.Vec3{X: 1, Y: 1, Z: 1}, Transmission: 1, IOR: 1.5, Roughness: 0}
	mirror := material.Material{Albedo: vecmath.Vec3{X: 1, Y: 1, Z: 1}, Metallic: 1, Roughness: 0}

	eye := vecmath.Vec3{Z: -3}
	proj := camera.Projection{Kind: camera.Perspective, FovDegrees: 60}
	const resolution = 17 // odd: guarantees an exact u=v=0.5 center pixel
	const mid = resolution / 2

	centerCam := camera.New(eye, vecmath.Vec3{}, vecmath.Vec3{Y: 1}, resolution, resolution, proj, 0.1, 100)
	grazingTarget := eye.Add(vecmath.Vec3{X: 0, Y: 0.3, Z: 0.95})
	grazingCam := camera.New(eye, grazingTarget, vecmath.Vec3{Y: 1}, resolution, resolution, proj, 0.1, 100)

	r := NewCPU(128, 8)
	centerImg := r.RenderFrame(sphereSceneWithCamera(centerCam, sky, glass))
	r = NewCPU(128, 8)
	grazingImg := r.RenderFrame(sphereSceneWithCamera(grazingCam, sky, glass))
	r = NewCPU(128, 8)
	mirrorGrazingImg := r.RenderFrame(sphereSceneWithCamera(grazingCam, sky, mirror))

	center := centerImg.RGBAAt(mid, mid)
	grazing := grazingImg.RGBAAt(mid, mid)
	mirrorGrazing := mirrorGrazingImg.RGBAAt(mid, mid)

	centerLum := float64(center.R) + float64(center.G) + float64(center.B)
	grazingLum := float64(grazing.R) + float64(grazing.G) + float64(grazing.B)

	const tolerance = 6 // 8-bit quantization slack across three channels
	if grazingLum+tolerance < centerLum {
		t.Errorf("grazing brightness (%v) < center brightness (%v), want grazing >= center", grazingLum, centerLum)
	}
	if grazing == mirrorGrazing {
		t.Errorf("transmissive and purely-reflective configurations render identically at a grazing angle: %v", grazing)
	}
}
