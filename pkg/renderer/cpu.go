package renderer

import (
	"image"
	"log/slog"
	"runtime"
	"sync"

	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/scene"
	"github.com/simpala/grinder-trace/pkg/vecmath"
)

// CPU is the reference progressive path tracer, per spec.md §4.3. It
// satisfies the Renderer contract.
type CPU struct {
	maxSampleCount int
	maxBounces     int

	buf         *accumBuffer
	sampleCount int
	profiler    *Profiler
}

// NewCPU returns a CPU renderer with the given convergence limits.
func NewCPU(maxSampleCount, maxBounces int) *CPU {
	return &CPU{
		maxSampleCount: maxSampleCount,
		maxBounces:     maxBounces,
		profiler:       NewProfiler(slog.Default()),
	}
}

func (c *CPU) MaxSampleCount() int  { return c.maxSampleCount }
func (c *CPU) MaxBounces() int      { return c.maxBounces }
func (c *CPU) SampleCount() int     { return c.sampleCount }
func (c *CPU) Profiler() *Profiler  { return c.profiler }

// NewFrame (re)allocates and zeros the accumulation buffer, resets the
// sample count, and starts the frame/prepare timers.
func (c *CPU) NewFrame(s *scene.Scene) {
	c.profiler.Frame.Start()
	c.profiler.Prepare.Start()

	w, h := s.Camera.Resolution()
	if c.buf == nil {
		c.buf = newAccumBuffer(w, h)
	} else {
		c.buf.resize(w, h)
	}
	c.sampleCount = 0
}

// RenderSample accumulates exactly one sample over every pixel, in
// parallel across rows, then returns the current displayed image.
func (c *CPU) RenderSample(s *scene.Scene) (*image.RGBA, bool) {
	if c.sampleCount >= c.maxSampleCount {
		return nil, false
	}

	c.profiler.Prepare.End()
	if c.sampleCount == 0 {
		c.profiler.Render.Start()
	}
	c.profiler.Sample.Start()

	c.renderOneSample(s)
	c.sampleCount++

	if c.sampleCount == c.maxSampleCount {
		c.profiler.Render.End()
		c.profiler.Frame.End()
		c.profiler.LogFrameComplete(c.sampleCount)
	}
	c.profiler.Sample.End()

	return c.buf.tonemap(c.sampleCount), true
}

// RenderFrame drives new_frame then render_sample to convergence and
// returns the final image.
func (c *CPU) RenderFrame(s *scene.Scene) *image.RGBA {
	c.NewFrame(s)
	var img *image.RGBA
	for {
		next, ok := c.RenderSample(s)
		if !ok {
			break
		}
		img = next
	}
	return img
}

// renderOneSample fans each image row out to a worker pool, mirroring the
// tile-worker pattern the CLI render command uses for the whole frame.
func (c *CPU) renderOneSample(s *scene.Scene) {
	w, h := s.Camera.Resolution()

	rows := make(chan int, h)
	var wg sync.WaitGroup

	worker := func(seed uint32) {
		rng := vecmath.NewRNG(seed)
		defer wg.Done()
		for y := range rows {
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) / float64(w)
				v := 1 - (float64(y)+0.5)/float64(h)
				sample := c.perPixel(u, v, s, rng)
				c.buf.add(x, y, sample)
			}
		}
	}

	numWorkers := runtime.NumCPU()
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go worker(uint32(c.sampleCount*numWorkers + i + 1))
	}
	for y := 0; y < h; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
}

// perPixel performs one path-tracing sample for pixel (u,v), per
// spec.md §4.3.
func (c *CPU) perPixel(u, v float64, s *scene.Scene, rng *vecmath.RNG) vecmath.Vec4 {
	return PerPixel(u, v, s, c.maxBounces, rng)
}

// PerPixel implements the per_pixel contract of spec.md §4.3: one
// Monte Carlo path-tracing sample for pixel (u,v) in [0,1]^2 with v=0 at
// the image bottom. It is exported so the GPU integrator's ray-generation
// stage can run the identical integrator on its own worker pool instead of
// duplicating the bounce logic.
func PerPixel(u, v float64, s *scene.Scene, maxBounces int, rng *vecmath.RNG) vecmath.Vec4 {
	// Under the left-handed projection, clip z=w=1 is the far-plane point in
	// front of the camera; rotate it into world space as a direction (w=0).
	clip := vecmath.Vec4{X: 2*u - 1, Y: 2*v - 1, Z: 1, W: 1}
	cameraSpace := s.Camera.InverseProj().MulVec4(clip).DivW()
	worldSpace := s.Camera.InverseView().MulVec4(vecmath.Vec3ToDir(cameraSpace.XYZ()))

	direction := worldSpace.XYZ().Normalize()
	ray := raytracing.Ray{Origin: s.Camera.Position(), Direction: direction}

	light := vecmath.Vec3{}
	attenuation := vecmath.Vec3{X: 1, Y: 1, Z: 1}

	for bounce := 0; bounce < maxBounces; bounce++ {
		hit, obj, ok := s.Intersect(ray)
		if !ok {
			light = light.Add(s.World.Sample(ray).MulVec(attenuation))
			break
		}

		mat := obj.Material
		roughness := mat.Roughness * mat.Roughness
		metallic := mat.Metallic
		transmission := mat.Transmission

		diffuseDirection := hit.WorldNormal.Add(rng.UnitVector())
		if diffuseDirection.Dot(hit.WorldNormal) < 0 {
			diffuseDirection = diffuseDirection.Negate()
		}

		perfectReflection := vecmath.Reflect(ray.Direction, hit.WorldNormal)
		specularDirection := perfectReflection.Add(rng.UnitVector().Mul(roughness)).Normalize()

		var direction vecmath.Vec3
		isTransmissionRay := rng.Float64() < transmission
		if isTransmissionRay {
			ior := mat.IOR
			if hit.IsFrontFace {
				ior = 1 / ior
			}

			rayDir := ray.Direction.Normalize()
			cosTheta := minF(rayDir.Dot(hit.WorldNormal.Negate()), 1)
			reflectionCoefficient := vecmath.Schlick(cosTheta, ior)

			if reflectionCoefficient < rng.Float64() && vecmath.CanRefract(rayDir, hit.WorldNormal, ior) {
				refracted := vecmath.Refract(rayDir, hit.WorldNormal, ior)
				direction = refracted.Add(rng.UnitVector().Mul(roughness)).Normalize()
			} else {
				direction = specularDirection
			}
		} else if rng.Float64() < metallic {
			direction = specularDirection
		} else if rng.Float64() < roughness {
			direction = diffuseDirection
		} else {
			direction = specularDirection
		}

		offset := hit.WorldNormal
		if isTransmissionRay {
			offset = direction
		}
		origin := hit.WorldPosition.Add(offset.Mul(0.0001))
		if direction.LengthSquared() < 1e-10 {
			direction = hit.WorldNormal
		}

		ray = raytracing.Ray{Origin: origin, Direction: direction}
		attenuation = attenuation.MulVec(mat.Albedo)
		light = light.Add(mat.EmissionColor.Mul(mat.EmissionStrength))
	}

	return vecmath.Vec4{X: light.X, Y: light.Y, Z: light.Z, W: 1}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
