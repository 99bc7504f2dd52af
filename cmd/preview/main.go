// Command preview is a live viewport: it drives a Renderer's progressive
// sample pump in the background and displays the accumulating image,
// observing profiler/sample_count to report progress — the only UI↔core
// boundary this renderer exposes, per spec.md §9.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/simpala/grinder-trace/pkg/camera"
	"github.com/simpala/grinder-trace/pkg/material"
	"github.com/simpala/grinder-trace/pkg/renderer"
	"github.com/simpala/grinder-trace/pkg/scene"
	"github.com/simpala/grinder-trace/pkg/vecmath"
	"github.com/simpala/grinder-trace/pkg/world"
)

// game adapts a renderer.Renderer's progressive output to an ebiten.Game.
type game struct {
	r       renderer.Renderer
	s       *scene.Scene
	mu      sync.Mutex
	latest  *image.RGBA
	width   int
	height  int
}

func (g *game) Update() error { return nil }

func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest != nil {
		screen.WritePixels(g.latest.Pix)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// pump calls render_sample in a loop until convergence, publishing each
// intermediate image for Draw to pick up.
func (g *game) pump() {
	g.r.NewFrame(g.s)
	for {
		img, ok := g.r.RenderSample(g.s)
		if !ok {
			fmt.Printf("Converged at %d samples\n", g.r.SampleCount())
			return
		}
		g.mu.Lock()
		g.latest = img
		g.mu.Unlock()
	}
}

func main() {
	scenePath := flag.String("scene", "", "path to scene .rscn file")
	maxSampleCount := flag.Int("max-sample-count", 1024, "maximum samples per pixel")
	maxBounces := flag.Int("max-bounces", 12, "maximum light bounces")
	flag.Parse()

	s, err := loadSceneOrDefault(*scenePath)
	if err != nil {
		log.Fatalf("failed to load scene: %v", err)
	}

	// The preview window shows progressive refinement, so it always drives
	// the CPU renderer — the GPU path has no intermediate progress to show
	// (spec.md §4.4: one dispatch, then none until new_frame).
	var r renderer.Renderer = renderer.NewCPU(*maxSampleCount, *maxBounces)

	w, h := s.Camera.Resolution()
	g := &game{r: r, s: s, width: w, height: h}
	go g.pump()

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Grinder Live Preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("ebitengine error: %v", err)
	}
}

func loadSceneOrDefault(scenePath string) (*scene.Scene, error) {
	if scenePath != "" {
		return scene.Load(scenePath)
	}

	cam := camera.New(
		vecmath.Vec3{X: 0, Y: 0, Z: -3},
		vecmath.Vec3{},
		vecmath.Vec3{Y: 1},
		256, 256,
		camera.Projection{Kind: camera.Perspective, FovDegrees: 45},
		0.1, 100,
	)

	return &scene.Scene{
		Camera: cam,
		World: world.World{
			Kind:        world.Sky,
			TopColor:    vecmath.Vec3{X: 0.53, Y: 0.8, Z: 0.92},
			BottomColor: vecmath.Vec3{X: 1, Y: 1, Z: 1},
		},
		Objects: []scene.Object{
			{
				Geometry: scene.Sphere{Center: vecmath.Point3{}, Radius: 1},
				Material: material.Default(),
			},
		},
	}, nil
}
