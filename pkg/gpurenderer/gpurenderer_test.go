package gpurenderer

import (
	"testing"

	"github.com/simpala/grinder-trace/pkg/camera"
	"github.com/simpala/grinder-trace/pkg/geometry"
	"github.com/simpala/grinder-trace/pkg/material"
	"github.com/simpala/grinder-trace/pkg/scene"
	"github.com/simpala/grinder-trace/pkg/vecmath"
	"github.com/simpala/grinder-trace/pkg/world"
)

func testScene() *scene.Scene {
	cam := camera.New(
		vecmath.Vec3{Z: -3}, vecmath.Vec3{}, vecmath.Vec3{Y: 1},
		8, 8,
		camera.Projection{Kind: camera.Perspective, FovDegrees: 60},
		0.1, 100,
	)
	return &scene.Scene{
		Camera: cam,
		World:  world.World{Kind: world.Solid, Color: vecmath.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		Objects: []scene.Object{
			{
				Geometry: geometry.Sphere{Center: vecmath.Point3{}, Radius: 1},
				Material: material.Default(),
			},
		},
	}
}

func TestRenderFrameIsOneShot(t *testing.T) {
	s := testScene()
	g := NewGPU(4, 2)

	img := g.RenderFrame(s)
	if img == nil {
		t.Fatal("expected an image")
	}
	if g.SampleCount() != g.MaxSampleCount() {
		t.Errorf("sample count = %d, want %d", g.SampleCount(), g.MaxSampleCount())
	}

	if _, ok := g.RenderSample(s); ok {
		t.Error("expected a second render_sample call to return none")
	}
}

func TestNewFrameResetsDoneFlag(t *testing.T) {
	s := testScene()
	g := NewGPU(2, 2)
	g.RenderFrame(s)

	g.NewFrame(s)
	if g.SampleCount() != 0 {
		t.Errorf("sample count after new_frame = %d, want 0", g.SampleCount())
	}
	if _, ok := g.RenderSample(s); !ok {
		t.Error("expected render_sample to succeed after new_frame")
	}
}

// TestRightHandedInverseViewFlipsYAndZ pins the left-handed→right-handed
// seam spec.md §9 calls out: the GPU upload flips the view matrix's Y and
// Z rows before inverting, and nothing else.
func TestRightHandedInverseViewFlipsYAndZ(t *testing.T) {
	s := testScene()

	lhView := s.Camera.ViewMatrix()
	rhInv := rightHandedInverseView(s)

	wantView := lhView
	wantView[1] = negateRow(wantView[1])
	wantView[2] = negateRow(wantView[2])
	want := wantView.Inverse()

	const eps = 1e-9
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if diff := rhInv[r][c] - want[r][c]; diff > eps || diff < -eps {
				t.Fatalf("rightHandedInverseView()[%d][%d] = %v, want %v", r, c, rhInv[r][c], want[r][c])
			}
		}
	}

	// Sanity check it actually differs from the unflipped left-handed
	// inverse — otherwise this test would pass even if the flip were
	// accidentally deleted.
	lhInv := s.Camera.InverseView()
	same := true
	for r := 0; r < 4 && same; r++ {
		for c := 0; c < 4; c++ {
			if rhInv[r][c]-lhInv[r][c] > eps || rhInv[r][c]-lhInv[r][c] < -eps {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatal("rightHandedInverseView() matches the unflipped left-handed inverse view")
	}
}

func TestBuildTLASSortsByMortonCode(t *testing.T) {
	s := testScene()
	s.Objects = append(s.Objects, scene.Object{
		Geometry: geometry.Cube{Center: vecmath.Point3{X: 3, Y: 3, Z: 3}, SideLength: 1},
		Material: material.Default(),
	})

	instances := buildTLAS(s)
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	for i := 1; i < len(instances); i++ {
		if instances[i].MortonCode < instances[i-1].MortonCode {
			t.Error("instances are not sorted by morton code")
		}
	}
}
