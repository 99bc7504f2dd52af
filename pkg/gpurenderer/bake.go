package gpurenderer

import (
	"fmt"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/simpala/grinder-trace/pkg/scene"
)

// BakeToFile writes a scene's TLAS instances and material/sphere storage
// buffers to path, in the same binary layout dispatch() builds for an
// in-process render. This is the format cmd/bake produces for out-of-
// process inspection of the resources a GPU frame would submit, grounded
// on the teacher's two-pass bake (raw bake, then an indexed final file).
func BakeToFile(path string, s *scene.Scene) (instanceCount int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("gpurenderer: create %s: %w", path, err)
	}
	defer f.Close()

	tlas := buildTLAS(s)
	if err := writeFrameResources(f, s, tlas); err != nil {
		return 0, fmt.Errorf("gpurenderer: bake %s: %w", path, err)
	}
	return len(tlas), nil
}

// VerifyFile opens a baked resource file through mmap and reports its
// size, exercising the same readback path dispatch() uses internally.
func VerifyFile(path string) (sizeBytes int, err error) {
	r, err := mmap.Open(path)
	if err != nil {
		return 0, fmt.Errorf("gpurenderer: open %s: %w", path, err)
	}
	defer r.Close()
	return r.Len(), nil
}
