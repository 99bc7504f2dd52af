// Package renderer defines the common renderer contract shared by the CPU
// and GPU integrators, plus the CPU path-tracing implementation itself.
package renderer

import (
	"image"

	"github.com/simpala/grinder-trace/pkg/scene"
)

// Renderer is the capability set both integrators implement: frame
// lifecycle, a progressive sample pump, and convergence bookkeeping. There
// is no shared base type — CPU and GPU renderers satisfy this structurally.
type Renderer interface {
	NewFrame(s *scene.Scene)
	RenderSample(s *scene.Scene) (*image.RGBA, bool)
	RenderFrame(s *scene.Scene) *image.RGBA

	MaxSampleCount() int
	MaxBounces() int
	SampleCount() int
	Profiler() *Profiler
}
