// Package world implements the background radiance a ray receives when it
// escapes the scene without hitting any object.
package world

import (
	"fmt"

	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/vecmath"
)

// Kind tags which World variant is in effect.
type Kind int

const (
	Sky Kind = iota
	Solid
	Transparent
)

func (k Kind) String() string {
	switch k {
	case Sky:
		return "sky"
	case Solid:
		return "solid"
	case Transparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// World is a tagged union mirroring spec.md §4.5. Transparent is a
// recognized variant but is rejected at scene-load time: the original this
// renderer was distilled from never finished its sampling behavior
// (original_source/src/scene/world.rs: World::Transparent => todo!()), and
// guessing a replacement semantics would be fabricating a feature the spec
// never actually defines.
type World struct {
	Kind        Kind
	TopColor    vecmath.Vec3
	BottomColor vecmath.Vec3
	Color       vecmath.Vec3
}

// Validate rejects World values this renderer cannot sample, so the failure
// surfaces at load time rather than mid-render.
func (w World) Validate() error {
	if w.Kind == Transparent {
		return fmt.Errorf("world: transparent background is not implemented")
	}
	return nil
}

// Sample returns the radiance along a ray that escaped the scene.
func (w World) Sample(r raytracing.Ray) vecmath.Vec3 {
	switch w.Kind {
	case Sky:
		up := vecmath.Vec3{Y: 1}
		dir := r.Direction.Normalize()
		cosineSimilarity := dir.Dot(up)
		t := (cosineSimilarity + 1) * 0.5
		return w.BottomColor.Lerp(w.TopColor, t)
	case Solid:
		return w.Color
	default:
		// Validate is expected to have already rejected this at load time;
		// reaching here is a programmer error.
		panic(fmt.Sprintf("world: cannot sample unsupported kind %v", w.Kind))
	}
}
