// Package scene aggregates a camera, a world, and an ordered list of
// objects into the unit a renderer consumes per frame.
package scene

import (
	"github.com/simpala/grinder-trace/pkg/camera"
	"github.com/simpala/grinder-trace/pkg/geometry"
	"github.com/simpala/grinder-trace/pkg/material"
	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/world"
)

// Object pairs a piece of geometry with the material it is shaded with.
type Object struct {
	Geometry raytracing.Hittable
	Material material.Material
}

// Scene is { camera, world, objects: ordered sequence }. Ordering is
// observable only via stable iteration; no spatial acceleration structure
// is assumed at this level.
type Scene struct {
	Camera  *camera.Camera
	World   world.World
	Objects []Object
}

// Intersect performs the scene-level linear scan over all objects,
// returning the closest hit and the object it belongs to.
func (s *Scene) Intersect(r raytracing.Ray) (raytracing.HitRecord, *Object, bool) {
	hittables := make([]raytracing.Hittable, len(s.Objects))
	for i, obj := range s.Objects {
		hittables[i] = obj.Geometry
	}

	hit, ok := raytracing.Closest(r, hittables)
	if !ok {
		return raytracing.HitRecord{}, nil, false
	}
	return hit, &s.Objects[hit.ObjectIndex], true
}

// Sphere and Cube are re-exported so callers that only need
// package scene don't also need to import geometry directly.
type (
	Sphere = geometry.Sphere
	Cube   = geometry.Cube
)
