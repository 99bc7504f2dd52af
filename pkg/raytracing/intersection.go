package raytracing

import "github.com/simpala/grinder-trace/pkg/vecmath"

// Hittable is anything a Ray can intersect and compute a surface normal
// against. geometry.Sphere and geometry.Cube satisfy this implicitly.
type Hittable interface {
	Intersect(r Ray) (t float64, ok bool)
	NormalAt(p vecmath.Point3) vecmath.Vec3
}

// HitRecord describes the closest intersection found along a ray.
type HitRecord struct {
	T            float64
	WorldPosition vecmath.Point3
	WorldNormal  vecmath.Vec3
	IsFrontFace  bool
	// ObjectIndex is the index into the scene's object list that was hit,
	// letting callers look up material/geometry without this package
	// depending on the scene package.
	ObjectIndex int
}

// Closest performs a linear scan over objects and returns the nearest
// non-negative intersection, per spec.md §4.2 ("No BVH" — this Non-goal
// applies specifically to this scene-level scan).
func Closest(r Ray, objects []Hittable) (HitRecord, bool) {
	bestT := 0.0
	bestIdx := -1
	for i, obj := range objects {
		t, ok := obj.Intersect(r)
		if !ok {
			continue
		}
		if bestIdx == -1 || t < bestT {
			bestT, bestIdx = t, i
		}
	}
	if bestIdx == -1 {
		return HitRecord{}, false
	}

	obj := objects[bestIdx]
	pos := r.At(bestT)
	normal := obj.NormalAt(pos)
	isFrontFace := normal.Dot(r.Direction) <= 0
	if !isFrontFace {
		normal = normal.Negate()
	}

	return HitRecord{
		T:            bestT,
		WorldPosition: pos,
		WorldNormal:  normal,
		IsFrontFace:  isFrontFace,
		ObjectIndex:  bestIdx,
	}, true
}
