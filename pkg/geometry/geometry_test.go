package geometry

import (
	"testing"

	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/vecmath"
)

func TestSphereHitDistanceEqualsRadius(t *testing.T) {
	s := Sphere{Center: vecmath.Point3{}, Radius: 2}
	r := raytracing.Ray{
		Origin:    vecmath.Point3{Z: -10},
		Direction: vecmath.Vec3{Z: 1},
	}

	got, ok := s.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	want := 10 - s.Radius
	if got != want {
		t.Errorf("t = %v, want %v", got, want)
	}
}

func TestSphereMiss(t *testing.T) {
	s := Sphere{Center: vecmath.Point3{}, Radius: 1}
	r := raytracing.Ray{
		Origin:    vecmath.Point3{X: 10, Z: -10},
		Direction: vecmath.Vec3{Z: 1},
	}
	if _, ok := s.Intersect(r); ok {
		t.Error("expected a miss")
	}
}

func TestCubeAABBHit(t *testing.T) {
	c := Cube{Center: vecmath.Point3{}, SideLength: 2}
	r := raytracing.Ray{
		Origin:    vecmath.Point3{Z: -5},
		Direction: vecmath.Vec3{Z: 1},
	}
	got, ok := c.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if got != 4 {
		t.Errorf("t = %v, want 4", got)
	}
}

func TestCubeMiss(t *testing.T) {
	c := Cube{Center: vecmath.Point3{}, SideLength: 2}
	r := raytracing.Ray{
		Origin:    vecmath.Point3{X: 5, Z: -5},
		Direction: vecmath.Vec3{Z: 1},
	}
	if _, ok := c.Intersect(r); ok {
		t.Error("expected a miss")
	}
}

func TestIsFrontFaceFlipsNormal(t *testing.T) {
	objects := []raytracing.Hittable{
		Sphere{Center: vecmath.Point3{}, Radius: 1},
	}

	outward := raytracing.Ray{Origin: vecmath.Point3{Z: -5}, Direction: vecmath.Vec3{Z: 1}}
	hit, ok := raytracing.Closest(outward, objects)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !hit.IsFrontFace {
		t.Error("expected front face when ray travels opposite the outward normal")
	}

	// A ray starting at the sphere's center exits at z=1, travelling along the
	// outward normal, so the hit is a back face and the normal is flipped.
	inward := raytracing.Ray{Origin: vecmath.Point3{}, Direction: vecmath.Vec3{Z: 1}}
	hit2, ok := raytracing.Closest(inward, objects)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit2.IsFrontFace || hit2.WorldNormal.Dot(inward.Direction) > 0 {
		t.Error("expected back face with the normal flipped to oppose the ray direction")
	}
}
