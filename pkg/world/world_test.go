package world

import (
	"testing"

	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/vecmath"
)

func TestSkyStraightUpReturnsTopColor(t *testing.T) {
	w := World{
		Kind:        Sky,
		TopColor:    vecmath.Vec3{X: 1},
		BottomColor: vecmath.Vec3{Z: 1},
	}
	r := raytracing.Ray{Direction: vecmath.Vec3{Y: 1}}

	got := w.Sample(r)
	if got.Sub(w.TopColor).Length() > 1e-9 {
		t.Errorf("sample = %v, want %v", got, w.TopColor)
	}
}

func TestSkyStraightDownReturnsBottomColor(t *testing.T) {
	w := World{
		Kind:        Sky,
		TopColor:    vecmath.Vec3{X: 1},
		BottomColor: vecmath.Vec3{Z: 1},
	}
	r := raytracing.Ray{Direction: vecmath.Vec3{Y: -1}}

	got := w.Sample(r)
	if got.Sub(w.BottomColor).Length() > 1e-9 {
		t.Errorf("sample = %v, want %v", got, w.BottomColor)
	}
}

func TestSolidIgnoresDirection(t *testing.T) {
	w := World{Kind: Solid, Color: vecmath.Vec3{X: 0.2, Y: 0.3, Z: 0.4}}
	got := w.Sample(raytracing.Ray{Direction: vecmath.Vec3{X: 1}})
	if got != w.Color {
		t.Errorf("sample = %v, want %v", got, w.Color)
	}
}

func TestTransparentRejectedAtValidate(t *testing.T) {
	w := World{Kind: Transparent}
	if err := w.Validate(); err == nil {
		t.Error("expected Validate to reject a transparent world")
	}
}
