// Package material defines the physically based surface parameters shared
// by every object in a scene.
package material

import "github.com/simpala/grinder-trace/pkg/vecmath"

// Material holds the PBR parameters for one object, per spec.md §3.
type Material struct {
	// Albedo is clamped to [0,1] component-wise where it is used.
	Albedo vecmath.Vec3

	Roughness    float64 // [0, 1]
	Metallic     float64 // [0, 1]
	Transmission float64 // [0, 1]
	IOR          float64 // > 0, default 1.5

	EmissionColor    vecmath.Vec3
	EmissionStrength float64 // >= 0
}

// Default returns a non-emissive, fully rough dielectric — a reasonable
// starting point for a material parsed from a scene file that omits most
// fields.
func Default() Material {
	return Material{
		Albedo:    vecmath.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		Roughness: 1,
		IOR:       1.5,
	}
}
