package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/simpala/grinder-trace/pkg/camera"
	"github.com/simpala/grinder-trace/pkg/geometry"
	"github.com/simpala/grinder-trace/pkg/material"
	"github.com/simpala/grinder-trace/pkg/raytracing"
	"github.com/simpala/grinder-trace/pkg/vecmath"
	"github.com/simpala/grinder-trace/pkg/world"
)

type vec3JSON [3]float64

func (v vec3JSON) toVec3() vecmath.Vec3 {
	return vecmath.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

type cameraConfig struct {
	Position json.RawMessage `json:"position"`
	Target   json.RawMessage `json:"target"`
	Up       json.RawMessage `json:"up"`

	ResolutionX int `json:"resolution_x"`
	ResolutionY int `json:"resolution_y"`

	NearClip float64 `json:"near_clip"`
	FarClip  float64 `json:"far_clip"`

	Projection struct {
		Perspective *struct {
			Fov float64 `json:"fov"`
		} `json:"Perspective,omitempty"`
		Orthographic *struct {
			Size float64 `json:"size"`
		} `json:"Orthographic,omitempty"`
	} `json:"projection"`
}

func decodeVec3(raw json.RawMessage) (vecmath.Vec3, error) {
	var v vec3JSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return vecmath.Vec3{}, err
	}
	return v.toVec3(), nil
}

func (c cameraConfig) build() (*camera.Camera, error) {
	position, err := decodeVec3(c.Position)
	if err != nil {
		return nil, fmt.Errorf("camera.position: %w", err)
	}
	target, err := decodeVec3(c.Target)
	if err != nil {
		return nil, fmt.Errorf("camera.target: %w", err)
	}
	up, err := decodeVec3(c.Up)
	if err != nil {
		return nil, fmt.Errorf("camera.up: %w", err)
	}

	var proj camera.Projection
	switch {
	case c.Projection.Perspective != nil:
		proj = camera.Projection{Kind: camera.Perspective, FovDegrees: c.Projection.Perspective.Fov}
	case c.Projection.Orthographic != nil:
		proj = camera.Projection{Kind: camera.Orthographic, Size: c.Projection.Orthographic.Size}
	default:
		return nil, fmt.Errorf("camera.projection: neither Perspective nor Orthographic present")
	}

	return camera.New(position, target, up, c.ResolutionX, c.ResolutionY, proj, c.NearClip, c.FarClip), nil
}

// worldConfig decodes the tagged-union World variants described in
// spec.md §6: {"SkyColor":{...}}, {"SolidColor":[...]}, or the bare
// string "Transparent".
type worldConfig struct {
	SkyColor *struct {
		TopColor    vec3JSON `json:"top_color"`
		BottomColor vec3JSON `json:"bottom_color"`
	} `json:"SkyColor,omitempty"`
	SolidColor *vec3JSON `json:"SolidColor,omitempty"`
}

func decodeWorld(raw json.RawMessage) (world.World, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "Transparent" {
			return world.World{Kind: world.Transparent}, nil
		}
		return world.World{}, fmt.Errorf("world: unknown string variant %q", asString)
	}

	var cfg worldConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return world.World{}, fmt.Errorf("world: %w", err)
	}

	switch {
	case cfg.SkyColor != nil:
		return world.World{
			Kind:        world.Sky,
			TopColor:    cfg.SkyColor.TopColor.toVec3(),
			BottomColor: cfg.SkyColor.BottomColor.toVec3(),
		}, nil
	case cfg.SolidColor != nil:
		return world.World{Kind: world.Solid, Color: cfg.SolidColor.toVec3()}, nil
	default:
		return world.World{}, fmt.Errorf("world: no recognized variant in %s", raw)
	}
}

type materialConfig struct {
	Albedo           vec3JSON `json:"albedo"`
	Roughness        float64  `json:"roughness"`
	Metallic         float64  `json:"metallic"`
	Transmission     float64  `json:"transmission"`
	IOR              float64  `json:"ior"`
	EmissionColor    vec3JSON `json:"emission_color"`
	EmissionStrength float64  `json:"emission_strength"`
}

func (m materialConfig) build() material.Material {
	mat := material.Default()
	mat.Albedo = m.Albedo.toVec3()
	mat.Roughness = m.Roughness
	mat.Metallic = m.Metallic
	mat.Transmission = m.Transmission
	if m.IOR != 0 {
		mat.IOR = m.IOR
	}
	mat.EmissionColor = m.EmissionColor.toVec3()
	mat.EmissionStrength = m.EmissionStrength
	return mat
}

type geometryConfig struct {
	Sphere *struct {
		Center vec3JSON `json:"center"`
		Radius float64  `json:"radius"`
	} `json:"Sphere,omitempty"`
	Cube *struct {
		Center     vec3JSON `json:"center"`
		SideLength float64  `json:"side_length"`
	} `json:"Cube,omitempty"`
}

func decodeGeometry(raw json.RawMessage) (raytracing.Hittable, error) {
	var cfg geometryConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}
	switch {
	case cfg.Sphere != nil:
		if cfg.Sphere.Radius <= 0 {
			return nil, fmt.Errorf("geometry.Sphere: radius must be > 0, got %v", cfg.Sphere.Radius)
		}
		return geometry.Sphere{Center: cfg.Sphere.Center.toVec3(), Radius: cfg.Sphere.Radius}, nil
	case cfg.Cube != nil:
		if cfg.Cube.SideLength <= 0 {
			return nil, fmt.Errorf("geometry.Cube: side_length must be > 0, got %v", cfg.Cube.SideLength)
		}
		return geometry.Cube{Center: cfg.Cube.Center.toVec3(), SideLength: cfg.Cube.SideLength}, nil
	default:
		return nil, fmt.Errorf("geometry: no recognized variant in %s", raw)
	}
}

type objectConfig struct {
	Geometry json.RawMessage `json:"geometry"`
	Material materialConfig  `json:"material"`
}

type sceneFile struct {
	Camera  cameraConfig    `json:"camera"`
	World   json.RawMessage `json:"world"`
	Objects []objectConfig  `json:"objects"`
}

// Load reads and parses a .rscn JSON scene file, per spec.md §6.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: failed to read %s: %w", path, err)
	}

	var file sceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("scene: failed to parse %s: %w", path, err)
	}

	cam, err := file.Camera.build()
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	w, err := decodeWorld(file.World)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	objects := make([]Object, 0, len(file.Objects))
	for i, objCfg := range file.Objects {
		g, err := decodeGeometry(objCfg.Geometry)
		if err != nil {
			return nil, fmt.Errorf("scene: objects[%d]: %w", i, err)
		}
		objects = append(objects, Object{Geometry: g, Material: objCfg.Material.build()})
	}

	return &Scene{Camera: cam, World: w, Objects: objects}, nil
}
