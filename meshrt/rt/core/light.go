package core

import "github.com/go-gl/mathgl/mgl32"

type Light struct {
	Ambient    bool
	Direction  mgl32.Vec3 // directional lights only, pointing from the light
	Color      mgl32.Vec3
	Intensity  float32
	CastShadow bool
}
