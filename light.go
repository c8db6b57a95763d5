package campus

import "github.com/go-gl/mathgl/mgl32"

type LightType uint32

const (
	LightTypeAmbient     LightType = 0
	LightTypeDirectional LightType = 1
)

// LightComponent is the ECS component for lights. Direction is used by
// directional lights only and points from the light into the scene.
type LightComponent struct {
	Type       LightType
	Color      [3]float32 // RGB
	Intensity  float32
	Direction  mgl32.Vec3
	CastShadow bool
}
