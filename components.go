package campus

import (
	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is the world transform of an entity. For children it
// is derived from LocalTransformComponent by the hierarchy system.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

func Transform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{Position: position, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

func LocalTransform(position mgl32.Vec3) LocalTransformComponent {
	return LocalTransformComponent{Position: position, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// MeshComponent references a geometry asset. Materials is the slice the
// renderer reads every frame; code that swaps it must be able to put the
// original back.
type MeshComponent struct {
	Geometry      AssetId
	Materials     []*core.Material
	CastShadow    bool
	ReceiveShadow bool
}

// LocationTag ties a scene object to the campus. Name is the owning facility
// (picking group identity), Location the key highlights look up.
type LocationTag struct {
	Name     string
	Location string
}

// GroupNode marks an entity that only parents other objects.
type GroupNode struct{}

// ClickTarget makes an entity select its incident when clicked.
type ClickTarget struct {
	Incident *Incident
}

type OverlayGroup uint8

const (
	OverlayMainBuilding OverlayGroup = iota
	OverlayFacilities
)

func (g OverlayGroup) String() string {
	if g == OverlayMainBuilding {
		return "main-building"
	}
	return "facilities"
}

// OverlayMember is carried by every entity the overlay synchronizer spawns.
type OverlayMember struct {
	Group OverlayGroup
}
