package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MeshObject is the renderer's view of one drawable. Materials is read every
// frame, so swapping the slice on the ECS side shows up immediately.
type MeshObject struct {
	Transform *Transform
	Geometry  *Geometry
	Materials []*Material
	WorldAABB *[2]mgl32.Vec3 // Min, Max
	Visible   bool

	CastShadow bool
}

func NewMeshObject(geom *Geometry) *MeshObject {
	return &MeshObject{
		Transform: NewTransform(),
		Geometry:  geom,
		Visible:   true,
	}
}

// Material returns the primary material, or nil.
func (obj *MeshObject) Material() *Material {
	if len(obj.Materials) == 0 {
		return nil
	}
	return obj.Materials[0]
}

func (obj *MeshObject) UpdateWorldAABB() bool {
	if !obj.Transform.Dirty && obj.WorldAABB != nil {
		return false
	}
	if obj.Geometry == nil {
		obj.WorldAABB = nil
		return true
	}

	minB, maxB := obj.Geometry.LocalAABB()
	wMin, wMax := TransformAABB(minB, maxB, obj.Transform.ObjectToWorld())
	obj.WorldAABB = &[2]mgl32.Vec3{wMin, wMax}

	obj.Transform.Dirty = false
	return true
}
