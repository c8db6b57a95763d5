package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Label is screen-space text anchored to a world position.
type Label struct {
	Text     string
	Anchor   mgl32.Vec3
	Color    [4]float32
	Scale    float32
	Backdrop bool
}

type Scene struct {
	Objects        []*MeshObject
	VisibleObjects []*MeshObject
	Lights         []Light
	Labels         []Label
	Background     [4]float64
}

func NewScene() *Scene {
	return &Scene{
		Objects:    []*MeshObject{},
		Background: [4]float64{0.53, 0.81, 0.92, 1},
	}
}

func (s *Scene) AddObject(obj *MeshObject) {
	s.Objects = append(s.Objects, obj)
}

func (s *Scene) RemoveObject(obj *MeshObject) {
	for i, o := range s.Objects {
		if o == obj {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return
		}
	}
}

// Commit recomputes dirty AABBs and collects objects inside the frustum.
func (s *Scene) Commit(planes [6]mgl32.Vec4) {
	for _, obj := range s.Objects {
		obj.UpdateWorldAABB()
	}

	s.VisibleObjects = s.VisibleObjects[:0]
	for _, obj := range s.Objects {
		if !obj.Visible || obj.WorldAABB == nil {
			continue
		}
		if AABBInFrustum(*obj.WorldAABB, planes) {
			s.VisibleObjects = append(s.VisibleObjects, obj)
		}
	}
}

// ShadowCaster returns the first shadow casting directional light.
func (s *Scene) ShadowCaster() (Light, bool) {
	for _, l := range s.Lights {
		if !l.Ambient && l.CastShadow && l.Direction.Y() < 0 {
			return l, true
		}
	}
	return Light{}, false
}

// AmbientAndSun folds the light list into one ambient term and the first
// directional light.
func (s *Scene) AmbientAndSun() (ambient mgl32.Vec3, sunDir mgl32.Vec3, sunColor mgl32.Vec3) {
	sunDir = mgl32.Vec3{0, -1, 0}
	for _, l := range s.Lights {
		if l.Ambient {
			ambient = ambient.Add(l.Color.Mul(l.Intensity))
			continue
		}
		if sunColor == (mgl32.Vec3{}) {
			sunColor = l.Color.Mul(l.Intensity)
			if l.Direction.Len() > 0 {
				sunDir = l.Direction.Normalize()
			}
		}
	}
	return ambient, sunDir, sunColor
}

// AABBInFrustum checks if an AABB is visible within the frustum defined by 6 planes.
// Planes are expected to be in Ax+By+Cz+D=0 form, with the normal pointing INSIDE.
// All-zero planes accept everything.
func AABBInFrustum(aabb [2]mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for i := 0; i < 6; i++ {
		plane := planes[i]
		// Take the corner furthest along the normal; if even that one is
		// behind the plane the whole box is outside.
		var p mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if plane[axis] > 0 {
				p[axis] = aabb[1][axis]
			} else {
				p[axis] = aabb[0][axis]
			}
		}

		dist := plane[0]*p[0] + plane[1]*p[1] + plane[2]*p[2] + plane[3]
		if dist < 0 {
			return false
		}
	}
	return true
}
