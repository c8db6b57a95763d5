package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// PickRay builds a world-space ray through the pixel (mouseX, mouseY).
func PickRay(camera *CameraState, mouseX, mouseY float64, width, height int) Ray {
	if width <= 0 || height <= 0 {
		return Ray{Origin: camera.Position(), Direction: camera.GetForward()}
	}

	// Normalized Device Coordinates
	nx := (2.0*float32(mouseX))/float32(width) - 1.0
	ny := 1.0 - (2.0*float32(mouseY))/float32(height) // Flip Y for NDC

	forward := camera.GetForward()
	right := camera.GetRight()
	up := right.Cross(forward)

	aspect := float32(width) / float32(height)
	tanHalfFov := float32(math.Tan(float64(mgl32.DegToRad(camera.Fov) / 2.0)))

	dir := forward.Add(right.Mul(nx * aspect * tanHalfFov)).Add(up.Mul(ny * tanHalfFov))
	return Ray{Origin: camera.Position(), Direction: dir.Normalize()}
}

// IntersectAABB returns the entry distance of the ray into the box. A ray
// starting inside the box hits at 0.
func (r Ray) IntersectAABB(minB, maxB mgl32.Vec3) (float32, bool) {
	tNear := float32(0)
	tFar := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < minB[axis] || o > maxB[axis] {
				return 0, false
			}
			continue
		}
		t1 := (minB[axis] - o) / d
		t2 := (maxB[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, false
		}
	}
	return tNear, true
}
