package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is an orbit camera: it looks at Target from Distance along the
// direction given by Yaw and Pitch. Y is up.
type CameraState struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	Fov  float32 // degrees
	Near float32
	Far  float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Target:      mgl32.Vec3{0, 0, 0},
		Distance:    80,
		Yaw:         mgl32.DegToRad(35),
		Pitch:       mgl32.DegToRad(40),
		Fov:         60,
		Near:        0.1,
		Far:         1000,
		MinDistance: 10,
		MaxDistance: 250,
		MinPitch:    mgl32.DegToRad(5),
		MaxPitch:    mgl32.DegToRad(85),
	}
}

// Position returns the eye position in world space.
func (c *CameraState) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *CameraState) GetForward() mgl32.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	return c.GetForward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Orbit rotates around the target, clamping pitch so the camera never flips
// over the pole or dips under the ground.
func (c *CameraState) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// Zoom scales the orbit distance by factor within the distance limits.
func (c *CameraState) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = mgl32.Clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Pan moves the target in the ground plane relative to the view direction.
func (c *CameraState) Pan(dx, dz float32) {
	right := c.GetRight()
	fwd := mgl32.Vec3{c.GetForward().X(), 0, c.GetForward().Z()}
	if fwd.Len() > 0 {
		fwd = fwd.Normalize()
	}
	c.Target = c.Target.Add(right.Mul(dx)).Add(fwd.Mul(dz))
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) Projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

func (c *CameraState) ViewProjection(width, height int) mgl32.Mat4 {
	return c.Projection(width, height).Mul4(c.GetViewMatrix())
}

// Project maps a world point to pixel coordinates with the origin top-left.
// ok is false for points behind the camera or outside the depth range.
func (c *CameraState) Project(world mgl32.Vec3, width, height int) (x, y float32, ok bool) {
	clip := c.ViewProjection(width, height).Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, false
	}
	x = (ndc.X()*0.5 + 0.5) * float32(width)
	y = (1 - (ndc.Y()*0.5 + 0.5)) * float32(height)
	return x, y, true
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0.
func (c *CameraState) ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4

	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(i, 0), vp.At(i, 1), vp.At(i, 2), vp.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes[0] = r3.Add(r0) // left
	planes[1] = r3.Sub(r0) // right
	planes[2] = r3.Add(r1) // bottom
	planes[3] = r3.Sub(r1) // top
	planes[4] = r3.Add(r2) // near, OpenGL-style -1..1
	planes[5] = r3.Sub(r2) // far

	for i := 0; i < 6; i++ {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}

	return planes
}
