package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraOrbitClampsPitch(t *testing.T) {
	cam := NewCameraState()
	cam.Orbit(0, 10)
	assert.Equal(t, cam.MaxPitch, cam.Pitch)

	cam.Orbit(0, -10)
	assert.Equal(t, cam.MinPitch, cam.Pitch)
}

func TestCameraZoomClampsDistance(t *testing.T) {
	cam := NewCameraState()
	cam.Zoom(0.0001)
	assert.Equal(t, cam.MinDistance, cam.Distance)

	cam.Zoom(1000)
	assert.Equal(t, cam.MaxDistance, cam.Distance)

	cam.Zoom(-1)
	assert.Equal(t, cam.MaxDistance, cam.Distance)
}

func TestCameraPositionIsDistanceFromTarget(t *testing.T) {
	cam := NewCameraState()
	cam.Target = mgl32.Vec3{3, 0, -2}
	assert.InDelta(t, cam.Distance, cam.Position().Sub(cam.Target).Len(), 1e-3)
	assert.Greater(t, cam.Position().Y(), cam.Target.Y())
}

func TestCameraProjectTargetLandsAtCenter(t *testing.T) {
	cam := NewCameraState()
	x, y, ok := cam.Project(cam.Target, 800, 600)
	assert.True(t, ok)
	assert.InDelta(t, 400, x, 0.5)
	assert.InDelta(t, 300, y, 0.5)
}

func TestCameraProjectBehindCamera(t *testing.T) {
	cam := NewCameraState()
	behind := cam.Position().Add(cam.Position().Sub(cam.Target))
	_, _, ok := cam.Project(behind, 800, 600)
	assert.False(t, ok)
}
