package app

import (
	"testing"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func committedScene(objs ...*core.MeshObject) (*core.Scene, *core.CameraState) {
	scene := core.NewScene()
	for _, o := range objs {
		scene.AddObject(o)
	}
	cam := core.NewCameraState()
	scene.Commit(cam.ExtractFrustum(cam.ViewProjection(800, 600)))
	return scene, cam
}

func TestBuildBatchSplitsByMaterial(t *testing.T) {
	box := core.NewMeshObject(core.NewBoxGeometry(mgl32.Vec3{1, 1, 1}))
	box.Materials = []*core.Material{core.NewStandardMaterial(mgl32.Vec3{1, 0, 0})}

	wall := core.NewMeshObject(core.NewBoxGeometry(mgl32.Vec3{1, 1, 1}))
	glass := core.NewStandardMaterial(mgl32.Vec3{0, 0, 1})
	glass.Transparent = true
	glass.Opacity = 0.3
	wall.Materials = []*core.Material{glass}

	outline := core.NewMeshObject(core.NewWireBoxGeometry(mgl32.Vec3{4, 4, 4}))
	outline.Materials = []*core.Material{core.NewLineMaterial(mgl32.Vec3{1, 1, 1})}

	noMat := core.NewMeshObject(core.NewBoxGeometry(mgl32.Vec3{1, 1, 1}))

	scene, cam := committedScene(box, wall, outline, noMat)
	batch := BuildBatch(scene, cam.Position())

	assert.Len(t, batch.Opaque, 36)
	assert.Len(t, batch.Transparent, 36)
	assert.Len(t, batch.Lines, 24)
	assert.InDelta(t, 0.3, batch.Transparent[0].Color[3], 1e-6)
}

func TestBuildBatchAppliesTransform(t *testing.T) {
	plane := core.NewMeshObject(core.NewPlaneGeometry(2, 2))
	plane.Transform.Position = mgl32.Vec3{5, 1, 0}
	plane.Materials = []*core.Material{core.NewBasicMaterial(mgl32.Vec3{0, 1, 0})}

	scene, cam := committedScene(plane)
	batch := BuildBatch(scene, cam.Position())
	require.Len(t, batch.Opaque, 6)
	for _, v := range batch.Opaque {
		assert.InDelta(t, 1, v.Pos[1], 1e-5)
		assert.InDelta(t, 5, v.Pos[0], 1.0001)
	}
}

func TestBuildBatchOrdersTransparentBackToFront(t *testing.T) {
	mk := func(x float32, color mgl32.Vec3) *core.MeshObject {
		o := core.NewMeshObject(core.NewBoxGeometry(mgl32.Vec3{1, 1, 1}))
		o.Transform.Position = mgl32.Vec3{x, 0, 0}
		m := core.NewBasicMaterial(color)
		m.Transparent = true
		m.Opacity = 0.5
		o.Materials = []*core.Material{m}
		return o
	}
	cam := core.NewCameraState()
	eye := cam.Position()
	// Near sits between the eye and the far box along the view direction.
	near := mk(0, mgl32.Vec3{1, 0, 0})
	near.Transform.Position = eye.Mul(0.5)
	far := mk(0, mgl32.Vec3{0, 0, 1})

	scene, _ := committedScene(near, far)
	batch := BuildBatch(scene, eye)
	require.Len(t, batch.Transparent, 72)
	assert.Equal(t, float32(1), batch.Transparent[0].Color[2], "far box first")
	assert.Equal(t, float32(1), batch.Transparent[71].Color[0], "near box last")
}

func TestLayoutLabelsCentersOnAnchor(t *testing.T) {
	scene := core.NewScene()
	cam := core.NewCameraState()
	scene.Labels = []core.Label{
		{Text: "gym", Anchor: cam.Target, Scale: 1, Backdrop: true},
		{Text: "hidden", Anchor: cam.Position().Add(cam.Position().Sub(cam.Target))},
	}
	measure := func(text string, scale float32) (float32, float32) {
		return float32(len(text)) * 10 * scale, 20 * scale
	}

	rects, items := LayoutLabels(scene, cam, 800, 600, measure)
	require.Len(t, items, 1)
	require.Len(t, rects, 1)
	assert.InDelta(t, 400-15, items[0].Position[0], 0.5)
	assert.InDelta(t, 300-10, items[0].Position[1], 0.5)
	assert.InDelta(t, 400-15-labelPadding, rects[0].Min[0], 0.5)
}

func TestBuildBatchProjectsShadows(t *testing.T) {
	box := core.NewMeshObject(core.NewBoxGeometry(mgl32.Vec3{2, 2, 2}))
	box.Transform.Position = mgl32.Vec3{0, 3, 0}
	box.Materials = []*core.Material{core.NewStandardMaterial(mgl32.Vec3{1, 1, 1})}
	box.CastShadow = true

	scene, cam := committedScene(box)
	batch := BuildBatch(scene, cam.Position())
	assert.Empty(t, batch.Shadows, "no shadow casting light")

	scene.Lights = []core.Light{{Direction: mgl32.Vec3{0, -1, 0}, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, CastShadow: true}}
	batch = BuildBatch(scene, cam.Position())
	require.Len(t, batch.Shadows, 36)
	for _, v := range batch.Shadows {
		assert.InDelta(t, shadowLift, v.Pos[1], 1e-6)
		assert.InDelta(t, 0, v.Pos[0], 1.0001)
	}
}
