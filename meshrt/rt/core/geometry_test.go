package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxGeometry(t *testing.T) {
	g := NewBoxGeometry(mgl32.Vec3{2, 4, 6})
	assert.False(t, g.IsLines())
	assert.Len(t, g.Triangles(), 36)
	assert.Nil(t, g.Lines())

	minB, maxB := g.LocalAABB()
	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, minB)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, maxB)
}

func TestPlaneGeometryHasThickness(t *testing.T) {
	g := NewPlaneGeometry(10, 20)
	minB, maxB := g.LocalAABB()
	assert.Greater(t, maxB.Y(), minB.Y())
	assert.Len(t, g.Triangles(), 6)
}

func TestWireBoxGeometry(t *testing.T) {
	g := NewWireBoxGeometry(mgl32.Vec3{1, 1, 1})
	assert.True(t, g.IsLines())
	assert.Len(t, g.Lines(), 24)
	assert.Nil(t, g.Triangles())
}

func TestMeshObjectWorldAABB(t *testing.T) {
	obj := NewMeshObject(NewBoxGeometry(mgl32.Vec3{2, 2, 2}))
	obj.Transform.Position = mgl32.Vec3{10, 0, 0}

	require.True(t, obj.UpdateWorldAABB())
	require.NotNil(t, obj.WorldAABB)
	assert.InDelta(t, 9, obj.WorldAABB[0].X(), 1e-5)
	assert.InDelta(t, 11, obj.WorldAABB[1].X(), 1e-5)

	// Clean transform, nothing to recompute
	assert.False(t, obj.UpdateWorldAABB())
}

func TestMaterialCloneIsIndependent(t *testing.T) {
	m := NewStandardMaterial(mgl32.Vec3{1, 0, 0})
	c := m.Clone()
	c.Emissive = mgl32.Vec3{1, 1, 0}
	c.EmissiveIntensity = 1

	assert.NotSame(t, m, c)
	assert.Equal(t, mgl32.Vec3{}, m.Emissive)
}

func TestMaterialShade(t *testing.T) {
	m := NewStandardMaterial(mgl32.Vec3{0.5, 0.5, 0.5})
	lit := m.Shade(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0.2, 0.2, 0.2}, mgl32.Vec3{1, 1, 1})
	assert.InDelta(t, 0.6, lit[0], 1e-5)
	assert.Equal(t, float32(1), lit[3])

	m.Emissive = mgl32.Vec3{1, 1, 1}
	m.EmissiveIntensity = 2
	glow := m.Shade(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{}, mgl32.Vec3{})
	assert.Equal(t, float32(1), glow[0])

	line := NewLineMaterial(mgl32.Vec3{0, 1, 0})
	assert.Equal(t, [4]float32{0, 1, 0, 1}, line.Shade(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	assert.InDelta(t, 1, c.X(), 1e-5)
	assert.InDelta(t, 128.0/255.0, c.Y(), 1e-5)
	assert.InDelta(t, 0, c.Z(), 1e-5)

	_, err = ParseHexColor("#fff")
	assert.Error(t, err)
	_, err = ParseHexColor("zzzzzz")
	assert.Error(t, err)
}
