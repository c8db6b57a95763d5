package campus

import (
	"testing"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServerGeometry(t *testing.T) {
	server := NewAssetServer()

	plane := core.NewPlaneGeometry(4, 4)
	id := server.LoadGeometry(plane)
	require.NotEmpty(t, id)

	got, ok := server.Geometry(id)
	require.True(t, ok)
	assert.Same(t, plane, got)

	_, ok = server.Geometry("missing")
	assert.False(t, ok)
}

func TestAssetServerSharesBoxes(t *testing.T) {
	server := NewAssetServer()

	a := server.Box(mgl32.Vec3{1, 2, 3})
	b := server.Box(mgl32.Vec3{1, 2, 3})
	c := server.Box(mgl32.Vec3{3, 2, 1})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
