package campus

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	return reg
}

func TestDefaultRegistry(t *testing.T) {
	reg := testRegistry(t)

	gym, ok := reg.Facility(GymnasiumName)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{45, 5, -10}, gym.Position)
	assert.Equal(t, float32(10), gym.Top())
	assert.Equal(t, ShapeBox, gym.Shape)

	field, ok := reg.Facility("sports-field")
	require.True(t, ok)
	assert.Equal(t, ShapePlane, field.Shape)

	sub, ok := reg.SubLocation("main-building / classrooms")
	require.True(t, ok)
	assert.Equal(t, "Classrooms", sub.Short)
	require.Len(t, sub.Parts, 2)
	assert.Equal(t, "main-building / classrooms", sub.Parts[0].Owner)

	assert.Equal(t, mgl32.Vec3{0, 15, -10}, reg.MainBuilding.TopCenter())
}

func TestRegistry_Locations(t *testing.T) {
	reg := testRegistry(t)

	keys := reg.LocationKeys()
	assert.Equal(t, "gymnasium", keys[0])
	assert.Contains(t, keys, "main-building / library")
	assert.NotContains(t, keys, "main-building")

	assert.True(t, reg.HasLocation("dormitory"))
	assert.True(t, reg.HasLocation("main-building / offices"))
	assert.False(t, reg.HasLocation("main-building"))
	assert.False(t, reg.HasLocation("moon-base"))

	assert.True(t, reg.IsMainBuildingLocation("main-building / offices"))
	assert.True(t, reg.IsMainBuildingLocation("main-building"))
	assert.False(t, reg.IsMainBuildingLocation("main-buildingx"))
	assert.False(t, reg.IsMainBuildingLocation("gymnasium"))
}

func TestLoadRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{
			name: "duplicate facility",
			doc: `
main_building: {name: hall, color: "#ffffff"}
ground: {color: "#000000"}
facilities:
  - {name: pool, color: "#0000ff"}
  - {name: pool, color: "#0000ff"}
`,
			err: ErrDuplicateFacility,
		},
		{
			name: "facility named like the main building",
			doc: `
main_building: {name: hall, color: "#ffffff"}
ground: {color: "#000000"}
facilities:
  - {name: hall, color: "#0000ff"}
`,
			err: ErrDuplicateFacility,
		},
		{
			name: "sub-location outside the building",
			doc: `
main_building:
  name: hall
  color: "#ffffff"
  sublocations:
    - {key: "annex / attic"}
ground: {color: "#000000"}
`,
			err: ErrInvalidRegistry,
		},
		{
			name: "bad color",
			doc: `
main_building: {name: hall, color: "white"}
ground: {color: "#000000"}
`,
			err: ErrInvalidRegistry,
		},
		{
			name: "unknown shape",
			doc: `
main_building: {name: hall, color: "#ffffff"}
ground: {color: "#000000"}
facilities:
  - {name: pool, color: "#0000ff", shape: sphere}
`,
			err: ErrInvalidRegistry,
		},
		{
			name: "missing main building",
			doc:  `ground: {color: "#000000"}`,
			err:  ErrInvalidRegistry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegistry([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadRegistry_Defaults(t *testing.T) {
	reg, err := LoadRegistry([]byte(`
main_building:
  name: hall
  color: "#ffffff"
  sublocations:
    - {key: "hall / lobby"}
ground: {size: [10, 10], color: "#000000"}
facilities:
  - {name: pool, position: [1, 2, 3], size: [4, 4, 4], color: "#0000ff"}
`))
	require.NoError(t, err)

	pool, _ := reg.Facility("pool")
	assert.Equal(t, ShapeBox, pool.Shape)
	assert.Equal(t, "pool", pool.Label)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pool.Position)

	lobby, _ := reg.SubLocation("hall / lobby")
	assert.Equal(t, "lobby", lobby.Short)
}
