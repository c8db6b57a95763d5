package campus

import (
	"slices"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport describes the render surface. Mounted is false when no window or
// renderer exists, e.g. headless runs.
type Viewport struct {
	Mounted    bool
	Width      int
	Height     int
	PixelRatio float32
}

// SceneIndex maps location keys to the scene objects that belong to them,
// so highlighting never has to scan the whole world.
type SceneIndex struct {
	byLocation map[string][]EntityId
	locations  map[EntityId][]string

	MainOutline    EntityId
	HasMainOutline bool
}

func NewSceneIndex() *SceneIndex {
	return &SceneIndex{
		byLocation: make(map[string][]EntityId),
		locations:  make(map[EntityId][]string),
	}
}

// Add files eid under every distinct key given.
func (ix *SceneIndex) Add(eid EntityId, keys ...string) {
	if ix.byLocation == nil {
		ix.byLocation = make(map[string][]EntityId)
		ix.locations = make(map[EntityId][]string)
	}
	for _, key := range keys {
		if key == "" || slices.Contains(ix.locations[eid], key) {
			continue
		}
		ix.byLocation[key] = append(ix.byLocation[key], eid)
		ix.locations[eid] = append(ix.locations[eid], key)
	}
}

func (ix *SceneIndex) Remove(eid EntityId) {
	for _, key := range ix.locations[eid] {
		ix.byLocation[key] = slices.DeleteFunc(ix.byLocation[key], func(e EntityId) bool { return e == eid })
		if len(ix.byLocation[key]) == 0 {
			delete(ix.byLocation, key)
		}
	}
	delete(ix.locations, eid)
}

// Entities returns the objects filed under key.
func (ix *SceneIndex) Entities(key string) []EntityId {
	return slices.Clone(ix.byLocation[key])
}

// CampusScene records whether the static world was built.
type CampusScene struct {
	Built bool
}

const (
	facilityLabelGap = 2
	planeLift        = 0.02
)

// BuildCampusScene spawns the static world once. Without a mounted viewport
// it spawns nothing and reports false.
func BuildCampusScene(cmd *Commands, assets *AssetServer, reg *Registry, viewport *Viewport) (*SceneIndex, bool) {
	if viewport == nil || !viewport.Mounted {
		return nil, false
	}
	index := NewSceneIndex()

	spawnGround(cmd, assets, reg)
	spawnLights(cmd)
	spawnCamera(cmd, reg)
	spawnMainBuilding(cmd, assets, reg, index)

	for i := range reg.Facilities {
		f := &reg.Facilities[i]
		if f.Name == GymnasiumName {
			buildGymnasium(cmd, assets, f, index)
			continue
		}
		spawnFacility(cmd, assets, f, index)
	}

	cmd.Logger().Infof("campus scene built: %d facilities, %d main-building sub-locations",
		len(reg.Facilities)+1, len(reg.MainBuilding.SubLocations))
	return index, true
}

func spawnGround(cmd *Commands, assets *AssetServer, reg *Registry) {
	ground := core.NewPlaneGeometry(reg.Ground.Size[0], reg.Ground.Size[1])
	cmd.AddEntity(
		Transform(mgl32.Vec3{}),
		MeshComponent{
			Geometry:      assets.LoadGeometry(ground),
			Materials:     []*core.Material{core.NewStandardMaterial(core.MustParseHexColor(reg.Ground.Color))},
			ReceiveShadow: true,
		},
	)
}

func spawnLights(cmd *Commands) {
	cmd.AddEntity(LightComponent{
		Type:      LightTypeAmbient,
		Color:     [3]float32{1, 1, 1},
		Intensity: 0.55,
	})
	cmd.AddEntity(LightComponent{
		Type:       LightTypeDirectional,
		Color:      [3]float32{1, 1, 1},
		Intensity:  0.7,
		Direction:  mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
		CastShadow: true,
	})
}

func spawnCamera(cmd *Commands, reg *Registry) {
	cam := DefaultCamera()
	cam.Target = reg.MainBuilding.Position.Mul(0.5)
	cam.Target[1] = 0
	cmd.AddEntity(cam, DefaultOrbitControls())
}

func spawnMainBuilding(cmd *Commands, assets *AssetServer, reg *Registry, index *SceneIndex) {
	mb := &reg.MainBuilding
	outline := cmd.AddEntity(
		Transform(mb.Position),
		MeshComponent{
			Geometry:  assets.LoadGeometry(core.NewWireBoxGeometry(mb.Size)),
			Materials: []*core.Material{core.NewLineMaterial(core.MustParseHexColor(mb.Color))},
		},
		LocationTag{Name: mb.Name, Location: mb.Name},
		LabelComponent{Text: mb.Label, Offset: mgl32.Vec3{0, mb.Size.Y()/2 + facilityLabelGap, 0}, Scale: 1},
	)
	index.Add(outline, mb.Name)
	index.MainOutline = outline
	index.HasMainOutline = true
}

func spawnFacility(cmd *Commands, assets *AssetServer, f *Facility, index *SceneIndex) {
	color := core.MustParseHexColor(f.Color)

	var geom AssetId
	pos := f.Position
	castShadow := true
	if f.Shape == ShapePlane {
		geom = assets.LoadGeometry(core.NewPlaneGeometry(f.Size.X(), f.Size.Z()))
		pos[1] = planeLift
		castShadow = false
	} else {
		geom = assets.Box(f.Size)
	}

	eid := cmd.AddEntity(
		Transform(pos),
		MeshComponent{
			Geometry:      geom,
			Materials:     []*core.Material{core.NewStandardMaterial(color)},
			CastShadow:    castShadow,
			ReceiveShadow: true,
		},
		LocationTag{Name: f.Name, Location: f.Name},
		LabelComponent{Text: f.Label, Offset: mgl32.Vec3{0, f.Size.Y()/2 + facilityLabelGap, 0}, Scale: 1},
	)
	index.Add(eid, f.Name)
}
