package campus

import (
	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const gymWallOpacity = 0.35

var (
	gymFloorColor   = core.MustParseHexColor("#d4a373")
	gymMarkingColor = core.MustParseHexColor("#fdfefe")
	gymPoleColor    = core.MustParseHexColor("#566573")
	gymBoardColor   = core.MustParseHexColor("#f8f9f9")
	gymRimColor     = core.MustParseHexColor("#e67e22")
	gymBenchColor   = core.MustParseHexColor("#8d6e63")
)

// buildGymnasium assembles the gymnasium as a group: floor, court markings,
// two hoops, a bench and three translucent walls. The group root sits on the
// ground under the facility center; every leaf is tagged with the facility.
func buildGymnasium(cmd *Commands, assets *AssetServer, f *Facility, index *SceneIndex) EntityId {
	w, h, d := f.Size.X(), f.Size.Y(), f.Size.Z()
	tag := LocationTag{Name: f.Name, Location: f.Name}

	base := f.Position
	base[1] = f.Position.Y() - h/2

	root := cmd.AddEntity(
		Transform(base),
		GroupNode{},
		tag,
		LabelComponent{Text: f.Label, Offset: mgl32.Vec3{0, h + facilityLabelGap, 0}, Scale: 1},
	)
	index.Add(root, f.Name)

	leaf := func(parent EntityId, local mgl32.Vec3, size mgl32.Vec3, mat *core.Material, shadow bool) EntityId {
		eid := cmd.AddEntity(
			&Parent{Entity: parent},
			LocalTransform(local),
			&TransformComponent{},
			MeshComponent{
				Geometry:      assets.Box(size),
				Materials:     []*core.Material{mat},
				CastShadow:    shadow,
				ReceiveShadow: true,
			},
			tag,
		)
		index.Add(eid, f.Name)
		return eid
	}

	// Floor
	leaf(root, mgl32.Vec3{0, 0.15, 0}, mgl32.Vec3{w, 0.3, d}, core.NewStandardMaterial(gymFloorColor), false)

	// Court markings: center line and both sidelines
	marking := func() *core.Material { return core.NewBasicMaterial(gymMarkingColor) }
	leaf(root, mgl32.Vec3{0, 0.32, 0}, mgl32.Vec3{0.2, 0.04, d * 0.8}, marking(), false)
	leaf(root, mgl32.Vec3{0, 0.32, -d * 0.4}, mgl32.Vec3{w * 0.9, 0.04, 0.2}, marking(), false)
	leaf(root, mgl32.Vec3{0, 0.32, d * 0.4}, mgl32.Vec3{w * 0.9, 0.04, 0.2}, marking(), false)

	// Hoops at both ends, each a small group of pole, board and rim
	for _, side := range []float32{-1, 1} {
		hoop := cmd.AddEntity(
			&Parent{Entity: root},
			LocalTransform(mgl32.Vec3{side * (w/2 - 1.5), 0, 0}),
			&TransformComponent{},
			GroupNode{},
			tag,
		)
		index.Add(hoop, f.Name)
		leaf(hoop, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0.3, 4, 0.3}, core.NewStandardMaterial(gymPoleColor), true)
		leaf(hoop, mgl32.Vec3{-side * 0.3, 4.2, 0}, mgl32.Vec3{0.2, 1.5, 2.4}, core.NewStandardMaterial(gymBoardColor), true)
		leaf(hoop, mgl32.Vec3{-side * 0.9, 3.6, 0}, mgl32.Vec3{0.8, 0.1, 0.8}, core.NewStandardMaterial(gymRimColor), false)
	}

	// Bench along the open side
	leaf(root, mgl32.Vec3{0, 0.6, d/2 - 1.5}, mgl32.Vec3{6, 0.6, 1}, core.NewStandardMaterial(gymBenchColor), true)

	// Back and side walls; the front stays open
	wall := func() *core.Material {
		m := core.NewStandardMaterial(core.MustParseHexColor(f.Color))
		m.Transparent = true
		m.Opacity = gymWallOpacity
		return m
	}
	leaf(root, mgl32.Vec3{0, h / 2, -d / 2}, mgl32.Vec3{w, h, 0.3}, wall(), false)
	leaf(root, mgl32.Vec3{-w / 2, h / 2, 0}, mgl32.Vec3{0.3, h, d}, wall(), false)
	leaf(root, mgl32.Vec3{w / 2, h / 2, 0}, mgl32.Vec3{0.3, h, d}, wall(), false)

	return root
}
