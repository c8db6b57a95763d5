package app

import (
	"sort"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshVertex is the GPU layout shared by the triangle and line pipelines.
// Colors are shaded on the CPU so the shader stays trivial.
type MeshVertex struct {
	Pos   [3]float32
	Color [4]float32
}

type FrameBatch struct {
	Opaque      []MeshVertex
	Shadows     []MeshVertex
	Transparent []MeshVertex
	Lines       []MeshVertex
}

const shadowLift = 0.02

var shadowColor = [4]float32{0, 0, 0, 0.25}

// BuildBatch flattens the visible objects of a committed scene into world
// space vertex lists. Transparent objects are ordered back to front.
func BuildBatch(scene *core.Scene, eye mgl32.Vec3) FrameBatch {
	var b FrameBatch
	ambient, sunDir, sunColor := scene.AmbientAndSun()

	type sortable struct {
		dist  float32
		verts []MeshVertex
	}
	var transparent []sortable
	caster, shadows := scene.ShadowCaster()

	for _, obj := range scene.VisibleObjects {
		mat := obj.Material()
		if mat == nil || obj.Geometry == nil {
			continue
		}
		o2w := obj.Transform.ObjectToWorld()

		if obj.Geometry.IsLines() {
			color := mat.Shade(mgl32.Vec3{}, sunDir, ambient, sunColor)
			for _, p := range obj.Geometry.Lines() {
				b.Lines = append(b.Lines, MeshVertex{Pos: toWorld(o2w, p), Color: color})
			}
			continue
		}

		normalMat := obj.Transform.WorldToObject().Mat3().Transpose()
		tris := obj.Geometry.Triangles()
		verts := make([]MeshVertex, 0, len(tris))
		for _, v := range tris {
			n := normalMat.Mul3x1(v.Normal)
			if n.Len() > 0 {
				n = n.Normalize()
			}
			verts = append(verts, MeshVertex{
				Pos:   toWorld(o2w, v.Position),
				Color: mat.Shade(n, sunDir, ambient, sunColor),
			})
		}

		if shadows && obj.CastShadow && !mat.Transparent {
			b.Shadows = append(b.Shadows, projectShadow(verts, caster.Direction)...)
		}

		if mat.Transparent && mat.Opacity < 1 {
			center := obj.Transform.Position
			if obj.WorldAABB != nil {
				center = obj.WorldAABB[0].Add(obj.WorldAABB[1]).Mul(0.5)
			}
			transparent = append(transparent, sortable{dist: center.Sub(eye).Len(), verts: verts})
			continue
		}
		b.Opaque = append(b.Opaque, verts...)
	}

	sort.SliceStable(transparent, func(i, j int) bool { return transparent[i].dist > transparent[j].dist })
	for _, t := range transparent {
		b.Transparent = append(b.Transparent, t.verts...)
	}
	return b
}

// projectShadow flattens world space triangles onto the ground plane along
// the light direction.
func projectShadow(verts []MeshVertex, dir mgl32.Vec3) []MeshVertex {
	out := make([]MeshVertex, len(verts))
	for i, v := range verts {
		t := v.Pos[1] / -dir.Y()
		out[i] = MeshVertex{
			Pos:   [3]float32{v.Pos[0] + dir.X()*t, shadowLift, v.Pos[2] + dir.Z()*t},
			Color: shadowColor,
		}
	}
	return out
}

func toWorld(o2w mgl32.Mat4, p mgl32.Vec3) [3]float32 {
	w := o2w.Mul4x1(p.Vec4(1)).Vec3()
	return [3]float32{w.X(), w.Y(), w.Z()}
}

// MeasureFunc reports the pixel size of text at a scale.
type MeasureFunc func(text string, scale float32) (float32, float32)

const labelPadding = 4

// LayoutLabels projects scene labels to the screen, centered on their
// anchors. Labels behind the camera are dropped.
func LayoutLabels(scene *core.Scene, camera *core.CameraState, width, height int, measure MeasureFunc) ([]core.RectItem, []core.TextItem) {
	var rects []core.RectItem
	var items []core.TextItem

	for _, l := range scene.Labels {
		x, y, ok := camera.Project(l.Anchor, width, height)
		if !ok {
			continue
		}
		scale := l.Scale
		if scale == 0 {
			scale = 1
		}
		w, h := measure(l.Text, scale)
		x0 := x - w/2
		y0 := y - h/2

		if l.Backdrop {
			rects = append(rects, core.RectItem{
				Min:   [2]float32{x0 - labelPadding, y0 - labelPadding},
				Max:   [2]float32{x0 + w + labelPadding, y0 + h + labelPadding},
				Color: [4]float32{0, 0, 0, 0.6},
			})
		}
		items = append(items, core.TextItem{
			Text:     l.Text,
			Position: [2]float32{x0, y0},
			Scale:    scale,
			Color:    l.Color,
		})
	}
	return rects, items
}
