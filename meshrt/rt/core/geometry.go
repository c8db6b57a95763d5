package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type GeometryKind uint8

const (
	GeometryBox GeometryKind = iota
	GeometryPlane
	GeometryWireBox
)

// Geometry is centered on the local origin. Planes lie in XZ facing +Y.
type Geometry struct {
	Kind GeometryKind
	Size mgl32.Vec3
}

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

func NewBoxGeometry(size mgl32.Vec3) *Geometry {
	return &Geometry{Kind: GeometryBox, Size: size}
}

func NewPlaneGeometry(width, depth float32) *Geometry {
	return &Geometry{Kind: GeometryPlane, Size: mgl32.Vec3{width, 0, depth}}
}

func NewWireBoxGeometry(size mgl32.Vec3) *Geometry {
	return &Geometry{Kind: GeometryWireBox, Size: size}
}

// IsLines reports whether the geometry renders as a line list.
func (g *Geometry) IsLines() bool {
	return g.Kind == GeometryWireBox
}

func (g *Geometry) LocalAABB() (mgl32.Vec3, mgl32.Vec3) {
	h := g.Size.Mul(0.5)
	if g.Kind == GeometryPlane {
		// Give planes a sliver of thickness so rays can hit them.
		h[1] = 0.01
	}
	return h.Mul(-1), h
}

// Triangles returns a triangle list in local space. Line geometries return nil.
func (g *Geometry) Triangles() []Vertex {
	h := g.Size.Mul(0.5)
	switch g.Kind {
	case GeometryPlane:
		up := mgl32.Vec3{0, 1, 0}
		return quad(
			mgl32.Vec3{-h.X(), 0, -h.Z()},
			mgl32.Vec3{-h.X(), 0, h.Z()},
			mgl32.Vec3{h.X(), 0, h.Z()},
			mgl32.Vec3{h.X(), 0, -h.Z()},
			up,
		)
	case GeometryBox:
		c := boxCorners(h)
		var out []Vertex
		out = append(out, quad(c[4], c[5], c[7], c[6], mgl32.Vec3{0, 0, 1})...)  // +Z
		out = append(out, quad(c[1], c[0], c[2], c[3], mgl32.Vec3{0, 0, -1})...) // -Z
		out = append(out, quad(c[5], c[1], c[3], c[7], mgl32.Vec3{1, 0, 0})...)  // +X
		out = append(out, quad(c[0], c[4], c[6], c[2], mgl32.Vec3{-1, 0, 0})...) // -X
		out = append(out, quad(c[6], c[7], c[3], c[2], mgl32.Vec3{0, 1, 0})...)  // +Y
		out = append(out, quad(c[0], c[1], c[5], c[4], mgl32.Vec3{0, -1, 0})...) // -Y
		return out
	}
	return nil
}

// Lines returns line segment endpoints in local space, two per segment.
func (g *Geometry) Lines() []mgl32.Vec3 {
	if g.Kind != GeometryWireBox {
		return nil
	}
	c := boxCorners(g.Size.Mul(0.5))
	edges := [12][2]int{
		{0, 1}, {1, 3}, {3, 2}, {2, 0}, // back
		{4, 5}, {5, 7}, {7, 6}, {6, 4}, // front
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([]mgl32.Vec3, 0, len(edges)*2)
	for _, e := range edges {
		out = append(out, c[e[0]], c[e[1]])
	}
	return out
}

// boxCorners indexes corners by bit: x=1, y=2, z=4.
func boxCorners(h mgl32.Vec3) [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		x, y, z := -h.X(), -h.Y(), -h.Z()
		if i&1 != 0 {
			x = h.X()
		}
		if i&2 != 0 {
			y = h.Y()
		}
		if i&4 != 0 {
			z = h.Z()
		}
		c[i] = mgl32.Vec3{x, y, z}
	}
	return c
}

// quad emits two counter-clockwise triangles a-b-c, a-c-d.
func quad(a, b, c, d, n mgl32.Vec3) []Vertex {
	return []Vertex{
		{a, n}, {b, n}, {c, n},
		{a, n}, {c, n}, {d, n},
	}
}
