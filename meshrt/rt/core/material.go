package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type MaterialKind uint8

const (
	// MaterialStandard is lit by ambient and directional lights and
	// supports an emissive term.
	MaterialStandard MaterialKind = iota
	// MaterialLine draws line lists in a flat color.
	MaterialLine
	// MaterialBasic is unlit flat color.
	MaterialBasic
)

type Material struct {
	Kind              MaterialKind
	Color             mgl32.Vec3 // linear RGB 0..1
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	Roughness         float32
	Metalness         float32
	Opacity           float32
	Transparent       bool
}

func NewStandardMaterial(color mgl32.Vec3) *Material {
	return &Material{
		Kind:      MaterialStandard,
		Color:     color,
		Roughness: 1.0,
		Opacity:   1.0,
	}
}

func NewLineMaterial(color mgl32.Vec3) *Material {
	return &Material{
		Kind:    MaterialLine,
		Color:   color,
		Opacity: 1.0,
	}
}

func NewBasicMaterial(color mgl32.Vec3) *Material {
	return &Material{
		Kind:    MaterialBasic,
		Color:   color,
		Opacity: 1.0,
	}
}

// Clone returns an independent copy. Materials hold no shared slices, so a
// value copy is a deep copy.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Shade returns the RGBA color of a surface with the given normal under an
// ambient term and one directional light. Line and basic materials ignore
// lighting.
func (m *Material) Shade(normal, lightDir mgl32.Vec3, ambient, lightColor mgl32.Vec3) [4]float32 {
	opacity := m.Opacity
	if !m.Transparent {
		opacity = 1.0
	}
	if m.Kind != MaterialStandard {
		return [4]float32{m.Color.X(), m.Color.Y(), m.Color.Z(), opacity}
	}

	diffuse := normal.Dot(lightDir.Mul(-1))
	if diffuse < 0 {
		diffuse = 0
	}
	lit := mgl32.Vec3{
		m.Color.X() * (ambient.X() + lightColor.X()*diffuse),
		m.Color.Y() * (ambient.Y() + lightColor.Y()*diffuse),
		m.Color.Z() * (ambient.Z() + lightColor.Z()*diffuse),
	}
	lit = lit.Add(m.Emissive.Mul(m.EmissiveIntensity))

	return [4]float32{clamp01(lit.X()), clamp01(lit.Y()), clamp01(lit.Z()), opacity}
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into linear 0..1 components.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("color %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32((v>>16)&0xff) / 255.0,
		float32((v>>8)&0xff) / 255.0,
		float32(v&0xff) / 255.0,
	}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants.
func MustParseHexColor(s string) mgl32.Vec3 {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
