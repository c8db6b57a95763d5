package core

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextItem is a run of text in pixel coordinates, origin top-left.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

// RectItem is a solid screen-space rectangle in pixels, drawn with the
// atlas' white texel so panels share the text pipeline.
type RectItem struct {
	Min   [2]float32
	Max   [2]float32
	Color [4]float32
}

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

type TextRenderer struct {
	AtlasImage *image.Alpha
	Glyphs     map[rune]GlyphInfo
	Face       font.Face
	whiteUV    [2]float32
}

const atlasSize = 512

// NewTextRenderer rasterizes the Go Regular font into an alpha atlas.
func NewTextRenderer(fontSize float64) (*TextRenderer, error) {
	return NewTextRendererFromTTF(goregular.TTF, fontSize)
}

func NewTextRendererFromTTF(ttf []byte, fontSize float64) (*TextRenderer, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]GlyphInfo)

	// 4x4 opaque block in the corner for solid fills
	draw.Draw(atlas, image.Rect(0, 0, 4, 4), image.NewUniform(color.Alpha{A: 255}), image.Point{}, draw.Src)
	whiteUV := [2]float32{2.0 / atlasSize, 2.0 / atlasSize}

	x, y := 8, 2
	rowHeight := 4

	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()

		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)

		glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0,
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &TextRenderer{
		AtlasImage: atlas,
		Glyphs:     glyphs,
		Face:       face,
		whiteUV:    whiteUV,
	}, nil
}

func (tr *TextRenderer) BuildVertices(rects []RectItem, items []TextItem, screenW, screenH int) []TextVertex {
	vertices := make([]TextVertex, 0, len(rects)*6+len(items)*36)
	if screenW <= 0 || screenH <= 0 {
		return vertices
	}

	sw := float32(screenW)
	sh := float32(screenH)
	toNDC := func(px, py float32) [2]float32 {
		return [2]float32{px/sw*2.0 - 1.0, 1.0 - py/sh*2.0}
	}
	quad := func(p0, p1 [2]float32, uv0, uv1 [2]float32, c [4]float32) {
		a := toNDC(p0[0], p0[1])
		b := toNDC(p1[0], p1[1])
		vertices = append(vertices,
			TextVertex{Pos: [2]float32{a[0], a[1]}, UV: [2]float32{uv0[0], uv0[1]}, Color: c},
			TextVertex{Pos: [2]float32{b[0], a[1]}, UV: [2]float32{uv1[0], uv0[1]}, Color: c},
			TextVertex{Pos: [2]float32{a[0], b[1]}, UV: [2]float32{uv0[0], uv1[1]}, Color: c},
			TextVertex{Pos: [2]float32{b[0], a[1]}, UV: [2]float32{uv1[0], uv0[1]}, Color: c},
			TextVertex{Pos: [2]float32{b[0], b[1]}, UV: [2]float32{uv1[0], uv1[1]}, Color: c},
			TextVertex{Pos: [2]float32{a[0], b[1]}, UV: [2]float32{uv0[0], uv1[1]}, Color: c},
		)
	}

	for _, r := range rects {
		quad(r.Min, r.Max, tr.whiteUV, tr.whiteUV, r.Color)
	}

	metrics := tr.Face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	for _, item := range items {
		scale := item.Scale
		if scale == 0 {
			scale = 1
		}
		startX := item.Position[0]
		posX := startX
		posY := item.Position[1] + ascent*scale

		for _, r := range item.Text {
			if r == '\n' {
				posX = startX
				posY += lineHeight * scale
				continue
			}

			g, ok := tr.Glyphs[r]
			if !ok {
				continue
			}

			p0 := [2]float32{posX + g.Off[0]*scale, posY + g.Off[1]*scale}
			p1 := [2]float32{posX + (g.Off[0]+g.Size[0])*scale, posY + (g.Off[1]+g.Size[1])*scale}
			quad(p0, p1, g.UVMin, g.UVMax, item.Color)

			posX += g.Adv * scale
		}
	}

	return vertices
}

func (tr *TextRenderer) MeasureText(text string, scale float32) (float32, float32) {
	if tr == nil {
		return 0, 0
	}
	if scale == 0 {
		scale = 1
	}

	lineHeight := float32(tr.Face.Metrics().Height.Ceil())

	maxW := float32(0)
	currentW := float32(0)
	lines := 1

	for _, r := range text {
		if r == '\n' {
			maxW = max(maxW, currentW)
			currentW = 0
			lines++
			continue
		}
		if g, ok := tr.Glyphs[r]; ok {
			currentW += g.Adv * scale
		}
	}

	return max(maxW, currentW), lineHeight * scale * float32(lines)
}

func (tr *TextRenderer) GetLineHeight(scale float32) float32 {
	if tr == nil {
		return 0
	}
	return float32(tr.Face.Metrics().Height.Ceil()) * scale
}
