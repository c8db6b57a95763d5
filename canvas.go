package campus

import "unicode/utf8"

// HeadlessCanvas measures text with fixed metrics and records what was
// drawn. It stands in for the renderer when no window exists.
type HeadlessCanvas struct {
	CharWidth  float32
	LineHeight float32

	Texts []string
	Rects int
}

func NewHeadlessCanvas() *HeadlessCanvas {
	return &HeadlessCanvas{CharWidth: 8, LineHeight: 16}
}

func (c *HeadlessCanvas) DrawText(text string, x, y float32, scale float32, color [4]float32) {
	c.Texts = append(c.Texts, text)
}

func (c *HeadlessCanvas) DrawRect(x0, y0, x1, y1 float32, color [4]float32) {
	c.Rects++
}

func (c *HeadlessCanvas) MeasureText(text string, scale float32) (float32, float32) {
	if scale <= 0 {
		scale = 1
	}
	return float32(utf8.RuneCountInString(text)) * c.CharWidth * scale, c.LineHeight * scale
}

// Reset forgets everything drawn so far.
func (c *HeadlessCanvas) Reset() {
	c.Texts = c.Texts[:0]
	c.Rects = 0
}
