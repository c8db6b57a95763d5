package campus

import "github.com/go-gl/mathgl/mgl32"

// LabelComponent is screen-space text floating above an entity.
type LabelComponent struct {
	Text        string
	Offset      mgl32.Vec3 // from the entity's world position
	Scale       float32
	Highlighted bool
}

var (
	labelColor            = [4]float32{1, 1, 1, 1}
	labelHighlightedColor = [4]float32{1, 0.85, 0.2, 1}
)

func (l *LabelComponent) Color() [4]float32 {
	if l.Highlighted {
		return labelHighlightedColor
	}
	return labelColor
}
