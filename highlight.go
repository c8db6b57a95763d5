package campus

import (
	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	highlightEmissive  = mgl32.Vec3{1, 0.55, 0}
	highlightLineColor = mgl32.Vec3{1, 0.85, 0}
)

const highlightIntensity = 0.8

// Highlighter swaps the materials of one location's objects for tinted
// clones and remembers the originals. At most one location is highlighted.
type Highlighter struct {
	records map[EntityId][]*core.Material
	order   []EntityId
}

func NewHighlighter() *Highlighter {
	return &Highlighter{records: make(map[EntityId][]*core.Material)}
}

// Active reports how many objects are currently highlighted.
func (h *Highlighter) Active() int {
	return len(h.order)
}

// Clear puts every recorded original material back. Entities removed in the
// meantime are skipped. Calling Clear twice is harmless.
func (h *Highlighter) Clear(cmd *Commands) {
	for _, eid := range h.order {
		mesh, ok := GetComponent[MeshComponent](cmd, eid)
		if !ok {
			continue
		}
		mesh.Materials = h.records[eid]
	}
	h.order = h.order[:0]
	clear(h.records)
	if m := metricsOf(cmd); m != nil {
		m.HighlightedObjects.Set(0)
	}
}

// HighlightLocation clears any previous highlight and tints every object
// filed under name. For a main-building sub-location the building outline is
// included. It returns the number of objects changed.
func (h *Highlighter) HighlightLocation(cmd *Commands, index *SceneIndex, reg *Registry, name string) int {
	h.Clear(cmd)
	if h.records == nil {
		h.records = make(map[EntityId][]*core.Material)
	}

	targets := index.Entities(name)
	if reg.IsMainBuildingLocation(name) && index.HasMainOutline {
		targets = append(targets, index.MainOutline)
	}

	for _, eid := range targets {
		if _, done := h.records[eid]; done {
			continue
		}
		mesh, ok := GetComponent[MeshComponent](cmd, eid)
		if !ok || len(mesh.Materials) == 0 {
			continue
		}

		h.records[eid] = mesh.Materials
		h.order = append(h.order, eid)

		tinted := make([]*core.Material, len(mesh.Materials))
		for i, m := range mesh.Materials {
			tinted[i] = tint(m)
		}
		mesh.Materials = tinted
	}

	if m := metricsOf(cmd); m != nil {
		m.HighlightPasses.Inc()
		m.HighlightedObjects.Set(float64(len(h.order)))
	}
	cmd.Logger().Debugf("highlighted %q: %d objects", name, len(h.order))
	return len(h.order)
}

func tint(m *core.Material) *core.Material {
	c := m.Clone()
	if c.Kind == core.MaterialStandard {
		c.Emissive = highlightEmissive
		c.EmissiveIntensity = highlightIntensity
	} else {
		c.Color = highlightLineColor
	}
	return c
}

// highlightSystem reapplies the selected location after every overlay
// rebuild, since rebuilt decorative parts start with fresh materials.
func highlightSystem(cmd *Commands, state *OverlayState, highlighter *Highlighter, index *SceneIndex, reg *Registry) {
	if !state.rehighlight {
		return
	}
	state.rehighlight = false
	if state.HighlightedLocation == "" {
		return
	}
	highlighter.HighlightLocation(cmd, index, reg, state.HighlightedLocation)
}

func metricsOf(cmd *Commands) *Metrics {
	return Resource[Metrics](cmd.app)
}
