package campus

import (
	"math"

	"github.com/campusmap/campus/meshrt/rt/core"
)

const tooltipOffset = 12

// Tooltip is the hover popup of an incident marker, in window pixels.
type Tooltip struct {
	Visible bool
	Date    string
	Cause   string
	X, Y    float32
}

func (t *Tooltip) Show(inc *Incident, mouseX, mouseY float64) {
	t.Visible = true
	t.Date = inc.DateString()
	t.Cause = inc.Cause
	t.MoveTo(mouseX, mouseY)
}

// MoveTo keeps the tooltip next to the pointer.
func (t *Tooltip) MoveTo(mouseX, mouseY float64) {
	t.X = float32(mouseX) + tooltipOffset
	t.Y = float32(mouseY) + tooltipOffset
}

// Hide keeps the last content so the next hover of the same marker can
// show it again.
func (t *Tooltip) Hide() {
	t.Visible = false
}

// Picker remembers the hovered marker between frames.
type Picker struct {
	Hovered    EntityId
	HasHovered bool
}

// Pick casts ray against every interactive object and its descendants and
// returns the clickable ancestor of the nearest hit.
func Pick(cmd *Commands, assets *AssetServer, interactive *InteractiveSet, ray core.Ray) (EntityId, *ClickTarget, bool) {
	children := childrenOf(cmd)

	best := float32(math.MaxFloat32)
	var hit EntityId
	found := false

	for _, root := range interactive.Entities {
		for _, eid := range descendants(root, children) {
			t, ok := intersectEntity(cmd, assets, eid, ray)
			if ok && t < best {
				best, hit, found = t, eid, true
			}
		}
	}
	if !found {
		return 0, nil, false
	}
	return clickableAncestor(cmd, hit)
}

func intersectEntity(cmd *Commands, assets *AssetServer, eid EntityId, ray core.Ray) (float32, bool) {
	tr, ok := GetComponent[TransformComponent](cmd, eid)
	if !ok {
		return 0, false
	}
	mesh, ok := GetComponent[MeshComponent](cmd, eid)
	if !ok {
		return 0, false
	}
	geom, ok := assets.Geometry(mesh.Geometry)
	if !ok {
		return 0, false
	}

	local := core.Transform{Position: tr.Position, Rotation: tr.Rotation, Scale: tr.Scale}
	lo, hi := geom.LocalAABB()
	wMin, wMax := core.TransformAABB(lo, hi, local.ObjectToWorld())
	return ray.IntersectAABB(wMin, wMax)
}

// clickableAncestor walks up the Parent chain to the first ClickTarget.
func clickableAncestor(cmd *Commands, eid EntityId) (EntityId, *ClickTarget, bool) {
	for depth := 0; depth <= maxHierarchyDepth; depth++ {
		if target, ok := GetComponent[ClickTarget](cmd, eid); ok {
			return eid, target, true
		}
		parent, ok := GetComponent[Parent](cmd, eid)
		if !ok {
			return 0, nil, false
		}
		eid = parent.Entity
	}
	return 0, nil, false
}

// pickingSystem drives hover tooltips and click selection of markers. The
// scene ignores the pointer while the detail modal is open.
func pickingSystem(cmd *Commands, input *Input, viewport *Viewport, assets *AssetServer, interactive *InteractiveSet,
	picker *Picker, tooltip *Tooltip, sel *Selection) {
	if !viewport.Mounted || viewport.Width <= 0 || viewport.Height <= 0 {
		return
	}
	if sel.ModalOpen {
		return
	}
	clicked := input.JustPressed[MouseButtonLeft] && !input.ClickConsumed
	if !input.MouseMoved && !clicked && !picker.HasHovered {
		return
	}

	cam, ok := activeCamera(cmd)
	if !ok {
		return
	}
	ray := core.PickRay(cam, input.MouseX, input.MouseY, viewport.Width, viewport.Height)
	eid, target, ok := Pick(cmd, assets, interactive, ray)

	if input.MouseMoved {
		tooltip.MoveTo(input.MouseX, input.MouseY)
	}

	if !ok || target.Incident == nil {
		if picker.HasHovered {
			picker.HasHovered = false
			tooltip.Hide()
		}
		return
	}

	if !picker.HasHovered || picker.Hovered != eid || !tooltip.Visible {
		tooltip.Show(target.Incident, input.MouseX, input.MouseY)
	}
	picker.Hovered, picker.HasHovered = eid, true

	if clicked {
		input.ClickConsumed = true
		sel.Request(cmd, target.Incident)
	}
}
