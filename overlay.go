package campus

import (
	"fmt"
	"strconv"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	gymMarkerOffset      = 9
	facilityMarkerOffset = 4
	markerSpacing        = 3
	markerLabelGap       = 1.5
)

var (
	markerSize        = mgl32.Vec3{1.2, 1.2, 1.2}
	badgeSize         = mgl32.Vec3{1.6, 0.6, 1.6}
	markerColor       = core.MustParseHexColor("#e74c3c")
	badgeColor        = core.MustParseHexColor("#2e86c1")
	markerHighlighted = core.MustParseHexColor("#f1c40f")
)

// AggregatedEntry sums the incidents of one main-building sub-location.
// Latest is the incident with the greatest date; the last one wins ties.
type AggregatedEntry struct {
	Location string
	Total    int
	Latest   *Incident
}

// AggregateMainBuilding groups main-building incidents by exact
// sub-location, in registry order. Sub-locations without incidents and
// unknown keys are left out.
func AggregateMainBuilding(incidents []*Incident, reg *Registry) []AggregatedEntry {
	byKey := make(map[string]*AggregatedEntry)
	for _, inc := range incidents {
		if !reg.IsMainBuildingLocation(inc.Location) {
			continue
		}
		if _, ok := reg.SubLocation(inc.Location); !ok {
			continue
		}
		e, ok := byKey[inc.Location]
		if !ok {
			e = &AggregatedEntry{Location: inc.Location}
			byKey[inc.Location] = e
		}
		e.Total += inc.Count
		if e.Latest == nil || !inc.Date.Before(e.Latest.Date) {
			e.Latest = inc
		}
	}

	var out []AggregatedEntry
	for _, sub := range reg.MainBuilding.SubLocations {
		if e, ok := byKey[sub.Key]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// MarkerPlan describes one clickable overlay label before it is spawned.
type MarkerPlan struct {
	Group       OverlayGroup
	Location    string
	Text        string
	Anchor      mgl32.Vec3
	Incident    *Incident
	Total       int
	Highlighted bool
	Parts       []MainBuildingPart
}

// PlanOverlay computes the overlay for the given incidents: one aggregate
// label per main-building sub-location, then one marker per other incident.
// Incidents at unknown locations are skipped.
func PlanOverlay(incidents []*Incident, reg *Registry, highlightedID int64) []MarkerPlan {
	var plans []MarkerPlan

	top := reg.MainBuilding.TopCenter()
	for _, agg := range AggregateMainBuilding(incidents, reg) {
		sub, _ := reg.SubLocation(agg.Location)
		plans = append(plans, MarkerPlan{
			Group:       OverlayMainBuilding,
			Location:    agg.Location,
			Text:        sub.Short + ": " + strconv.Itoa(agg.Total),
			Anchor:      top.Add(sub.LabelOffset),
			Incident:    agg.Latest,
			Total:       agg.Total,
			Highlighted: agg.Latest.ID == highlightedID,
			Parts:       sub.Parts,
		})
	}

	// Spread several markers of one facility side by side.
	perFacility := make(map[string]int)
	for _, inc := range incidents {
		if _, ok := reg.Facility(inc.Location); ok {
			perFacility[inc.Location]++
		}
	}
	seen := make(map[string]int)

	for _, inc := range incidents {
		if reg.IsMainBuildingLocation(inc.Location) {
			continue
		}
		f, ok := reg.Facility(inc.Location)
		if !ok {
			continue
		}

		offset := float32(facilityMarkerOffset)
		if f.Name == GymnasiumName {
			offset = gymMarkerOffset
		}
		k := seen[f.Name]
		seen[f.Name]++
		spread := (float32(k) - float32(perFacility[f.Name]-1)/2) * markerSpacing

		plans = append(plans, MarkerPlan{
			Group:       OverlayFacilities,
			Location:    f.Name,
			Text:        strconv.Itoa(inc.Count),
			Anchor:      mgl32.Vec3{f.Position.X() + spread, f.Top() + offset, f.Position.Z()},
			Incident:    inc,
			Total:       inc.Count,
			Highlighted: inc.ID == highlightedID,
		})
	}
	return plans
}

// OverlayState tracks what the overlay was last built from.
type OverlayState struct {
	HighlightedID       int64
	HighlightedLocation string

	synced          bool
	syncedVersion   uint64
	syncedHighlight int64
	rehighlight     bool
	entities        []EntityId
}

func (o *OverlayState) dirty(store *IncidentStore) bool {
	return !o.synced || o.syncedVersion != store.Version() || o.syncedHighlight != o.HighlightedID
}

// InteractiveSet lists the entities picking tests against.
type InteractiveSet struct {
	Entities []EntityId
}

// SyncOverlay rebuilds every overlay entity from the store. It reports
// whether anything was rebuilt.
func SyncOverlay(cmd *Commands, store *IncidentStore, state *OverlayState, reg *Registry, index *SceneIndex,
	interactive *InteractiveSet, assets *AssetServer, metrics *Metrics) bool {
	if !state.dirty(store) {
		return false
	}

	for _, eid := range state.entities {
		index.Remove(eid)
		cmd.RemoveEntity(eid)
	}
	state.entities = state.entities[:0]
	interactive.Entities = nil

	incidents := store.All()
	plans := PlanOverlay(incidents, reg, state.HighlightedID)
	skipped := len(incidents)
	for _, p := range plans {
		if p.Group == OverlayFacilities {
			skipped--
		}
	}
	for _, agg := range AggregateMainBuilding(incidents, reg) {
		skipped -= countAt(incidents, agg.Location)
	}
	if skipped > 0 {
		cmd.Logger().Debugf("overlay: %d incidents at unknown locations skipped", skipped)
	}

	for _, p := range plans {
		for _, part := range p.Parts {
			eid := cmd.AddEntity(
				Transform(part.Position),
				MeshComponent{
					Geometry:   assets.Box(part.Size),
					Materials:  []*core.Material{core.NewStandardMaterial(core.MustParseHexColor(part.Color))},
					CastShadow: true,
				},
				LocationTag{Name: reg.MainBuilding.Name, Location: part.Owner},
				OverlayMember{Group: p.Group},
			)
			index.Add(eid, part.Owner, reg.MainBuilding.Name)
			state.entities = append(state.entities, eid)
		}

		eid := spawnMarker(cmd, assets, p)
		state.entities = append(state.entities, eid)
		interactive.Entities = append(interactive.Entities, eid)
	}

	state.synced = true
	state.syncedVersion = store.Version()
	state.syncedHighlight = state.HighlightedID
	state.rehighlight = true
	if metrics != nil {
		metrics.OverlayRebuilds.Inc()
	}
	cmd.Logger().Debugf("overlay rebuilt: %d labels from %d incidents", len(plans), len(incidents))
	return true
}

func countAt(incidents []*Incident, location string) int {
	n := 0
	for _, inc := range incidents {
		if inc.Location == location {
			n++
		}
	}
	return n
}

func spawnMarker(cmd *Commands, assets *AssetServer, p MarkerPlan) EntityId {
	size, color := markerSize, markerColor
	if p.Group == OverlayMainBuilding {
		size, color = badgeSize, badgeColor
	}
	mat := core.NewStandardMaterial(color)
	if p.Highlighted {
		mat.Emissive = markerHighlighted
		mat.EmissiveIntensity = 0.8
	}

	return cmd.AddEntity(
		Transform(p.Anchor),
		MeshComponent{
			Geometry:  assets.Box(size),
			Materials: []*core.Material{mat},
		},
		LabelComponent{
			Text:        p.Text,
			Offset:      mgl32.Vec3{0, size.Y()/2 + markerLabelGap, 0},
			Scale:       1,
			Highlighted: p.Highlighted,
		},
		ClickTarget{Incident: p.Incident},
		OverlayMember{Group: p.Group},
	)
}

func overlaySyncSystem(cmd *Commands, scene *CampusScene, store *IncidentStore, state *OverlayState, reg *Registry,
	index *SceneIndex, interactive *InteractiveSet, assets *AssetServer, metrics *Metrics) {
	if !scene.Built {
		return
	}
	SyncOverlay(cmd, store, state, reg, index, interactive, assets, metrics)
}

// String renders a plan for debug logs.
func (p MarkerPlan) String() string {
	return fmt.Sprintf("%s %q at %v (%s)", p.Group, p.Text, p.Anchor, p.Location)
}
