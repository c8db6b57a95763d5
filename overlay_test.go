package campus

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentAt(t *testing.T, id int64, day, location string, count int) *Incident {
	return &Incident{ID: id, Date: date(t, day), Location: location, Count: count, Cause: "test"}
}

func TestAggregateMainBuilding(t *testing.T) {
	reg := testRegistry(t)
	later := incidentAt(t, 1, "2024-03-02", "main-building / classrooms", 5)
	earlier := incidentAt(t, 2, "2024-01-10", "main-building / classrooms", 2)
	library := incidentAt(t, 3, "2024-02-01", "main-building / library", 1)
	gym := incidentAt(t, 4, "2024-02-01", "gymnasium", 9)

	got := AggregateMainBuilding([]*Incident{library, later, gym, earlier}, reg)

	require.Len(t, got, 2)
	assert.Equal(t, "main-building / classrooms", got[0].Location, "registry order, not insertion order")
	assert.Equal(t, 7, got[0].Total)
	assert.Same(t, later, got[0].Latest)
	assert.Equal(t, "main-building / library", got[1].Location)
	assert.Equal(t, 1, got[1].Total)
}

func TestAggregateMainBuilding_LastWinsOnTies(t *testing.T) {
	reg := testRegistry(t)
	a := incidentAt(t, 1, "2024-03-02", "main-building / offices", 1)
	b := incidentAt(t, 2, "2024-03-02", "main-building / offices", 1)

	got := AggregateMainBuilding([]*Incident{a, b}, reg)
	require.Len(t, got, 1)
	assert.Same(t, b, got[0].Latest)
}

func TestPlanOverlay(t *testing.T) {
	reg := testRegistry(t)
	gym := incidentAt(t, 10, "2024-05-01", "gymnasium", 3)
	field := incidentAt(t, 11, "2024-05-02", "sports-field", 1)
	classA := incidentAt(t, 12, "2024-01-10", "main-building / classrooms", 2)
	classB := incidentAt(t, 13, "2024-03-02", "main-building / classrooms", 5)
	lost := incidentAt(t, 14, "2024-03-02", "moon-base", 1)

	plans := PlanOverlay([]*Incident{gym, classA, field, lost, classB}, reg, classB.ID)
	require.Len(t, plans, 3)

	badge := plans[0]
	assert.Equal(t, OverlayMainBuilding, badge.Group)
	assert.Equal(t, "Classrooms: 7", badge.Text)
	assert.Same(t, classB, badge.Incident)
	assert.True(t, badge.Highlighted)
	assert.Equal(t, mgl32.Vec3{-13, 18, -10}, badge.Anchor)
	assert.Len(t, badge.Parts, 2)

	gymMarker := plans[1]
	assert.Equal(t, OverlayFacilities, gymMarker.Group)
	assert.Equal(t, "3", gymMarker.Text)
	assert.Equal(t, mgl32.Vec3{45, 19, -10}, gymMarker.Anchor, "gymnasium markers float higher")
	assert.False(t, gymMarker.Highlighted)

	fieldMarker := plans[2]
	assert.Equal(t, mgl32.Vec3{0, 4, 40}, fieldMarker.Anchor)
}

func TestPlanOverlay_SpreadsMarkersOfOneFacility(t *testing.T) {
	reg := testRegistry(t)
	a := incidentAt(t, 1, "2024-05-01", "dormitory", 1)
	b := incidentAt(t, 2, "2024-05-02", "dormitory", 2)

	plans := PlanOverlay([]*Incident{a, b}, reg, 0)
	require.Len(t, plans, 2)
	assert.InDelta(t, 45-markerSpacing/2.0, plans[0].Anchor.X(), 1e-5)
	assert.InDelta(t, 45+markerSpacing/2.0, plans[1].Anchor.X(), 1e-5)
	assert.Equal(t, plans[0].Anchor.Y(), plans[1].Anchor.Y())
}

func TestSyncOverlay_GymMarker(t *testing.T) {
	app := newCampusApp(t, harnessOptions{noUI: true})
	inc := logIncident(t, app, "2024-05-01", "gymnasium", 3, "twisted ankle")
	app.Step()

	m := markers(app)
	require.Len(t, m, 1)
	eid := m["3"]
	cmd := app.Commands()

	tr, _ := GetComponent[TransformComponent](cmd, eid)
	assert.Equal(t, float32(19), tr.Position.Y())
	target, _ := GetComponent[ClickTarget](cmd, eid)
	assert.Same(t, inc, target.Incident)
	member, _ := GetComponent[OverlayMember](cmd, eid)
	assert.Equal(t, OverlayFacilities, member.Group)

	assert.Equal(t, []EntityId{eid}, Resource[InteractiveSet](app).Entities)
}

func TestSyncOverlay_MainBuilding(t *testing.T) {
	app := newCampusApp(t, harnessOptions{noUI: true})
	logIncident(t, app, "2024-01-10", "main-building / classrooms", 2, "crowding")
	later := logIncident(t, app, "2024-03-02", "main-building / classrooms", 5, "fire drill")
	app.Step()

	m := markers(app)
	require.Len(t, m, 1)
	target, _ := GetComponent[ClickTarget](app.Commands(), m["Classrooms: 7"])
	require.NotNil(t, target)
	assert.Same(t, later, target.Incident)

	parts := Resource[SceneIndex](app).Entities("main-building / classrooms")
	assert.Len(t, parts, 2)
	for _, eid := range parts {
		tag, ok := GetComponent[LocationTag](app.Commands(), eid)
		require.True(t, ok)
		assert.Equal(t, "main-building", tag.Name)
		assert.Equal(t, "main-building / classrooms", tag.Location)
	}
}

func TestSyncOverlay_RebuildsOnlyWhenDirty(t *testing.T) {
	app := newCampusApp(t, harnessOptions{noUI: true})
	metrics := Resource[Metrics](app)

	logIncident(t, app, "2024-01-10", "main-building / library", 1, "books")
	app.Step()
	first := markers(app)
	rebuilds := counterValue(t, metrics.OverlayRebuilds)

	app.Step()
	assert.Equal(t, rebuilds, counterValue(t, metrics.OverlayRebuilds), "unchanged store must not rebuild")
	assert.Equal(t, first, markers(app))

	logIncident(t, app, "2024-01-11", "auditorium", 2, "stage")
	app.Step()
	second := markers(app)
	assert.Len(t, second, 2)
	assert.NotEqual(t, first["Library: 1"], second["Library: 1"], "labels are respawned")
	assert.Len(t, Resource[SceneIndex](app).Entities("main-building / library"), 1, "old parts leave the index")
	assert.Len(t, Resource[InteractiveSet](app).Entities, 2)
}

func TestSyncOverlay_SkipsUnknownLocations(t *testing.T) {
	app := newCampusApp(t, harnessOptions{noUI: true})
	store := Resource[IncidentStore](app)

	// Bypass validation the way a stale record would.
	_, err := store.Add(IncidentDraft{Date: date(t, "2024-01-01"), Location: "demolished-wing", Count: 1, Cause: "x"}, nil)
	require.NoError(t, err)
	logIncident(t, app, "2024-01-02", "parking-lot", 4, "fender bender")
	app.Step()

	assert.Len(t, markers(app), 1)
}
