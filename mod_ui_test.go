package campus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonCenter(t *testing.T, ui *UiState, match func(b *UiButton) bool) (float64, float64) {
	t.Helper()
	for i := range ui.buttons {
		b := &ui.buttons[i]
		if match(b) {
			return float64(b.Position[0] + b.Width/2), float64(b.Position[1] + b.Height/2)
		}
	}
	require.FailNow(t, "button not found")
	return 0, 0
}

func toasts(app *App) []UiToast {
	var out []UiToast
	MakeQuery1[UiToast](app.Commands()).Map(func(eid EntityId, toast *UiToast) bool {
		out = append(out, *toast)
		return true
	})
	return out
}

func TestUi_SubmitLogsIncident(t *testing.T) {
	app := newCampusApp(t, harnessOptions{})
	ui := Resource[UiState](app)
	input := Resource[Input](app)

	input.CharBuffer = []rune("2024-05-01")
	app.Step()
	input.Tap(KeyTab) // location
	app.Step()
	input.Tap(KeyRight)
	app.Step()
	assert.Equal(t, Resource[Registry](app).LocationKeys()[1], ui.Form.Location)

	ui.Form.Focus = FieldCause
	input.CharBuffer = []rune("wet floor")
	input.Tap(KeyEnter)
	app.Step()

	store := Resource[IncidentStore](app)
	require.Equal(t, 1, store.Len())
	inc := store.All()[0]
	assert.Equal(t, "sports-field", inc.Location)
	assert.Equal(t, "wet floor", inc.Cause)
	assert.Equal(t, 1, inc.Count)

	assert.Empty(t, ui.Form.Cause, "form resets after submit")
	assert.Equal(t, "sports-field", ui.Form.Location)
	assert.Equal(t, float64(1), testutil.ToFloat64(Resource[Metrics](app).IncidentsLogged.WithLabelValues("sports-field")))
	assert.Equal(t, []UiToast{{Text: "Incident logged"}}, toasts(app))

	app.Step()
	assert.Contains(t, markers(app), "1")
}

func TestUi_RejectsBadCount(t *testing.T) {
	app := newCampusApp(t, harnessOptions{})
	ui := Resource[UiState](app)
	ui.Form.Date = "2024-05-01"
	ui.Form.Cause = "x"
	ui.Form.Count = "lots"

	Resource[Input](app).Tap(KeyEnter)
	app.Step()

	assert.Zero(t, Resource[IncidentStore](app).Len())
	assert.Equal(t, ErrInvalidCount.Error(), ui.Form.Error)
	assert.Equal(t, "lots", ui.Form.Count, "rejected input stays for correction")
	require.Len(t, toasts(app), 1)
	assert.True(t, toasts(app)[0].Error)
}

func TestUi_ListRowSelectsAndCloseButton(t *testing.T) {
	app := newCampusApp(t, harnessOptions{})
	logIncident(t, app, "2024-01-01", "auditorium", 1, "old")
	newer := logIncident(t, app, "2024-06-01", "parking-lot", 2, "new")
	app.Step()

	ui := Resource[UiState](app)
	x, y := buttonCenter(t, ui, func(b *UiButton) bool { return b.Hidden })
	input := Resource[Input](app)
	input.Click(x, y)
	app.Step()

	sel := Resource[Selection](app)
	assert.Equal(t, StateIncidentSelected, app.State())
	assert.Same(t, newer, sel.Current, "rows are listed newest first")

	app.Step()
	require.NotEmpty(t, ui.Modal)
	x, y = buttonCenter(t, ui, func(b *UiButton) bool { return b.Label == "Close" })
	input.Click(x, y)
	app.Step()

	assert.Equal(t, StateBrowsing, app.State())
	assert.False(t, sel.ModalOpen)

	app.Step()
	assert.Empty(t, ui.Modal)
}

func TestUi_PanelsSwallowClicks(t *testing.T) {
	app := newCampusApp(t, harnessOptions{})
	input := Resource[Input](app)

	consumed := false
	app.UseSystem(System(func(input *Input) { consumed = input.ClickConsumed }).InStage(Update))

	input.Click(uiMargin+4, uiMargin+4)
	app.Step()
	assert.True(t, consumed)
	assert.False(t, input.ClickConsumed, "reset at the end of the frame")

	input.Click(640, 700)
	app.Step()
	assert.False(t, consumed)
}

func TestUi_DrawsThroughCanvas(t *testing.T) {
	app := newCampusApp(t, harnessOptions{})
	canvas := Resource[Screen](app).Canvas.(*HeadlessCanvas)
	logIncident(t, app, "2024-06-01", "dormitory", 2, "noise")

	canvas.Reset()
	app.Step()

	assert.Contains(t, canvas.Texts, "Log incident")
	assert.Contains(t, canvas.Texts, "== Incidents (1) ==")
	assert.Contains(t, canvas.Texts, "noise")
	assert.Contains(t, canvas.Texts, "Submit")
	assert.Positive(t, canvas.Rects)

	drawn := len(canvas.Texts)
	app.Step()
	assert.Len(t, canvas.Texts, drawn, "only the last frame is kept")
}
