package campus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrbitApp(t *testing.T) (*App, EntityId) {
	t.Helper()
	app := NewAppBuilder().
		UseModule(InputModule{}, OrbitCameraModule{}).
		Build()
	eid := app.Commands().AddEntity(DefaultCamera(), DefaultOrbitControls())
	app.FlushCommands()
	return app, eid
}

func orbitCamera(t *testing.T, app *App, eid EntityId) CameraComponent {
	t.Helper()
	cam, ok := GetComponent[CameraComponent](app.Commands(), eid)
	require.True(t, ok)
	return *cam
}

func TestOrbitCamera_Zoom(t *testing.T) {
	app, eid := newOrbitApp(t)
	input := Resource[Input](app)

	input.ScrollY = 1
	app.Step()
	assert.InDelta(t, 108, orbitCamera(t, app, eid).Distance, 1e-3)

	input.ScrollY = -1
	app.Step()
	assert.InDelta(t, 120, orbitCamera(t, app, eid).Distance, 1e-3)

	app.Step()
	assert.InDelta(t, 120, orbitCamera(t, app, eid).Distance, 1e-3, "scroll is cleared at frame end")
}

func TestOrbitCamera_RotateNeedsRightButton(t *testing.T) {
	app, eid := newOrbitApp(t)
	input := Resource[Input](app)
	before := orbitCamera(t, app, eid)

	input.MouseDeltaX = 100
	app.Step()
	assert.Equal(t, before.Yaw, orbitCamera(t, app, eid).Yaw)

	input.press(MouseButtonRight)
	input.MouseDeltaX = 100
	app.Step()
	assert.InDelta(t, before.Yaw-0.5, orbitCamera(t, app, eid).Yaw, 1e-4)
}

func TestOrbitCamera_PanStaysOnGround(t *testing.T) {
	app, eid := newOrbitApp(t)
	input := Resource[Input](app)

	input.press(MouseButtonMiddle)
	input.MouseDeltaX, input.MouseDeltaY = 40, -25
	app.Step()

	cam := orbitCamera(t, app, eid)
	assert.NotEqual(t, float32(0), cam.Target.Len())
	assert.InDelta(t, 0, cam.Target.Y(), 1e-4)
	assert.InDelta(t, 120, cam.Distance, 1e-3)
}
