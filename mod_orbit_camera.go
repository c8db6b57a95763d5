package campus

import (
	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

type OrbitCameraModule struct{}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(OrbitCameraControlSystem).
			InStage(Update).
			RunAlways(),
	)
}

// CameraComponent is an orbit camera looking at Target. Angles are radians,
// Fov is degrees.
type CameraComponent struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
	Fov      float32
	Near     float32
	Far      float32
}

type OrbitControlsComponent struct {
	RotateSpeed float32 // radians per pixel
	ZoomSpeed   float32 // distance factor per scroll step
	PanSpeed    float32 // world units per pixel at distance 100
}

func DefaultCamera() CameraComponent {
	c := core.NewCameraState()
	return CameraComponent{
		Target:   c.Target,
		Distance: 120,
		Yaw:      c.Yaw,
		Pitch:    mgl32.DegToRad(45),
		Fov:      c.Fov,
		Near:     c.Near,
		Far:      c.Far,
	}
}

func DefaultOrbitControls() OrbitControlsComponent {
	return OrbitControlsComponent{
		RotateSpeed: 0.005,
		ZoomSpeed:   0.9,
		PanSpeed:    0.15,
	}
}

// State converts the component into the renderer's camera.
func (c *CameraComponent) State() *core.CameraState {
	s := core.NewCameraState()
	s.Target = c.Target
	s.Distance = c.Distance
	s.Yaw = c.Yaw
	s.Pitch = c.Pitch
	s.Fov = c.Fov
	s.Near = c.Near
	s.Far = c.Far
	return s
}

func (c *CameraComponent) apply(s *core.CameraState) {
	c.Target = s.Target
	c.Distance = s.Distance
	c.Yaw = s.Yaw
	c.Pitch = s.Pitch
}

// activeCamera returns the first camera in the world.
func activeCamera(cmd *Commands) (*core.CameraState, bool) {
	var state *core.CameraState
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		state = cam.State()
		return false
	})
	return state, state != nil
}

// OrbitCameraControlSystem orbits with the right mouse button, pans with the
// middle button and zooms with the wheel.
func OrbitCameraControlSystem(input *Input, cmd *Commands) {
	MakeQuery2[CameraComponent, OrbitControlsComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, ctl *OrbitControlsComponent) bool {
		s := cam.State()

		if input.Pressed[MouseButtonRight] {
			s.Orbit(-float32(input.MouseDeltaX)*ctl.RotateSpeed, float32(input.MouseDeltaY)*ctl.RotateSpeed)
		}
		if input.Pressed[MouseButtonMiddle] {
			k := ctl.PanSpeed * s.Distance / 100
			s.Pan(-float32(input.MouseDeltaX)*k, float32(input.MouseDeltaY)*k)
		}
		if input.ScrollY > 0 {
			s.Zoom(ctl.ZoomSpeed)
		} else if input.ScrollY < 0 {
			s.Zoom(1 / ctl.ZoomSpeed)
		}

		cam.apply(s)
		return true
	})
}
