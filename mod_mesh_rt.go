package campus

import (
	app_rt "github.com/campusmap/campus/meshrt/rt/app"
	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshRtModule mounts the WebGPU mesh renderer on the platform window. Without
// a window it installs nothing and the viewport stays unmounted.
type MeshRtModule struct{}

type MeshRtState struct {
	RtApp       *app_rt.App
	instanceMap map[EntityId]*core.MeshObject
}

func (mod MeshRtModule) Install(app *App, cmd *Commands) {
	windowState := Resource[WindowState](app)
	if windowState == nil {
		app.Logger().Warnf("no window, renderer disabled")
		return
	}

	RtApp := app_rt.NewApp(windowState.Window(), app.Logger())
	if err := RtApp.Init(); err != nil {
		panic(err)
	}

	state := &MeshRtState{
		RtApp:       RtApp,
		instanceMap: make(map[EntityId]*core.MeshObject),
	}
	viewport := &Viewport{Mounted: true}
	screen := &Screen{Canvas: RtApp}
	state.measure(windowState, viewport, screen)

	cmd.AddResources(state, viewport, screen)
	windowState.OnFramebufferResize(func(width, height int) {
		RtApp.Resize(width, height)
		state.measure(windowState, viewport, screen)
	})
	app.OnShutdown(func() {
		state.instanceMap = nil
		RtApp.Release()
	})

	app.UseSystem(
		System(meshRtSyncSystem).
			InStage(PreRender).
			RunAlways(),
	)
	app.UseSystem(
		System(meshRtRenderSystem).
			InStage(Render).
			RunAlways(),
	)
}

// measure refreshes the logical viewport size and the pixel ratio between
// window coordinates and the framebuffer.
func (s *MeshRtState) measure(ws *WindowState, viewport *Viewport, screen *Screen) {
	w, h := ws.Window().GetSize()
	fw, _ := s.RtApp.Size()
	viewport.Width, viewport.Height = w, h
	viewport.PixelRatio = 1
	if w > 0 && fw > 0 {
		viewport.PixelRatio = float32(fw) / float32(w)
	}
	screen.PixelRatio = viewport.PixelRatio
}

// meshRtSyncSystem mirrors meshes, lights, labels and the camera into the
// renderer scene.
func meshRtSyncSystem(state *MeshRtState, server *AssetServer, cmd *Commands) {
	scene := state.RtApp.Scene
	if scene == nil {
		return
	}
	currentEntities := make(map[EntityId]bool)

	MakeQuery2[TransformComponent, MeshComponent](cmd).Map(func(entityId EntityId, transform *TransformComponent, mesh *MeshComponent) bool {
		currentEntities[entityId] = true

		obj, exists := state.instanceMap[entityId]
		if !exists {
			geom, ok := server.Geometry(mesh.Geometry)
			if !ok {
				return true
			}
			obj = core.NewMeshObject(geom)
			scene.AddObject(obj)
			state.instanceMap[entityId] = obj
		}

		if obj.Transform.Position != transform.Position || obj.Transform.Rotation != transform.Rotation ||
			obj.Transform.Scale != transform.Scale {
			obj.Transform.Position = transform.Position
			obj.Transform.Rotation = transform.Rotation
			obj.Transform.Scale = transform.Scale
			obj.Transform.Dirty = true
		}
		obj.Materials = mesh.Materials
		obj.CastShadow = mesh.CastShadow
		return true
	})

	for eid, obj := range state.instanceMap {
		if !currentEntities[eid] {
			scene.RemoveObject(obj)
			delete(state.instanceMap, eid)
		}
	}

	scene.Lights = scene.Lights[:0]
	MakeQuery1[LightComponent](cmd).Map(func(entityId EntityId, light *LightComponent) bool {
		scene.Lights = append(scene.Lights, core.Light{
			Ambient:    light.Type == LightTypeAmbient,
			Direction:  light.Direction,
			Color:      mgl32.Vec3{light.Color[0], light.Color[1], light.Color[2]},
			Intensity:  light.Intensity,
			CastShadow: light.CastShadow,
		})
		return true
	})

	scene.Labels = scene.Labels[:0]
	MakeQuery2[TransformComponent, LabelComponent](cmd).Map(func(entityId EntityId, transform *TransformComponent, label *LabelComponent) bool {
		scene.Labels = append(scene.Labels, core.Label{
			Text:     label.Text,
			Anchor:   transform.Position.Add(label.Offset),
			Color:    label.Color(),
			Scale:    label.Scale,
			Backdrop: true,
		})
		return true
	})

	if cam, ok := activeCamera(cmd); ok {
		state.RtApp.Camera = cam
	}
}

func meshRtRenderSystem(state *MeshRtState) {
	state.RtApp.Update()
	state.RtApp.Render()
	state.RtApp.ClearText()
}
