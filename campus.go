package campus

// CampusModule installs the incident map: registry, store, scene setup,
// overlay, picking and the selection flow. The app must use the states
// StateBrowsing through StateExiting.
type CampusModule struct {
	// Registry overrides the embedded facility layout.
	Registry *Registry
}

func (mod CampusModule) Install(app *App, cmd *Commands) {
	reg := mod.Registry
	if reg == nil {
		var err error
		reg, err = DefaultRegistry()
		if err != nil {
			panic(err)
		}
	}

	if Resource[Viewport](app) == nil {
		app.addResources(&Viewport{})
	}
	if Resource[Metrics](app) == nil {
		app.addResources(NewMetrics())
	}
	app.addResources(
		reg,
		NewIncidentStore(),
		NewSceneIndex(),
		&CampusScene{},
		&OverlayState{},
		NewHighlighter(),
		&Selection{},
		&Tooltip{},
		&Picker{},
		&InteractiveSet{},
	)

	app.UseSystem(
		System(sceneSetupSystem).
			InStage(Prelude).
			RunAlways(),
	)
	app.UseSystem(
		System(pickingSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(overlaySyncSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(highlightSystem).
			InStage(PostUpdate).
			RunAlways(),
	)

	app.UseSystem(
		System(modalKeySystem).
			InStage(PreUpdate).
			InState(OnExecute(StateIncidentSelected)),
	)

	// Entering selection updates the overlay first and then tints the
	// location; leaving restores materials before the overlay rebuild.
	app.UseSystem(
		System(enterSelectedSystem).
			InStage(PreUpdate).
			InState(OnEnter(StateIncidentSelected)),
	)
	app.UseSystem(
		System(overlaySyncSystem).
			InStage(Update).
			InState(OnEnter(StateIncidentSelected)),
	)
	app.UseSystem(
		System(highlightSystem).
			InStage(PostUpdate).
			InState(OnEnter(StateIncidentSelected)),
	)
	app.UseSystem(
		System(exitSelectedSystem).
			InStage(PreUpdate).
			InState(OnExit(StateIncidentSelected)),
	)
	app.UseSystem(
		System(overlaySyncSystem).
			InStage(Update).
			InState(OnExit(StateIncidentSelected)),
	)
	app.UseSystem(
		System(highlightSystem).
			InStage(PostUpdate).
			InState(OnExit(StateIncidentSelected)),
	)
}

// sceneSetupSystem builds the static campus once the viewport is mounted.
func sceneSetupSystem(cmd *Commands, scene *CampusScene, viewport *Viewport, assets *AssetServer, reg *Registry, index *SceneIndex) {
	if scene.Built {
		return
	}
	built, ok := BuildCampusScene(cmd, assets, reg, viewport)
	if !ok {
		return
	}
	*index = *built
	scene.Built = true
}
