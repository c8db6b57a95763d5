package campus

// PlatformWindowModule creates the single shared GLFW window (WindowState)
// that renderer and input modules attach to. Install is idempotent: an
// existing WindowState is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow fills in defaults for zero sizes and an empty title.
func NewPlatformWindow(width, height int, title string) PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 800
	}
	if title == "" {
		title = "Campus Incident Map"
	}
	return PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if Resource[WindowState](app) != nil {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		app.Logger().Errorf("window unavailable: %v", err)
		panic(err)
	}
	app.addResources(ws)
	app.OnShutdown(ws.Destroy)
	app.Logger().Infof("window %dx%d %q created", m.Width, m.Height, m.Title)
}
