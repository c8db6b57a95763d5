package campus

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyTab int = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

type InputModule struct{}

// Input is this frame's view of keyboard and pointer. Window callbacks fill
// it; the Finale stage clears the per-frame edges.
type Input struct {
	Pressed [256]bool

	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseMoved               bool
	ScrollY                  float64

	// ClickConsumed is set by UI widgets that handled this frame's click so
	// the 3D picking underneath ignores it.
	ClickConsumed bool

	WindowWidth, WindowHeight int
	CharBuffer                []rune
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	input := &Input{}
	cmd.AddResources(input)

	if ws := Resource[WindowState](app); ws != nil {
		ws.bindInput(input)
		app.UseSystem(
			System(pollEventsSystem).
				InStage(Prelude).
				RunAlways(),
		)
	}
	app.UseSystem(
		System(inputEndFrameSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func pollEventsSystem(s *WindowState, input *Input, cmd *Commands) {
	glfw.PollEvents()
	input.WindowWidth, input.WindowHeight = s.window.GetSize()
	if s.window.ShouldClose() {
		cmd.Logger().Infof("window closed")
		cmd.Exit()
	}
}

func inputEndFrameSystem(input *Input) {
	input.EndFrame()
}

func (input *Input) EndFrame() {
	input.JustPressed = [256]bool{}
	input.JustReleased = [256]bool{}
	input.MouseDeltaX, input.MouseDeltaY = 0, 0
	input.MouseMoved = false
	input.ScrollY = 0
	input.ClickConsumed = false
	input.CharBuffer = input.CharBuffer[:0]
}

func (input *Input) press(key int) {
	if !input.Pressed[key] {
		input.JustPressed[key] = true
	}
	input.Pressed[key] = true
}

func (input *Input) release(key int) {
	if input.Pressed[key] {
		input.JustReleased[key] = true
	}
	input.Pressed[key] = false
}

// MoveMouse records a cursor position in window coordinates.
func (input *Input) MoveMouse(x, y float64) {
	input.MouseDeltaX += x - input.MouseX
	input.MouseDeltaY += y - input.MouseY
	input.MouseX, input.MouseY = x, y
	input.MouseMoved = true
}

// Click simulates a full left click at the given position.
func (input *Input) Click(x, y float64) {
	input.MoveMouse(x, y)
	input.press(MouseButtonLeft)
	input.release(MouseButtonLeft)
}

// Tap simulates a key press and release within one frame.
func (input *Input) Tap(key int) {
	input.press(key)
	input.release(key)
}

var keyToGlfw = map[glfw.Key]int{
	glfw.KeyTab:       KeyTab,
	glfw.KeyEnter:     KeyEnter,
	glfw.KeyKPEnter:   KeyEnter,
	glfw.KeyEscape:    KeyEscape,
	glfw.KeyBackspace: KeyBackspace,
	glfw.KeyUp:        KeyUp,
	glfw.KeyDown:      KeyDown,
	glfw.KeyLeft:      KeyLeft,
	glfw.KeyRight:     KeyRight,
	glfw.KeyF1:        KeyF1,
}

var mouseButtonToGlfw = map[glfw.MouseButton]int{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}
