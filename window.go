package campus

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window that backs the render surface.
type WindowState struct {
	window       *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
	destroyed    bool
}

// createWindowState must run on the main thread, which the caller locks.
func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // WebGPU drives the surface, no GL context
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return &WindowState{
		window:       win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

func (s *WindowState) Window() *glfw.Window {
	return s.window
}

func (s *WindowState) bindInput(input *Input) {
	input.WindowWidth, input.WindowHeight = s.window.GetSize()
	input.MouseX, input.MouseY = s.window.GetCursorPos()

	s.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k, ok := keyToGlfw[key]
		if !ok {
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if action == glfw.Repeat {
				input.Pressed[k] = false
			}
			input.press(k)
		case glfw.Release:
			input.release(k)
		}
	})
	s.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := mouseButtonToGlfw[button]
		if !ok {
			return
		}
		if action == glfw.Press {
			input.press(b)
		} else if action == glfw.Release {
			input.release(b)
		}
	})
	s.window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		input.MoveMouse(x, y)
	})
	s.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		input.ScrollY += yoff
	})
	s.window.SetCharCallback(func(w *glfw.Window, char rune) {
		input.CharBuffer = append(input.CharBuffer, char)
	})
}

// OnFramebufferResize registers fn for framebuffer size changes.
func (s *WindowState) OnFramebufferResize(fn func(width, height int)) {
	s.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		fn(width, height)
	})
}

// Destroy removes every callback and closes the window. Safe to call twice.
func (s *WindowState) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	s.window.SetKeyCallback(nil)
	s.window.SetMouseButtonCallback(nil)
	s.window.SetCursorPosCallback(nil)
	s.window.SetScrollCallback(nil)
	s.window.SetCharCallback(nil)
	s.window.SetFramebufferSizeCallback(nil)
	s.window.Destroy()
	glfw.Terminate()
}
