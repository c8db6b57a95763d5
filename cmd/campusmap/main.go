// Command campusmap opens the 3D campus incident map.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/campusmap/campus"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 800, "window height")
	title := flag.String("title", "Campus Incident Map", "window title")
	layout := flag.String("layout", "", "facility layout YAML (default: built-in campus)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "console", "log format: console or json")
	debug := flag.Bool("debug", false, "shorthand for -log-level debug")
	flag.Parse()

	var reg *campus.Registry
	if *layout != "" {
		data, err := os.ReadFile(*layout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read layout: %v\n", err)
			os.Exit(1)
		}
		reg, err = campus.LoadRegistry(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load layout %s: %v\n", *layout, err)
			os.Exit(1)
		}
	}

	app := campus.NewAppBuilder().
		UseStates(campus.StateBrowsing, campus.StateExiting).
		UseModule(
			campus.LoggingModule{Level: *logLevel, Format: *logFormat, Service: "campusmap", Debug: *debug},
			campus.MetricsModule{},
			campus.TimeModule{},
			campus.NewPlatformWindow(*width, *height, *title),
			campus.InputModule{},
			campus.AssetServerModule{},
			campus.MeshRtModule{},
			campus.HierarchyModule{},
			campus.LifecycleModule{},
			campus.OrbitCameraModule{},
			campus.CampusModule{Registry: reg},
			campus.UiModule{},
		).
		Build()

	app.Run()
}
