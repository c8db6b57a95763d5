package campus

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_changeState(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 2).Build()
	app.state = 1

	// Test changing state
	app.changeState(2)
	if app.nextState != State(2) {
		t.Errorf("The nextState should be set correctly.")
	}
	if !app.stateTransitioning {
		t.Errorf("The stateTransitioning flag should be true.")
	}

	// Test executing state change
	app.executeChangeState(2)
	if app.state != State(2) {
		t.Errorf("The app state should change correctly.")
	}
}

func TestApp_addResources(t *testing.T) {
	// Test setup
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	// Add a resource
	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)

	// Check that the resource was added
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1) // Try adding resource1 again, should panic
	})

	// Add a resource
	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)

	// Check that the resource was added
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
	assert.Same(t, resource2, Resource[MockResource2](app))
}

func TestApp_StatePhases(t *testing.T) {
	const (
		idle State = iota
		busy
		done
	)
	var calls []string
	record := func(name string) func() { return func() { calls = append(calls, name) } }

	app := NewAppBuilder().UseStates(idle, done).Build()
	app.UseSystem(System(record("enter idle")).InState(OnEnter(idle)))
	app.UseSystem(System(func(cmd *Commands) {
		calls = append(calls, "idle")
		cmd.ChangeState(busy)
	}).InState(OnExecute(idle)))
	app.UseSystem(System(record("exit idle")).InState(OnExit(idle)))
	app.UseSystem(System(record("enter busy")).InState(OnEnter(busy)))
	app.UseSystem(System(func(cmd *Commands) {
		calls = append(calls, "busy")
		cmd.Exit()
	}).InState(OnExecute(busy)))
	app.UseSystem(System(record("exit busy")).InState(OnExit(busy)))
	app.UseSystem(System(record("exit done")).InState(OnExit(done)))

	assert.True(t, app.Step())
	assert.Equal(t, busy, app.State())
	assert.False(t, app.Step())
	assert.Equal(t, done, app.State())

	assert.Equal(t, []string{
		"enter idle", "idle", "exit idle", "enter busy",
		"busy", "exit busy", "exit done",
	}, calls)
}

func TestApp_StatelessSystemsSkipTransitions(t *testing.T) {
	const (
		a State = iota
		b
		end
	)
	ticks := 0
	app := NewAppBuilder().UseStates(a, end).Build()
	app.UseSystem(System(func() { ticks++ }).RunAlways())
	app.UseSystem(System(func(cmd *Commands) { cmd.ChangeState(b) }).InState(OnExecute(a)))

	app.Step()
	assert.Equal(t, 1, ticks, "enter and exit phases must not run stateless systems")
	assert.Equal(t, b, app.State())
}

func TestApp_CommandsFlushAfterEachStage(t *testing.T) {
	type Marker struct{}

	app := NewAppBuilder().Build()
	seen := 0
	app.UseSystem(System(func(cmd *Commands) {
		cmd.AddEntity(Marker{})
	}).InStage(PreUpdate))
	app.UseSystem(System(func(cmd *Commands) {
		MakeQuery1[Marker](cmd).Map(func(eid EntityId, m *Marker) bool {
			seen++
			return true
		})
	}).InStage(Update))

	app.Step()
	assert.Equal(t, 1, seen)
}

func TestApp_ShutdownRunsHooksOnceInReverse(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []int
	app.OnShutdown(func() { order = append(order, 1) })
	app.OnShutdown(func() { order = append(order, 2) })

	app.Shutdown()
	app.Shutdown()
	assert.Equal(t, []int{2, 1}, order)
}

func TestApp_RunStopsOnExit(t *testing.T) {
	app := NewAppBuilder().Build()
	frames := 0
	closed := false
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 3 {
			cmd.Exit()
		}
	}))
	app.OnShutdown(func() { closed = true })

	app.Run()
	assert.Equal(t, 3, frames)
	assert.True(t, closed)
}

func TestApp_MissingResourcePanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(r *MockResource1) {}))
	assert.Panics(t, func() { app.Step() })
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, NewAppBuilder().Build().Logger())
}
