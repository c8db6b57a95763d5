package campus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifetimeRemovesExpiredEntities(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	app := NewAppBuilder().UseModule(LifecycleModule{}).Build()
	app.addResources(NewTime(clock))
	app.UseSystem(System(timeSystem).InStage(Prelude))

	cmd := app.Commands()
	toast := cmd.AddEntity(UiToast{Text: "hi"}, LifetimeComponent{TimeLeft: 2.5})
	app.FlushCommands()

	now = now.Add(time.Second)
	app.Step()
	assert.True(t, HasEntity(cmd, toast))

	now = now.Add(time.Second)
	app.Step()
	lt, _ := GetComponent[LifetimeComponent](cmd, toast)
	assert.InDelta(t, 0.5, lt.TimeLeft, 1e-4)

	now = now.Add(time.Second)
	app.Step()
	assert.False(t, HasEntity(cmd, toast))
}

func TestTimeSeconds(t *testing.T) {
	now := time.Unix(100, 0)
	tm := NewTime(func() time.Time { return now })
	now = now.Add(250 * time.Millisecond)
	timeSystem(tm)
	assert.InDelta(t, 0.25, tm.Seconds(), 1e-6)
}
