package campus

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration

	now func() time.Time
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewTime(time.Now))
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

// NewTime returns a clock reading from now; tests pass a fake.
func NewTime(now func() time.Time) *Time {
	return &Time{Time: now(), now: now}
}

// Seconds returns the last frame's duration in seconds.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

func timeSystem(timeResource *Time) {
	now := timeResource.now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
