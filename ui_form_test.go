package campus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentForm_Draft(t *testing.T) {
	reg := testRegistry(t)

	f := NewIncidentForm(reg)
	assert.Equal(t, "1", f.Count)
	assert.Equal(t, reg.LocationKeys()[0], f.Location)

	f.Date = "2024-05-01"
	f.Cause = "  slipped  "
	d, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, "slipped", d.Cause)

	for _, bad := range []string{"", "abc", "0", "-3", "2.5"} {
		f.Count = bad
		_, err := f.Draft()
		assert.ErrorIs(t, err, ErrInvalidCount, "count %q", bad)
	}

	f.Count = "2"
	f.Date = "05/01/2024"
	_, err = f.Draft()
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestIncidentForm_Typing(t *testing.T) {
	reg := testRegistry(t)
	f := NewIncidentForm(reg)

	for _, r := range "2024-05-01x9" {
		f.Type(r)
	}
	assert.Equal(t, "2024-05-01", f.Date, "letters dropped and input capped")

	f.Focus = FieldCause
	for _, r := range strings.Repeat("é", MaxCauseLength+5) {
		f.Type(r)
	}
	assert.Equal(t, strings.Repeat("é", MaxCauseLength), f.Cause)
	f.Backspace()
	assert.Equal(t, strings.Repeat("é", MaxCauseLength-1), f.Cause)

	f.Focus = FieldCount
	f.Backspace()
	f.Backspace()
	assert.Equal(t, "", f.Count)
}

func TestIncidentForm_CycleLocation(t *testing.T) {
	reg := testRegistry(t)
	keys := reg.LocationKeys()
	f := NewIncidentForm(reg)

	f.CycleLocation(reg, -1)
	assert.Equal(t, keys[len(keys)-1], f.Location)
	f.CycleLocation(reg, 1)
	assert.Equal(t, keys[0], f.Location)

	f.NextField()
	f.NextField()
	f.NextField()
	f.NextField()
	assert.Equal(t, FieldDate, f.Focus)
}

func TestIncidentForm_ResetKeepsLocation(t *testing.T) {
	reg := testRegistry(t)
	f := NewIncidentForm(reg)
	f.Date, f.Cause, f.Count, f.Error = "2024-05-01", "x", "4", "boom"
	f.Location = "auditorium"

	f.Reset(reg)
	assert.Equal(t, IncidentForm{Location: "auditorium", Count: "1"}, f)
}
