package campus

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

type FormField int

const (
	FieldDate FormField = iota
	FieldLocation
	FieldCount
	FieldCause
	formFieldCount
)

const maxDateInput = len(DateLayout)

// IncidentForm is the raw text the user typed into the log form.
type IncidentForm struct {
	Date     string
	Location string
	Count    string
	Cause    string

	Focus FormField
	Error string
}

// NewIncidentForm returns an empty form with the first location picked and
// a count of one.
func NewIncidentForm(reg *Registry) IncidentForm {
	f := IncidentForm{Count: "1"}
	if keys := reg.LocationKeys(); len(keys) > 0 {
		f.Location = keys[0]
	}
	return f
}

// Reset clears the form after a successful submit. The picked location
// stays so several incidents can be logged for one place.
func (f *IncidentForm) Reset(reg *Registry) {
	loc := f.Location
	*f = NewIncidentForm(reg)
	if reg.HasLocation(loc) {
		f.Location = loc
	}
}

// Draft converts the typed text into a draft. Counts that are not whole
// numbers are rejected rather than coerced.
func (f *IncidentForm) Draft() (IncidentDraft, error) {
	date, err := ParseDate(strings.TrimSpace(f.Date))
	if err != nil {
		return IncidentDraft{}, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(f.Count))
	if err != nil || count < 1 {
		return IncidentDraft{}, ErrInvalidCount
	}
	return IncidentDraft{
		Date:     date,
		Location: f.Location,
		Count:    count,
		Cause:    strings.TrimSpace(f.Cause),
	}, nil
}

// CycleLocation moves the picked location step entries through the list.
func (f *IncidentForm) CycleLocation(reg *Registry, step int) {
	keys := reg.LocationKeys()
	if len(keys) == 0 {
		return
	}
	i := slices.Index(keys, f.Location)
	if i < 0 {
		f.Location = keys[0]
		return
	}
	i = ((i+step)%len(keys) + len(keys)) % len(keys)
	f.Location = keys[i]
}

func (f *IncidentForm) NextField() {
	f.Focus = (f.Focus + 1) % formFieldCount
}

// Type appends r to the focused text field.
func (f *IncidentForm) Type(r rune) {
	switch f.Focus {
	case FieldDate:
		if (r >= '0' && r <= '9' || r == '-') && len(f.Date) < maxDateInput {
			f.Date += string(r)
		}
	case FieldCount:
		if r >= '0' && r <= '9' || r == '-' || r == '.' {
			f.Count += string(r)
		}
	case FieldCause:
		if utf8.RuneCountInString(f.Cause) < MaxCauseLength {
			f.Cause += string(r)
		}
	}
}

func (f *IncidentForm) Backspace() {
	trim := func(s string) string {
		_, size := utf8.DecodeLastRuneInString(s)
		return s[:len(s)-size]
	}
	switch f.Focus {
	case FieldDate:
		f.Date = trim(f.Date)
	case FieldCount:
		f.Count = trim(f.Count)
	case FieldCause:
		f.Cause = trim(f.Cause)
	}
}
