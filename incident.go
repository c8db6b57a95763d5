package campus

import (
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"
)

const (
	// DateLayout is the calendar date format used by the form and labels.
	DateLayout     = "2006-01-02"
	MaxCauseLength = 50
)

var (
	ErrMissingDate     = errors.New("date is required")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrUnknownLocation = errors.New("unknown location")
	ErrInvalidCount    = errors.New("count must be a whole number of at least 1")
	ErrEmptyCause      = errors.New("cause is required")
	ErrCauseTooLong    = fmt.Errorf("cause must be at most %d characters", MaxCauseLength)
)

// Incident is immutable once added to the store.
type Incident struct {
	ID       int64
	Date     time.Time
	Location string
	Count    int
	Cause    string
}

func (inc *Incident) DateString() string {
	return inc.Date.Format(DateLayout)
}

// IncidentDraft is a validated incident that has no id yet.
type IncidentDraft struct {
	Date     time.Time
	Location string
	Count    int
	Cause    string
}

// Validate checks the draft against the rules every stored incident obeys.
// reg may be nil to skip the location check.
func (d IncidentDraft) Validate(reg *Registry) error {
	if d.Date.IsZero() {
		return ErrMissingDate
	}
	if reg != nil && !reg.HasLocation(d.Location) {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, d.Location)
	}
	if d.Count < 1 {
		return ErrInvalidCount
	}
	if d.Cause == "" {
		return ErrEmptyCause
	}
	if utf8.RuneCountInString(d.Cause) > MaxCauseLength {
		return ErrCauseTooLong
	}
	return nil
}

// IncidentStore keeps the session's incidents in insertion order. Version
// changes on every mutation so observers can tell when to resync.
type IncidentStore struct {
	items   []*Incident
	version uint64
	lastID  int64
	now     func() time.Time
}

func NewIncidentStore() *IncidentStore {
	return &IncidentStore{now: time.Now}
}

// Add validates the draft and appends it with a fresh id. Ids derive from
// the creation time in milliseconds and stay strictly increasing.
func (s *IncidentStore) Add(draft IncidentDraft, reg *Registry) (*Incident, error) {
	if err := draft.Validate(reg); err != nil {
		return nil, err
	}

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	inc := &Incident{
		ID:       id,
		Date:     draft.Date,
		Location: draft.Location,
		Count:    draft.Count,
		Cause:    draft.Cause,
	}
	s.items = append(s.items, inc)
	s.version++
	return inc, nil
}

func (s *IncidentStore) Version() uint64 {
	return s.version
}

func (s *IncidentStore) Len() int {
	return len(s.items)
}

// All returns the incidents in insertion order.
func (s *IncidentStore) All() []*Incident {
	return slices.Clone(s.items)
}

func (s *IncidentStore) Get(id int64) (*Incident, bool) {
	for _, inc := range s.items {
		if inc.ID == id {
			return inc, true
		}
	}
	return nil, false
}

// SortedByDate returns the incidents newest date first. Equal dates keep
// insertion order.
func (s *IncidentStore) SortedByDate() []*Incident {
	out := slices.Clone(s.items)
	slices.SortStableFunc(out, func(a, b *Incident) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// ParseDate parses a form date into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
