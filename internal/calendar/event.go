package calendar

import (
	"time"
)

// Event is one calendar occurrence owned by a single user.
//
// EndDate is nullable: an event extracted without a duration has no end until
// conflict resolution assigns one. Duration is always derived from the date
// pair and never stored independently.
type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Location  string     `json:"location,omitempty"`
	OwnerID   string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
}

// Duration returns the event length in minutes, or 0 when EndDate is unset.
func (e Event) Duration() int {
	if e.EndDate == nil {
		return 0
	}
	return int(e.EndDate.Sub(e.StartDate) / time.Minute)
}

// Overlaps reports whether the event collides with the window [start, end).
// Open-interval overlap, plus an exact boundary match so that identical
// ranges still conflict even when the window is zero-width.
func (e Event) Overlaps(start, end time.Time) bool {
	if e.EndDate == nil {
		return false
	}
	if e.StartDate.Before(end) && e.EndDate.After(start) {
		return true
	}
	return e.StartDate.Equal(start) && e.EndDate.Equal(end)
}

// EventCreate carries the fields needed to create an event. Exactly one of
// Duration or EndDate is expected; when Duration > 0 the end is computed as
// StartDate plus Duration minutes.
type EventCreate struct {
	Title     string     `json:"title"`
	StartDate time.Time  `json:"startDate"`
	Duration  int        `json:"duration,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Location  string     `json:"location,omitempty"`
	OwnerID   string     `json:"-"`
}

// End resolves the effective end of the window described by the create
// arguments. Returns StartDate unchanged when neither Duration nor EndDate
// is present, producing a zero-width window.
func (c EventCreate) End() time.Time {
	if c.Duration > 0 {
		return c.StartDate.Add(time.Duration(c.Duration) * time.Minute)
	}
	if c.EndDate != nil {
		return *c.EndDate
	}
	return c.StartDate
}

// EventUpdate is a partial field replacement. Nil fields are untouched.
// Changing StartDate or Duration recomputes EndDate; Duration == 0
// explicitly clears EndDate.
type EventUpdate struct {
	Title     *string    `json:"title,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	Duration  *int       `json:"duration,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Location  *string    `json:"location,omitempty"`
}

// IsZero reports whether the update carries no field changes at all.
func (u EventUpdate) IsZero() bool {
	return u.Title == nil && u.StartDate == nil && u.Duration == nil &&
		u.EndDate == nil && u.Location == nil
}

// ChangesStart reports whether applying the update moves the event window,
// which is what decides if a conflict re-check is required.
func (u EventUpdate) ChangesStart() bool {
	return u.StartDate != nil
}
