// Package store defines the event persistence interface consumed by the
// conversational pipeline. Implementations live in subpackages.
package store

import (
	"context"
	"time"

	"github.com/calenhq/calen/internal/calendar"
)

// EventStore is the CRUD + range-query + conflict-check surface over events
// scoped by owner. Every query and mutation filters by owner; cross-user
// access is a store-level error, never silent.
type EventStore interface {
	// Create inserts a new event and returns it with its assigned id.
	// When the create arguments carry a positive duration the end date is
	// computed from it; otherwise an explicit end date is used as-is.
	Create(ctx context.Context, args calendar.EventCreate) (calendar.Event, error)

	// GetByID returns the event or calendar.ErrNotFound.
	GetByID(ctx context.Context, eventID string) (calendar.Event, error)

	// ListByOwner returns the owner's events ordered by start date
	// descending. limit/offset of 0 mean unbounded/none.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]calendar.Event, error)

	// ListByRange returns the owner's events whose start date falls inside
	// the window, ordered by start date ascending. Either bound may be nil
	// and is then not applied.
	ListByRange(ctx context.Context, ownerID string, start, end *time.Time) ([]calendar.Event, error)

	// Update applies a partial field replacement. Returns
	// calendar.ErrNotFound when the id is unknown and
	// calendar.ErrPermissionDenied when the event belongs to someone else.
	Update(ctx context.Context, eventID, ownerID string, upd calendar.EventUpdate) (calendar.Event, error)

	// Delete removes one owned event. Returns false when the id is unknown
	// or not owned by ownerID.
	Delete(ctx context.Context, eventID, ownerID string) (bool, error)

	// DeleteMany removes a batch all-or-nothing: if any id fails the
	// ownership or existence check, nothing is deleted and false is
	// returned.
	DeleteMany(ctx context.Context, eventIDs []string, ownerID string) (bool, error)

	// CheckConflict returns the first owned event overlapping
	// [start, end), or nil when none does. excludeEventID, when non-empty,
	// removes the event being modified from its own conflict set. A store
	// failure is returned as an error, never conflated with "no conflict".
	CheckConflict(ctx context.Context, ownerID string, start, end time.Time, excludeEventID string) (*calendar.Event, error)

	// Search returns owned events whose title or location matches the
	// query, ordered by start date descending.
	Search(ctx context.Context, ownerID, query string) ([]calendar.Event, error)

	// Count returns the number of events the owner has.
	Count(ctx context.Context, ownerID string) (int, error)
}
