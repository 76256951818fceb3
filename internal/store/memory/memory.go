// Package memory provides an in-memory EventStore used in tests and when no
// database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calenhq/calen/internal/calendar"
	"github.com/calenhq/calen/internal/store"
)

// Store keeps events in a map guarded by a mutex. Semantics mirror the
// postgres implementation.
type Store struct {
	mu     sync.Mutex
	events map[string]calendar.Event
}

var _ store.EventStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{events: make(map[string]calendar.Event)}
}

func (s *Store) Create(_ context.Context, args calendar.EventCreate) (calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := calendar.Event{
		ID:        uuid.New().String(),
		Title:     args.Title,
		StartDate: args.StartDate,
		Location:  args.Location,
		OwnerID:   args.OwnerID,
		CreatedAt: time.Now().UTC(),
	}
	if args.Duration > 0 {
		end := args.StartDate.Add(time.Duration(args.Duration) * time.Minute)
		ev.EndDate = &end
	} else if args.EndDate != nil {
		end := *args.EndDate
		ev.EndDate = &end
	}
	s.events[ev.ID] = ev
	return ev, nil
}

func (s *Store) GetByID(_ context.Context, eventID string) (calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		return calendar.Event{}, calendar.ErrNotFound
	}
	return ev, nil
}

func (s *Store) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.owned(ownerID)
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.After(events[j].StartDate)
	})
	if offset > 0 {
		if offset >= len(events) {
			return nil, nil
		}
		events = events[offset:]
	}
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

func (s *Store) ListByRange(_ context.Context, ownerID string, start, end *time.Time) ([]calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []calendar.Event
	for _, ev := range s.owned(ownerID) {
		if start != nil && ev.StartDate.Before(*start) {
			continue
		}
		if end != nil && ev.StartDate.After(*end) {
			continue
		}
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events, nil
}

func (s *Store) Update(_ context.Context, eventID, ownerID string, upd calendar.EventUpdate) (calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[eventID]
	if !ok {
		return calendar.Event{}, calendar.ErrNotFound
	}
	if current.OwnerID != ownerID {
		return calendar.Event{}, calendar.ErrPermissionDenied
	}

	next := current
	if upd.Title != nil {
		next.Title = *upd.Title
	}
	if upd.StartDate != nil {
		next.StartDate = *upd.StartDate
	}
	if upd.Location != nil {
		next.Location = *upd.Location
	}
	switch {
	case upd.Duration != nil && *upd.Duration > 0:
		end := next.StartDate.Add(time.Duration(*upd.Duration) * time.Minute)
		next.EndDate = &end
	case upd.Duration != nil:
		next.EndDate = nil
	case upd.EndDate != nil:
		end := *upd.EndDate
		next.EndDate = &end
	case upd.StartDate != nil && current.EndDate != nil:
		end := next.StartDate.Add(time.Duration(current.Duration()) * time.Minute)
		next.EndDate = &end
	}

	s.events[eventID] = next
	return next, nil
}

func (s *Store) Delete(_ context.Context, eventID, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok || ev.OwnerID != ownerID {
		return false, nil
	}
	delete(s.events, eventID)
	return true, nil
}

func (s *Store) DeleteMany(_ context.Context, eventIDs []string, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(eventIDs) == 0 {
		return false, nil
	}
	for _, id := range eventIDs {
		ev, ok := s.events[id]
		if !ok || ev.OwnerID != ownerID {
			return false, nil
		}
	}
	for _, id := range eventIDs {
		delete(s.events, id)
	}
	return true, nil
}

func (s *Store) CheckConflict(_ context.Context, ownerID string, start, end time.Time, excludeEventID string) (*calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.owned(ownerID)
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	for _, ev := range events {
		if excludeEventID != "" && ev.ID == excludeEventID {
			continue
		}
		if ev.Overlaps(start, end) {
			conflict := ev
			return &conflict, nil
		}
	}
	return nil, nil
}

func (s *Store) Search(_ context.Context, ownerID, query string) ([]calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var events []calendar.Event
	for _, ev := range s.owned(ownerID) {
		if strings.Contains(strings.ToLower(ev.Title), q) ||
			strings.Contains(strings.ToLower(ev.Location), q) {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.After(events[j].StartDate)
	})
	return events, nil
}

func (s *Store) Count(_ context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.owned(ownerID)), nil
}

func (s *Store) owned(ownerID string) []calendar.Event {
	var events []calendar.Event
	for _, ev := range s.events {
		if ev.OwnerID == ownerID {
			events = append(events, ev)
		}
	}
	return events
}
