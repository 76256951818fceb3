package calendar

import "errors"

// Store-level structural failures. NotFound and PermissionDenied are distinct so
// the caller-facing layer can decide how much to reveal; the store must never
// collapse one into the other.
var (
	// ErrNotFound indicates the event id does not exist.
	ErrNotFound = errors.New("event not found")

	// ErrPermissionDenied indicates the event exists but belongs to a
	// different owner.
	ErrPermissionDenied = errors.New("not authorized for this event")
)
