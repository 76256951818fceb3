package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/calenhq/calen/internal/calendar"
)

// checkConflict asks the store for the first owned event overlapping
// [start, end). A store failure is surfaced as an error, never conflated
// with "no conflict": silently creating a colliding event on an error path
// would be a correctness bug.
func (o *Orchestrator) checkConflict(ctx context.Context, ownerID string, start, end time.Time, excludeEventID string) (*calendar.Event, error) {
	conflict, err := o.store.CheckConflict(ctx, ownerID, start, end, excludeEventID)
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	return conflict, nil
}
