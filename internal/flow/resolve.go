package flow

import (
	"context"
	"time"

	"github.com/calenhq/calen/internal/calendar"
)

// resolveRange fetches the owner's candidate events inside the extracted
// date window. Both bounds are optional and independently applicable.
// Failures (including unparseable bounds) degrade to an empty candidate
// list: the caller treats "nothing to resolve further" as a terminal
// message, not an error.
func (o *Orchestrator) resolveRange(ctx context.Context, ownerID, startDate, endDate string) []calendar.Event {
	var start, end *time.Time
	if startDate != "" {
		t, err := parseISO(startDate)
		if err != nil {
			o.logger.Warn("unparseable range start", "value", startDate, "error", err)
			return nil
		}
		start = &t
	}
	if endDate != "" {
		t, err := parseISO(endDate)
		if err != nil {
			o.logger.Warn("unparseable range end", "value", endDate, "error", err)
			return nil
		}
		end = &t
	}

	events, err := o.store.ListByRange(ctx, ownerID, start, end)
	if err != nil {
		o.logger.Error("range query failed", "owner_id", ownerID, "error", err)
		return nil
	}
	return events
}
