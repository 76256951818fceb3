package flow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/calenhq/calen/internal/calendar"
)

// updatePayload separates the window used to find the target event from the
// replacement field values.
type updatePayload struct {
	EventArguments  windowArguments `json:"event_arguments"`
	UpdateArguments updateFields    `json:"update_arguments"`
}

type updateFields struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	Duration  *int   `json:"duration"`
	Location  string `json:"location"`
}

func (f updateFields) toEventUpdate() (calendar.EventUpdate, error) {
	var upd calendar.EventUpdate
	if f.Title != "" {
		title := f.Title
		upd.Title = &title
	}
	if f.StartDate != "" {
		start, err := parseISO(f.StartDate)
		if err != nil {
			return calendar.EventUpdate{}, err
		}
		upd.StartDate = &start
	}
	if f.Duration != nil {
		duration := *f.Duration
		upd.Duration = &duration
	}
	if f.Location != "" {
		location := f.Location
		upd.Location = &location
	}
	return upd, nil
}

// runUpdate finds the events the user wants to change, and when the update
// moves the start date, re-checks the proposed window for conflicts. The
// targeted event is excluded from its own conflict set when the candidate
// is unambiguous. A duration-only or title-only update does not re-check.
func (o *Orchestrator) runUpdate(ctx context.Context, st *turnState) {
	res := o.extractWindow(ctx, "update", updatePrompt, st)
	if !res.IsCall() {
		st.say(res.Message)
		return
	}

	var payload updatePayload
	if err := json.Unmarshal(res.Arguments, &payload); err != nil {
		o.logger.Warn("malformed update arguments", "error", err)
		st.say(msgGenericError)
		return
	}

	candidates := o.resolveRange(ctx, st.in.OwnerID,
		payload.EventArguments.StartDate, payload.EventArguments.EndDate)
	if len(candidates) == 0 {
		st.say(msgUpdateEmptyRange)
		return
	}

	filtered, err := o.filterCandidates(ctx, st, candidates)
	if err != nil {
		o.logger.Error("disambiguation failed", "branch", "update", "error", err)
		st.say(msgGenericError)
		return
	}
	if len(filtered) == 0 {
		st.say(msgUpdateNoneMatch)
		return
	}

	upd, err := payload.UpdateArguments.toEventUpdate()
	if err != nil {
		o.logger.Warn("unparseable update start date", "error", err)
		st.say(msgGenericError)
		return
	}

	st.result.Events = filtered
	st.result.UpdateArguments = &upd

	if upd.ChangesStart() {
		duration := 0
		if upd.Duration != nil {
			duration = *upd.Duration
		}
		end := upd.StartDate.Add(time.Duration(duration) * time.Minute)

		excludeID := ""
		if len(filtered) == 1 {
			excludeID = filtered[0].ID
		}
		conflict, err := o.checkConflict(ctx, st.in.OwnerID, *upd.StartDate, end, excludeID)
		if err != nil {
			o.logger.Error("update conflict check failed", "owner_id", st.in.OwnerID, "error", err)
			st.say(msgGenericError)
			return
		}
		st.result.ConflictEvent = conflict
	}

	st.succeed()
	st.say(msgUpdateFound)
}
