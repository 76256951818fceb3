package flow

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/calenhq/calen/internal/calendar"
)

// createArguments is the model's per-event create contract.
type createArguments struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	Duration  int    `json:"duration"`
	Location  string `json:"location"`
}

// runCreate extracts one-or-many events, conflict-checks every proposed
// window and persists them only when the whole batch is conflict-free. A
// conflict reports the colliding event and creates nothing.
func (o *Orchestrator) runCreate(ctx context.Context, st *turnState) {
	creates, res := o.extractCreate(ctx, st)
	if !res.IsCall() {
		st.say(res.Message)
		return
	}
	st.result.CreateArgs = creates

	for _, args := range creates {
		conflict, err := o.checkConflict(ctx, st.in.OwnerID, args.StartDate, args.End(), "")
		if err != nil {
			o.logger.Error("create conflict check failed", "owner_id", st.in.OwnerID, "error", err)
			st.say(msgGenericError)
			return
		}
		if conflict != nil {
			st.result.ConflictEvents = append(st.result.ConflictEvents, *conflict)
		}
	}
	if len(st.result.ConflictEvents) > 0 {
		st.say(conflictMessage(st.result.ConflictEvents[0]))
		return
	}

	for _, args := range creates {
		created, err := o.store.Create(ctx, args)
		if err != nil {
			o.logger.Error("create failed", "owner_id", st.in.OwnerID, "error", err)
			st.say(msgGenericError)
			return
		}
		st.result.Created = append(st.result.Created, created)
	}

	st.succeed()
	st.say(createDoneMessage(len(st.result.Created)))
}

// extractCreate invokes the create agent and decodes its output: a JSON
// array of {"arguments": {...}} entries, or a lone call object, or a
// {message} clarification. Missing required fields are a clarification, not
// an error.
func (o *Orchestrator) extractCreate(ctx context.Context, st *turnState) ([]calendar.EventCreate, ExtractionResult) {
	out, err := o.invokeAgent(ctx, "create", createPrompt, st, o.primaryPolicy)
	if err != nil {
		o.logger.Error("extraction failed", "agent", "create", "error", err)
		return nil, Clarification(msgGenericError)
	}
	out = strings.TrimSpace(out)

	var calls []struct {
		Arguments createArguments `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(out), &calls); err == nil {
		if len(calls) == 0 {
			return nil, Clarification(msgCreateNotUnderstood)
		}
		creates := make([]calendar.EventCreate, 0, len(calls))
		for _, call := range calls {
			args, ok := o.buildCreate(st.in.OwnerID, call.Arguments)
			if !ok {
				return nil, Clarification(msgCreateNotUnderstood)
			}
			creates = append(creates, args)
		}
		return creates, Call("create_event", nil)
	}

	// Tolerate a single function-call object or a clarification message.
	res := decodeExtraction(out, msgCreateNotUnderstood)
	if !res.IsCall() {
		return nil, res
	}
	var single createArguments
	if err := json.Unmarshal(res.Arguments, &single); err != nil {
		return nil, Clarification(msgCreateNotUnderstood)
	}
	args, ok := o.buildCreate(st.in.OwnerID, single)
	if !ok {
		return nil, Clarification(msgCreateNotUnderstood)
	}
	return []calendar.EventCreate{args}, Call("create_event", nil)
}

func (o *Orchestrator) buildCreate(ownerID string, args createArguments) (calendar.EventCreate, bool) {
	if args.Title == "" || args.StartDate == "" || args.Duration < 0 {
		return calendar.EventCreate{}, false
	}
	start, err := parseISO(args.StartDate)
	if err != nil {
		o.logger.Warn("unparseable create start date", "value", args.StartDate, "error", err)
		return calendar.EventCreate{}, false
	}
	return calendar.EventCreate{
		Title:     args.Title,
		StartDate: start,
		Duration:  args.Duration,
		Location:  args.Location,
		OwnerID:   ownerID,
	}, true
}
