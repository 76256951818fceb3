package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/calenhq/calen/internal/llm"
	"github.com/calenhq/calen/internal/store"
)

const isoLayout = time.RFC3339

// Orchestrator wires the pipeline stages into one directed state machine
// per user turn:
//
//	route → create-extract → conflict-check → done|message
//	route → list-extract   → range-resolve → disambiguate → done|message
//	route → delete-extract → range-resolve → disambiguate → done|message
//	route → update-extract → range-resolve → disambiguate → conflict-check → done|message
//
// The four branches are mutually exclusive per turn; there is no parallel
// execution within a single turn.
type Orchestrator struct {
	store  store.EventStore
	model  llm.Completer
	logger *slog.Logger

	primaryPolicy llm.RetryPolicy
	filterPolicy  llm.RetryPolicy
}

// New creates an orchestrator over the given store and model.
func New(st store.EventStore, model llm.Completer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:         st,
		model:         model,
		logger:        logger,
		primaryPolicy: llm.DefaultRetryPolicy(),
		filterPolicy:  llm.FilterRetryPolicy(),
	}
}

func (o *Orchestrator) filterCompleter() llm.Completer {
	return llm.WithRetry(o.model, o.filterPolicy, o.logger)
}

// Run processes one turn end to end. The second return value is the
// conversation including this turn's exchange, for callers that persist
// session history. Stage-local failures never surface as errors: every
// terminal state yields a human-readable message.
func (o *Orchestrator) Run(ctx context.Context, in TurnInput) (TurnResult, []llm.Message) {
	st := newTurnState(in)

	decision := o.classify(ctx, st)
	if decision.Route == "" {
		st.say(decision.Message)
		return st.result, st.Messages()
	}
	st.result.Route = decision.Route
	o.logger.Info("turn routed", "owner_id", in.OwnerID, "route", decision.Route)

	switch decision.Route {
	case RouteCreate:
		o.runCreate(ctx, st)
	case RouteList:
		o.runWindowBranch(ctx, st, listBranch)
	case RouteDelete:
		o.runWindowBranch(ctx, st, deleteBranch)
	case RouteUpdate:
		o.runUpdate(ctx, st)
	}
	return st.result, st.Messages()
}
