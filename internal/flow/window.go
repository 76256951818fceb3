package flow

import (
	"context"
	"encoding/json"
	"text/template"
)

// windowArguments is the optional date window extracted for the
// list/delete/update branches.
type windowArguments struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// windowBranch parameterizes the shared list/delete pipeline shape:
// extract window → resolve range → disambiguate → terminal message.
type windowBranch struct {
	name       string
	tmpl       *template.Template
	emptyRange string
	noneMatch  string
	found      string
}

var (
	listBranch = windowBranch{
		name:       "list",
		tmpl:       listPrompt,
		emptyRange: msgListEmptyRange,
		noneMatch:  msgListNoneMatch,
		found:      msgListFound,
	}
	deleteBranch = windowBranch{
		name:       "delete",
		tmpl:       deletePrompt,
		emptyRange: msgDeleteEmptyRange,
		noneMatch:  msgDeleteNoneMatch,
		found:      msgDeleteFound,
	}
)

func (o *Orchestrator) runWindowBranch(ctx context.Context, st *turnState, b windowBranch) {
	res := o.extractWindow(ctx, b.name, b.tmpl, st)
	if !res.IsCall() {
		st.say(res.Message)
		return
	}

	var args windowArguments
	if err := json.Unmarshal(res.Arguments, &args); err != nil {
		o.logger.Warn("malformed window arguments", "branch", b.name, "error", err)
		st.say(msgGenericError)
		return
	}

	candidates := o.resolveRange(ctx, st.in.OwnerID, args.StartDate, args.EndDate)
	if len(candidates) == 0 {
		// Nothing to disambiguate; skip the filter call entirely.
		st.say(b.emptyRange)
		return
	}

	filtered, err := o.filterCandidates(ctx, st, candidates)
	if err != nil {
		o.logger.Error("disambiguation failed", "branch", b.name, "error", err)
		st.say(msgGenericError)
		return
	}
	if len(filtered) == 0 {
		st.say(b.noneMatch)
		return
	}

	st.result.Events = filtered
	st.succeed()
	st.say(b.found)
}
