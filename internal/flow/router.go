package flow

import (
	"context"
	"encoding/json"
	"strings"
)

// routeDecision is the classifier's outcome: a valid route, or a terminal
// message when the turn cannot (or should not) be routed.
type routeDecision struct {
	Route   Route
	Message string
}

// classify maps the conversation to one of the four event operations. Three
// output shapes are legal: {"route": ...}, {"message": ...} and a bare JSON
// string holding a conversational reply. Unparseable output is not a fatal
// error — it degrades to a clarification message ending the turn.
func (o *Orchestrator) classify(ctx context.Context, st *turnState) routeDecision {
	out, err := o.invokeAgent(ctx, "router", routerPrompt, st, o.primaryPolicy)
	if err != nil {
		o.logger.Error("intent classification failed", "error", err)
		return routeDecision{Message: msgGenericError}
	}
	return decodeRoute(out)
}

func decodeRoute(raw string) routeDecision {
	raw = strings.TrimSpace(raw)

	var probe struct {
		Route   Route  `json:"route"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err == nil {
		if validRoute(probe.Route) {
			return routeDecision{Route: probe.Route}
		}
		if probe.Message != "" {
			return routeDecision{Message: probe.Message}
		}
		return routeDecision{Message: msgGenericError}
	}

	// A bare JSON string is the assistant making conversation.
	var reply string
	if err := json.Unmarshal([]byte(raw), &reply); err == nil && reply != "" {
		return routeDecision{Message: reply}
	}

	return routeDecision{Message: msgGenericError}
}
