// Package flow implements the conversational intent-routing and
// event-resolution pipeline: a directed state machine that chains model
// calls with retrieval and validation steps for one user turn.
package flow

import (
	"time"

	"github.com/calenhq/calen/internal/calendar"
	"github.com/calenhq/calen/internal/llm"
)

// Route is the classified high-level intent of a turn.
type Route string

const (
	RouteCreate Route = "create"
	RouteUpdate Route = "update"
	RouteDelete Route = "delete"
	RouteList   Route = "list"
)

func validRoute(r Route) bool {
	switch r {
	case RouteCreate, RouteUpdate, RouteDelete, RouteList:
		return true
	}
	return false
}

// TemporalContext is the caller-resolved view of "now". The core never
// computes calendar arithmetic itself; relative-date resolution is delegated
// to the model via these prompt variables.
type TemporalContext struct {
	CurrentDatetime string
	Weekday         string
	DaysInMonth     int
}

// TurnInput is one user utterance plus everything needed to process it.
type TurnInput struct {
	OwnerID  string
	Text     string
	Temporal TemporalContext

	// History carries prior conversation turns when a session store is
	// layered on. The pipeline itself is stateless per turn.
	History []llm.Message
}

// TurnResult is the terminal shape of a turn. Success distinguishes a DONE
// terminal (structured payload present) from a MESSAGE terminal; it is
// monotonic and only ever set, never cleared.
type TurnResult struct {
	Route   Route  `json:"route,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Events holds the filtered candidates for list/delete/update turns.
	Events []calendar.Event `json:"events,omitempty"`

	// CreateArgs and Created belong to create turns: the extracted
	// arguments and the events actually persisted.
	CreateArgs []calendar.EventCreate `json:"createArgs,omitempty"`
	Created    []calendar.Event       `json:"created,omitempty"`

	// ConflictEvents holds events colliding with proposed create windows.
	ConflictEvents []calendar.Event `json:"conflictEvents,omitempty"`

	// UpdateArguments and ConflictEvent belong to update turns.
	UpdateArguments *calendar.EventUpdate `json:"updateArguments,omitempty"`
	ConflictEvent   *calendar.Event       `json:"conflictEvent,omitempty"`
}

// turnState threads the accumulating intermediate results through the
// pipeline stages. Each stage is the single writer of its own fields.
type turnState struct {
	in       TurnInput
	messages []llm.Message
	result   TurnResult
}

func newTurnState(in TurnInput) *turnState {
	msgs := make([]llm.Message, 0, len(in.History)+1)
	msgs = append(msgs, in.History...)
	msgs = append(msgs, llm.User(in.Text))
	return &turnState{in: in, messages: msgs}
}

// succeed marks the turn successful. There is deliberately no counterpart
// to clear the flag.
func (st *turnState) succeed() { st.result.Success = true }

// say appends the assistant's terminal utterance for this turn.
func (st *turnState) say(message string) {
	st.result.Message = message
	st.messages = append(st.messages, llm.Assistant(message))
}

// Messages returns the conversation including this turn's exchange, for
// callers that persist session history.
func (st *turnState) Messages() []llm.Message { return st.messages }

// parseISO parses the ISO-8601-with-offset timestamps used on the model
// contract and in store payloads.
func parseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
