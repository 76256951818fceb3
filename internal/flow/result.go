package flow

import (
	"encoding/json"
	"strings"
)

// ResultKind tags the two legal shapes of an extraction stage's output.
type ResultKind int

const (
	// KindMessage is the terminal shape: extraction failed, nothing to do,
	// or the user must clarify.
	KindMessage ResultKind = iota
	// KindCall carries a structured function call to the next pipeline
	// node.
	KindCall
)

// ExtractionResult is the inter-stage contract: either {function, arguments}
// or {message}. Every agent stage produces exactly one of the two.
type ExtractionResult struct {
	Kind      ResultKind
	Function  string
	Arguments json.RawMessage
	Message   string
}

// Call builds a successful structured extraction.
func Call(function string, arguments json.RawMessage) ExtractionResult {
	return ExtractionResult{Kind: KindCall, Function: function, Arguments: arguments}
}

// Clarification builds the message-shaped terminal result.
func Clarification(message string) ExtractionResult {
	return ExtractionResult{Kind: KindMessage, Message: message}
}

// IsCall reports the single recurring transition predicate of the state
// machine: a well-formed function call proceeds to the next node, anything
// else bails to the branch's message handler.
func (r ExtractionResult) IsCall() bool { return r.Kind == KindCall }

// decodeExtraction parses raw model output into an ExtractionResult.
// Malformed JSON is not an error: it collapses to a clarification carrying
// the fallback message. A {message} object keeps its own text.
func decodeExtraction(raw, fallback string) ExtractionResult {
	var probe struct {
		Function  string          `json:"function"`
		Arguments json.RawMessage `json:"arguments"`
		Message   string          `json:"message"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &probe); err != nil {
		return Clarification(fallback)
	}
	if probe.Function != "" && probe.Arguments != nil {
		return Call(probe.Function, probe.Arguments)
	}
	if probe.Message != "" {
		return Clarification(probe.Message)
	}
	return Clarification(fallback)
}
