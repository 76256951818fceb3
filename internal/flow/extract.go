package flow

import (
	"context"
	"fmt"
	"text/template"

	"github.com/calenhq/calen/internal/llm"
)

// withSystem installs instructions as the leading system message, replacing
// any prior one. The instruction is always fresh per turn, never
// accumulated.
func withSystem(messages []llm.Message, instructions string) []llm.Message {
	if len(messages) > 0 && messages[0].Role == llm.RoleSystem {
		out := make([]llm.Message, len(messages))
		copy(out, messages)
		out[0] = llm.System(instructions)
		return out
	}
	out := make([]llm.Message, 0, len(messages)+1)
	out = append(out, llm.System(instructions))
	out = append(out, messages...)
	return out
}

// invokeAgent renders the agent's instruction template with the temporal
// context, installs it as the system message and calls the model under the
// given retry policy. The returned string is raw, untrusted model output.
func (o *Orchestrator) invokeAgent(ctx context.Context, name string, tmpl *template.Template, st *turnState, policy llm.RetryPolicy) (string, error) {
	instructions, err := renderTemporal(tmpl, st.in.Temporal)
	if err != nil {
		return "", fmt.Errorf("render %s instructions: %w", name, err)
	}
	st.messages = withSystem(st.messages, instructions)

	out, err := llm.WithRetry(o.model, policy, o.logger).Complete(ctx, st.messages)
	if err != nil {
		return "", fmt.Errorf("%s call: %w", name, err)
	}
	return out, nil
}

// extractWindow runs one of the date-window extraction variants
// (list/delete/update). Any failure, including malformed model output,
// collapses to a message-shaped result; errors never propagate past this
// stage.
func (o *Orchestrator) extractWindow(ctx context.Context, name string, tmpl *template.Template, st *turnState) ExtractionResult {
	out, err := o.invokeAgent(ctx, name, tmpl, st, o.primaryPolicy)
	if err != nil {
		o.logger.Error("extraction failed", "agent", name, "error", err)
		return Clarification(msgGenericError)
	}
	return decodeExtraction(out, msgGenericError)
}
