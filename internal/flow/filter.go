package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/calenhq/calen/internal/calendar"
)

// filterCandidates narrows a coarse date-window candidate set to the events
// the user actually referenced, by re-presenting all candidates to the model
// together with the user's literal utterance. Matching happens only on
// explicitly mentioned fields (title keyword, location, duration); dates are
// already constrained by the window and are not re-filtered here.
//
// The result is always a subset of candidates: entries the model returns
// with an unknown id, and entries whose timestamps fail to parse, are
// silently dropped.
func (o *Orchestrator) filterCandidates(ctx context.Context, st *turnState, candidates []calendar.Event) ([]calendar.Event, error) {
	instructions, err := renderFilterInstructions(candidates)
	if err != nil {
		return nil, err
	}
	st.messages = withSystem(st.messages, instructions)

	out, err := o.filterCompleter().Complete(ctx, st.messages)
	if err != nil {
		return nil, fmt.Errorf("filter call: %w", err)
	}

	var entries []struct {
		ID        string `json:"id"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entries); err != nil {
		return nil, fmt.Errorf("filter output is not a JSON array: %w", err)
	}

	byID := make(map[string]calendar.Event, len(candidates))
	for _, ev := range candidates {
		byID[ev.ID] = ev
	}

	filtered := make([]calendar.Event, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		ev, ok := byID[entry.ID]
		if !ok || seen[entry.ID] {
			// The model may not invent events.
			continue
		}
		if entry.StartDate != "" {
			if _, err := parseISO(entry.StartDate); err != nil {
				continue
			}
		}
		if entry.EndDate != "" {
			if _, err := parseISO(entry.EndDate); err != nil {
				continue
			}
		}
		seen[entry.ID] = true
		filtered = append(filtered, ev)
	}
	return filtered, nil
}

// renderFilterInstructions serializes the candidates into the filter prompt.
func renderFilterInstructions(candidates []calendar.Event) (string, error) {
	type promptEvent struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate,omitempty"`
		Duration  int    `json:"duration,omitempty"`
		Location  string `json:"location,omitempty"`
	}

	entries := make([]promptEvent, 0, len(candidates))
	for _, ev := range candidates {
		entry := promptEvent{
			ID:        ev.ID,
			Title:     ev.Title,
			StartDate: ev.StartDate.Format(isoLayout),
			Duration:  ev.Duration(),
			Location:  ev.Location,
		}
		if ev.EndDate != nil {
			entry.EndDate = ev.EndDate.Format(isoLayout)
		}
		entries = append(entries, entry)
	}

	rendered, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render candidates: %w", err)
	}

	var b strings.Builder
	if err := filterPrompt.Execute(&b, struct{ Events string }{Events: string(rendered)}); err != nil {
		return "", fmt.Errorf("render filter instructions: %w", err)
	}
	return b.String(), nil
}
