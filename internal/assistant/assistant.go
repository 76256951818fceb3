// Package assistant is the service facade over the conversational
// pipeline: it wires session history, the flow orchestrator, the audit
// trail and the confirmation-step mutations into one API.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calenhq/calen/internal/auditlog"
	"github.com/calenhq/calen/internal/calendar"
	"github.com/calenhq/calen/internal/flow"
	"github.com/calenhq/calen/internal/ics"
	"github.com/calenhq/calen/internal/session"
	"github.com/calenhq/calen/internal/store"
	"github.com/calenhq/calen/internal/transcribe"
)

// Service processes turns and serves the follow-up operations issued after
// the user confirms a proposed action.
type Service struct {
	store       store.EventStore
	orch        *flow.Orchestrator
	sessions    session.Store
	transcriber transcribe.Transcriber
	audit       *auditlog.Log
	logger      *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithSessions enables multi-turn conversation history.
func WithSessions(s session.Store) Option {
	return func(svc *Service) { svc.sessions = s }
}

// WithTranscriber enables audio turns.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(svc *Service) { svc.transcriber = t }
}

// WithAuditLog records every processed turn.
func WithAuditLog(l *auditlog.Log) Option {
	return func(svc *Service) { svc.audit = l }
}

// New creates the assistant service.
func New(st store.EventStore, orch *flow.Orchestrator, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{store: st, orch: orch, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Process runs one text turn through the pipeline. Pipeline-stage failures
// are not errors: they terminate in the result's message. Only
// infrastructure failures around the pipeline (session store) surface here.
func (s *Service) Process(ctx context.Context, in flow.TurnInput) (flow.TurnResult, error) {
	turnID := uuid.New().String()

	if s.sessions != nil && len(in.History) == 0 {
		history, err := s.sessions.History(ctx, in.OwnerID)
		if err != nil {
			return flow.TurnResult{}, fmt.Errorf("load session: %w", err)
		}
		in.History = history
	}

	s.logger.Info("processing turn", "turn_id", turnID, "owner_id", in.OwnerID)
	result, messages := s.orch.Run(ctx, in)

	if s.sessions != nil {
		if err := s.sessions.Replace(ctx, in.OwnerID, messages); err != nil {
			s.logger.Warn("session persist failed", "turn_id", turnID, "error", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.WriteTurn(turnID, in, result); err != nil {
			s.logger.Warn("audit append failed", "turn_id", turnID, "error", err)
		}
	}

	s.logger.Info("turn finished",
		"turn_id", turnID, "route", result.Route, "success", result.Success)
	return result, nil
}

// ProcessAudio transcribes the audio and runs the transcript as a turn.
func (s *Service) ProcessAudio(ctx context.Context, ownerID string, audio []byte, tc flow.TemporalContext) (flow.TurnResult, error) {
	if s.transcriber == nil {
		return flow.TurnResult{}, fmt.Errorf("no transcriber configured")
	}
	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return flow.TurnResult{}, fmt.Errorf("transcribe: %w", err)
	}
	if text == "" {
		return flow.TurnResult{}, fmt.Errorf("transcription was empty")
	}
	return s.Process(ctx, flow.TurnInput{OwnerID: ownerID, Text: text, Temporal: tc})
}

// ApplyUpdate performs the update the user confirmed for one proposed
// target.
func (s *Service) ApplyUpdate(ctx context.Context, ownerID, eventID string, upd calendar.EventUpdate) (calendar.Event, error) {
	if upd.IsZero() {
		return calendar.Event{}, fmt.Errorf("update carries no changes")
	}
	return s.store.Update(ctx, eventID, ownerID, upd)
}

// DeleteEvents performs the all-or-nothing bulk delete the user confirmed.
func (s *Service) DeleteEvents(ctx context.Context, ownerID string, eventIDs []string) (bool, error) {
	return s.store.DeleteMany(ctx, eventIDs, ownerID)
}

// Event returns one owned event.
func (s *Service) Event(ctx context.Context, ownerID, eventID string) (calendar.Event, error) {
	ev, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return calendar.Event{}, err
	}
	if ev.OwnerID != ownerID {
		return calendar.Event{}, calendar.ErrPermissionDenied
	}
	return ev, nil
}

// Events pages through the owner's events, newest first.
func (s *Service) Events(ctx context.Context, ownerID string, limit, offset int) ([]calendar.Event, error) {
	return s.store.ListByOwner(ctx, ownerID, limit, offset)
}

// Search finds owned events by title or location keyword.
func (s *Service) Search(ctx context.Context, ownerID, query string) ([]calendar.Event, error) {
	return s.store.Search(ctx, ownerID, query)
}

// Count returns how many events the owner has.
func (s *Service) Count(ctx context.Context, ownerID string) (int, error) {
	return s.store.Count(ctx, ownerID)
}

// ExportICS renders all owned events as an iCalendar document.
func (s *Service) ExportICS(ctx context.Context, ownerID string) (string, error) {
	events, err := s.store.ListByOwner(ctx, ownerID, 0, 0)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}
	return ics.Export(events)
}
