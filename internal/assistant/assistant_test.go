package assistant

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calenhq/calen/internal/calendar"
	"github.com/calenhq/calen/internal/flow"
	"github.com/calenhq/calen/internal/llm"
	"github.com/calenhq/calen/internal/session"
	"github.com/calenhq/calen/internal/store/memory"
)

const owner = "user-1"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedModel replays canned completions in order.
type scriptedModel struct {
	responses []string
	calls     int
	seen      [][]llm.Message
}

func (m *scriptedModel) Complete(_ context.Context, messages []llm.Message) (string, error) {
	if m.calls >= len(m.responses) {
		return "", fmt.Errorf("unexpected model call %d", m.calls+1)
	}
	m.seen = append(m.seen, messages)
	out := m.responses[m.calls]
	m.calls++
	return out, nil
}

type staticTranscriber struct {
	text string
	err  error
}

func (t staticTranscriber) Transcribe(context.Context, []byte) (string, error) {
	return t.text, t.err
}

func newService(t *testing.T, st *memory.Store, model llm.Completer, opts ...Option) *Service {
	t.Helper()
	logger := testLogger()
	return New(st, flow.New(st, model, logger), logger, opts...)
}

func turnInput(text string) flow.TurnInput {
	return flow.TurnInput{
		OwnerID: owner,
		Text:    text,
		Temporal: flow.TemporalContext{
			CurrentDatetime: "2026-08-31T12:00:00+03:00",
			Weekday:         "Monday",
			DaysInMonth:     31,
		},
	}
}

func TestProcessRunsTurn(t *testing.T) {
	st := memory.New()
	model := &scriptedModel{responses: []string{
		`{"route": "create"}`,
		`[{"arguments": {"title": "Toplantı", "startDate": "2026-09-01T10:00:00+03:00", "duration": 30}}]`,
	}}
	svc := newService(t, st, model)

	result, err := svc.Process(context.Background(), turnInput("yarın toplantı ekle"))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Created, 1)
}

func TestProcessPersistsSessionHistory(t *testing.T) {
	st := memory.New()
	sessions := session.NewMemory()
	model := &scriptedModel{responses: []string{
		`"Merhaba! Size nasıl yardımcı olabilirim?"`,
		`"Elbette, hangi gün?"`,
	}}
	svc := newService(t, st, model, WithSessions(sessions))
	ctx := context.Background()

	_, err := svc.Process(ctx, turnInput("merhaba"))
	require.NoError(t, err)

	history, err := sessions.History(ctx, owner)
	require.NoError(t, err)
	require.NotEmpty(t, history)

	// The second turn sees the first exchange.
	_, err = svc.Process(ctx, turnInput("bir etkinlik lazım"))
	require.NoError(t, err)
	require.Equal(t, 2, model.calls)

	second := model.seen[1]
	var sawFirstUtterance bool
	for _, m := range second {
		if m.Role == llm.RoleUser && m.Content == "merhaba" {
			sawFirstUtterance = true
		}
	}
	require.True(t, sawFirstUtterance)
}

func TestProcessAudioTranscribesFirst(t *testing.T) {
	st := memory.New()
	model := &scriptedModel{responses: []string{`"Merhaba!"`}}
	svc := newService(t, st, model, WithTranscriber(staticTranscriber{text: "merhaba"}))

	result, err := svc.ProcessAudio(context.Background(), owner, []byte{0x01}, flow.TemporalContext{
		CurrentDatetime: "2026-08-31T12:00:00+03:00", Weekday: "Monday", DaysInMonth: 31,
	})
	require.NoError(t, err)
	require.Equal(t, "Merhaba!", result.Message)

	userTurn := model.seen[0][len(model.seen[0])-1]
	require.Equal(t, "merhaba", userTurn.Content)
}

func TestProcessAudioFailures(t *testing.T) {
	st := memory.New()

	t.Run("no transcriber", func(t *testing.T) {
		svc := newService(t, st, &scriptedModel{})
		_, err := svc.ProcessAudio(context.Background(), owner, []byte{0x01}, flow.TemporalContext{})
		require.Error(t, err)
	})

	t.Run("transcriber error", func(t *testing.T) {
		svc := newService(t, st, &scriptedModel{},
			WithTranscriber(staticTranscriber{err: fmt.Errorf("whisper died")}))
		_, err := svc.ProcessAudio(context.Background(), owner, []byte{0x01}, flow.TemporalContext{})
		require.ErrorContains(t, err, "transcribe")
	})

	t.Run("empty transcript", func(t *testing.T) {
		svc := newService(t, st, &scriptedModel{}, WithTranscriber(staticTranscriber{}))
		_, err := svc.ProcessAudio(context.Background(), owner, []byte{0x01}, flow.TemporalContext{})
		require.Error(t, err)
	})
}

func TestApplyUpdate(t *testing.T) {
	st := memory.New()
	svc := newService(t, st, &scriptedModel{})
	ctx := context.Background()

	ev, err := st.Create(ctx, calendar.EventCreate{
		Title:     "Toplantı",
		StartDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration:  60,
		OwnerID:   owner,
	})
	require.NoError(t, err)

	title := "Sprint planlama"
	updated, err := svc.ApplyUpdate(ctx, owner, ev.ID, calendar.EventUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Sprint planlama", updated.Title)

	_, err = svc.ApplyUpdate(ctx, owner, ev.ID, calendar.EventUpdate{})
	require.Error(t, err, "empty update is rejected before reaching the store")

	_, err = svc.ApplyUpdate(ctx, "other", ev.ID, calendar.EventUpdate{Title: &title})
	require.ErrorIs(t, err, calendar.ErrPermissionDenied)
}

func TestDeleteEvents(t *testing.T) {
	st := memory.New()
	svc := newService(t, st, &scriptedModel{})
	ctx := context.Background()

	a, err := st.Create(ctx, calendar.EventCreate{
		Title: "A", StartDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), OwnerID: owner,
	})
	require.NoError(t, err)
	b, err := st.Create(ctx, calendar.EventCreate{
		Title: "B", StartDate: time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC), OwnerID: owner,
	})
	require.NoError(t, err)

	ok, err := svc.DeleteEvents(ctx, owner, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.True(t, ok)

	n, err := svc.Count(ctx, owner)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestEventEnforcesOwnership(t *testing.T) {
	st := memory.New()
	svc := newService(t, st, &scriptedModel{})
	ctx := context.Background()

	ev, err := st.Create(ctx, calendar.EventCreate{
		Title: "A", StartDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), OwnerID: owner,
	})
	require.NoError(t, err)

	got, err := svc.Event(ctx, owner, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ev.ID, got.ID)

	_, err = svc.Event(ctx, "other", ev.ID)
	require.ErrorIs(t, err, calendar.ErrPermissionDenied)
}

func TestExportICS(t *testing.T) {
	st := memory.New()
	svc := newService(t, st, &scriptedModel{})
	ctx := context.Background()

	_, err := st.Create(ctx, calendar.EventCreate{
		Title:     "Toplantı",
		StartDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration:  30,
		OwnerID:   owner,
	})
	require.NoError(t, err)

	doc, err := svc.ExportICS(ctx, owner)
	require.NoError(t, err)
	require.Contains(t, doc, "BEGIN:VEVENT")
	require.Contains(t, doc, "SUMMARY:Toplantı")
}
