package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calenhq/calen/internal/calendar"
)

const owner = "user-1"

func ts(day, hour int) time.Time {
	return time.Date(2026, 9, day, hour, 0, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, s *Store, title string, start time.Time, duration int) calendar.Event {
	t.Helper()
	ev, err := s.Create(context.Background(), calendar.EventCreate{
		Title:     title,
		StartDate: start,
		Duration:  duration,
		OwnerID:   owner,
	})
	require.NoError(t, err)
	return ev
}

func TestCreateComputesEndFromDuration(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 90)

	require.NotEmpty(t, ev.ID)
	require.NotNil(t, ev.EndDate)
	require.Equal(t, ts(1, 10).Add(90*time.Minute), *ev.EndDate)
	require.Equal(t, 90, ev.Duration())
}

func TestCreateWithExplicitEndDate(t *testing.T) {
	s := New()
	end := ts(1, 12)
	ev, err := s.Create(context.Background(), calendar.EventCreate{
		Title:     "Konferans",
		StartDate: ts(1, 10),
		EndDate:   &end,
		OwnerID:   owner,
	})
	require.NoError(t, err)
	require.NotNil(t, ev.EndDate)
	require.Equal(t, end, *ev.EndDate)
}

func TestCreateWithoutDurationHasNoEnd(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Hatırlatma", ts(1, 10), 0)
	require.Nil(t, ev.EndDate)
	require.Zero(t, ev.Duration())
}

func TestGetByID(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 30)

	got, err := s.GetByID(context.Background(), ev.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(ev, got); diff != "" {
		t.Errorf("stored event mismatch (-want +got):\n%s", diff)
	}

	_, err = s.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, calendar.ErrNotFound)
}

func TestListByOwnerOrdersNewestFirst(t *testing.T) {
	s := New()
	older := mustCreate(t, s, "A", ts(1, 10), 30)
	newer := mustCreate(t, s, "B", ts(5, 10), 30)

	// Another owner's event never leaks into the listing.
	_, err := s.Create(context.Background(), calendar.EventCreate{
		Title: "X", StartDate: ts(3, 10), OwnerID: "other",
	})
	require.NoError(t, err)

	events, err := s.ListByOwner(context.Background(), owner, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, newer.ID, events[0].ID)
	require.Equal(t, older.ID, events[1].ID)
}

func TestListByOwnerPagination(t *testing.T) {
	s := New()
	for day := 1; day <= 5; day++ {
		mustCreate(t, s, "E", ts(day, 10), 30)
	}

	page, err := s.ListByOwner(context.Background(), owner, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ts(4, 10), page[0].StartDate)
	require.Equal(t, ts(3, 10), page[1].StartDate)

	empty, err := s.ListByOwner(context.Background(), owner, 2, 10)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestListByRangeBoundsAreOptional(t *testing.T) {
	s := New()
	a := mustCreate(t, s, "A", ts(1, 10), 30)
	b := mustCreate(t, s, "B", ts(10, 10), 30)
	c := mustCreate(t, s, "C", ts(20, 10), 30)

	ctx := context.Background()

	all, err := s.ListByRange(ctx, owner, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, a.ID, all[0].ID, "ascending by start date")
	require.Equal(t, c.ID, all[2].ID)

	from := ts(5, 0)
	later, err := s.ListByRange(ctx, owner, &from, nil)
	require.NoError(t, err)
	require.Len(t, later, 2)
	require.Equal(t, b.ID, later[0].ID)

	to := ts(15, 0)
	window, err := s.ListByRange(ctx, owner, &from, &to)
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, b.ID, window[0].ID)
}

func TestUpdateFields(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 60)
	ctx := context.Background()

	title := "Sprint planlama"
	got, err := s.Update(ctx, ev.ID, owner, calendar.EventUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Sprint planlama", got.Title)
	require.Equal(t, 60, got.Duration(), "length untouched")
}

func TestUpdateMoveStartPreservesLength(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 60)

	newStart := ts(2, 14)
	got, err := s.Update(context.Background(), ev.ID, owner, calendar.EventUpdate{StartDate: &newStart})
	require.NoError(t, err)
	require.Equal(t, newStart, got.StartDate)
	require.NotNil(t, got.EndDate)
	require.Equal(t, 60, got.Duration())
}

func TestUpdateZeroDurationClearsEnd(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 60)

	zero := 0
	got, err := s.Update(context.Background(), ev.ID, owner, calendar.EventUpdate{Duration: &zero})
	require.NoError(t, err)
	require.Nil(t, got.EndDate)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 60)

	title := "X"
	_, err := s.Update(context.Background(), ev.ID, "other", calendar.EventUpdate{Title: &title})
	require.ErrorIs(t, err, calendar.ErrPermissionDenied)

	_, err = s.Update(context.Background(), "missing", owner, calendar.EventUpdate{Title: &title})
	require.ErrorIs(t, err, calendar.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 30)
	ctx := context.Background()

	ok, err := s.Delete(ctx, ev.ID, "other")
	require.NoError(t, err)
	require.False(t, ok, "wrong owner cannot delete")

	ok, err = s.Delete(ctx, ev.ID, owner)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Delete(ctx, ev.ID, owner)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteManyIsAllOrNothing(t *testing.T) {
	s := New()
	a := mustCreate(t, s, "A", ts(1, 10), 30)
	b := mustCreate(t, s, "B", ts(2, 10), 30)
	ctx := context.Background()

	ok, err := s.DeleteMany(ctx, []string{a.ID, "missing"}, owner)
	require.NoError(t, err)
	require.False(t, ok)

	count, err := s.Count(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 2, count, "nothing deleted when any id is unknown")

	ok, err = s.DeleteMany(ctx, []string{a.ID, b.ID}, owner)
	require.NoError(t, err)
	require.True(t, ok)

	count, err = s.Count(ctx, owner)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestDeleteManyEmptyInput(t *testing.T) {
	s := New()
	ok, err := s.DeleteMany(context.Background(), nil, owner)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckConflict(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 60) // 10:00 - 11:00
	ctx := context.Background()

	conflict, err := s.CheckConflict(ctx, owner, ts(1, 10).Add(30*time.Minute), ts(1, 11).Add(30*time.Minute), "")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	require.Equal(t, ev.ID, conflict.ID)

	conflict, err = s.CheckConflict(ctx, owner, ts(1, 11), ts(1, 12), "")
	require.NoError(t, err)
	require.Nil(t, conflict, "touching windows do not conflict")

	conflict, err = s.CheckConflict(ctx, "other", ts(1, 10), ts(1, 11), "")
	require.NoError(t, err)
	require.Nil(t, conflict, "conflicts are scoped per owner")
}

func TestCheckConflictExcludesEvent(t *testing.T) {
	s := New()
	ev := mustCreate(t, s, "Toplantı", ts(1, 10), 60)
	ctx := context.Background()

	conflict, err := s.CheckConflict(ctx, owner, ts(1, 10), ts(1, 11), ev.ID)
	require.NoError(t, err)
	require.Nil(t, conflict)
}

func TestCheckConflictReturnsEarliest(t *testing.T) {
	s := New()
	early := mustCreate(t, s, "A", ts(1, 9), 120)
	mustCreate(t, s, "B", ts(1, 10), 120)

	conflict, err := s.CheckConflict(context.Background(), owner, ts(1, 10), ts(1, 11), "")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	require.Equal(t, early.ID, conflict.ID)
}

func TestSearch(t *testing.T) {
	s := New()
	mustCreate(t, s, "Diş hekimi randevusu", ts(1, 10), 30)
	office, err := s.Create(context.Background(), calendar.EventCreate{
		Title: "Toplantı", StartDate: ts(2, 10), Duration: 30, Location: "Ofis", OwnerID: owner,
	})
	require.NoError(t, err)

	byTitle, err := s.Search(context.Background(), owner, "diş")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	byLocation, err := s.Search(context.Background(), owner, "ofis")
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	require.Equal(t, office.ID, byLocation[0].ID)

	none, err := s.Search(context.Background(), owner, "yoga")
	require.NoError(t, err)
	require.Empty(t, none)
}
