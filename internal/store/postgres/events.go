package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/calenhq/calen/internal/calendar"
)

const eventColumns = "id, owner_id, title, start_date, end_date, location, created_at"

// Events is the pgx-backed EventStore.
type Events struct {
	db     *DB
	logger *slog.Logger
}

// NewEvents creates the postgres event store.
func NewEvents(db *DB, logger *slog.Logger) *Events {
	return &Events{db: db, logger: logger}
}

func scanEvent(row pgx.Row) (calendar.Event, error) {
	var (
		ev       calendar.Event
		endDate  *time.Time
		location *string
	)
	if err := row.Scan(&ev.ID, &ev.OwnerID, &ev.Title, &ev.StartDate, &endDate, &location, &ev.CreatedAt); err != nil {
		return calendar.Event{}, err
	}
	ev.EndDate = endDate
	if location != nil {
		ev.Location = *location
	}
	return ev, nil
}

func scanEvents(rows pgx.Rows) ([]calendar.Event, error) {
	defer rows.Close()
	var events []calendar.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (e *Events) Create(ctx context.Context, args calendar.EventCreate) (calendar.Event, error) {
	var endDate *time.Time
	if args.Duration > 0 {
		end := args.StartDate.Add(time.Duration(args.Duration) * time.Minute)
		endDate = &end
	} else if args.EndDate != nil {
		endDate = args.EndDate
	}

	id := uuid.New().String()
	row := e.db.Pool.QueryRow(ctx,
		`INSERT INTO events (id, owner_id, title, start_date, end_date, location)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+eventColumns,
		id, args.OwnerID, args.Title, args.StartDate, endDate, nullable(args.Location))

	ev, err := scanEvent(row)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("create event: %w", err)
	}
	e.logger.Info("created event", "event_id", ev.ID, "owner_id", ev.OwnerID)
	return ev, nil
}

func (e *Events) GetByID(ctx context.Context, eventID string) (calendar.Event, error) {
	row := e.db.Pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return calendar.Event{}, calendar.ErrNotFound
	}
	if err != nil {
		return calendar.Event{}, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return ev, nil
}

func (e *Events) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]calendar.Event, error) {
	sql := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = $1 ORDER BY start_date DESC`
	args := []any{ownerID}
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := e.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return scanEvents(rows)
}

func (e *Events) ListByRange(ctx context.Context, ownerID string, start, end *time.Time) ([]calendar.Event, error) {
	rows, err := e.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE owner_id = $1
		   AND ($2::timestamptz IS NULL OR start_date >= $2)
		   AND ($3::timestamptz IS NULL OR start_date <= $3)
		 ORDER BY start_date ASC`,
		ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list events by range: %w", err)
	}
	return scanEvents(rows)
}

func (e *Events) Update(ctx context.Context, eventID, ownerID string, upd calendar.EventUpdate) (calendar.Event, error) {
	tx, err := e.db.Pool.Begin(ctx)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID)
	current, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return calendar.Event{}, calendar.ErrNotFound
	}
	if err != nil {
		return calendar.Event{}, fmt.Errorf("load event %s: %w", eventID, err)
	}
	if current.OwnerID != ownerID {
		e.logger.Warn("owner mismatch on update", "event_id", eventID, "owner_id", ownerID)
		return calendar.Event{}, calendar.ErrPermissionDenied
	}

	next := applyUpdate(current, upd)

	row = tx.QueryRow(ctx,
		`UPDATE events SET title = $2, start_date = $3, end_date = $4, location = $5
		 WHERE id = $1
		 RETURNING `+eventColumns,
		eventID, next.Title, next.StartDate, next.EndDate, nullable(next.Location))
	updated, err := scanEvent(row)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("update event %s: %w", eventID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return calendar.Event{}, fmt.Errorf("commit update: %w", err)
	}

	e.logger.Info("updated event", "event_id", eventID, "owner_id", ownerID)
	return updated, nil
}

// applyUpdate resolves the partial replacement against the stored event.
// Duration and start-date changes recompute the end date; a zero duration
// clears it.
func applyUpdate(current calendar.Event, upd calendar.EventUpdate) calendar.Event {
	next := current
	if upd.Title != nil {
		next.Title = *upd.Title
	}
	if upd.StartDate != nil {
		next.StartDate = *upd.StartDate
	}
	if upd.Location != nil {
		next.Location = *upd.Location
	}

	switch {
	case upd.Duration != nil && *upd.Duration > 0:
		end := next.StartDate.Add(time.Duration(*upd.Duration) * time.Minute)
		next.EndDate = &end
	case upd.Duration != nil:
		next.EndDate = nil
	case upd.EndDate != nil:
		next.EndDate = upd.EndDate
	case upd.StartDate != nil && current.EndDate != nil:
		// Start moved without a new duration: keep the old length.
		end := next.StartDate.Add(time.Duration(current.Duration()) * time.Minute)
		next.EndDate = &end
	}
	return next
}

func (e *Events) Delete(ctx context.Context, eventID, ownerID string) (bool, error) {
	tag, err := e.db.Pool.Exec(ctx,
		`DELETE FROM events WHERE id = $1 AND owner_id = $2`, eventID, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete event %s: %w", eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	e.logger.Info("deleted event", "event_id", eventID, "owner_id", ownerID)
	return true, nil
}

func (e *Events) DeleteMany(ctx context.Context, eventIDs []string, ownerID string) (bool, error) {
	if len(eventIDs) == 0 {
		return false, nil
	}

	tx, err := e.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin bulk delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var owned int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM events WHERE id = ANY($1) AND owner_id = $2`,
		eventIDs, ownerID).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("bulk delete ownership check: %w", err)
	}
	if owned != len(eventIDs) {
		// All-or-nothing: at least one id is unknown or not ours.
		e.logger.Warn("bulk delete rejected",
			"owner_id", ownerID, "requested", len(eventIDs), "owned", owned)
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM events WHERE id = ANY($1) AND owner_id = $2`,
		eventIDs, ownerID); err != nil {
		return false, fmt.Errorf("bulk delete: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit bulk delete: %w", err)
	}

	e.logger.Info("bulk deleted events", "owner_id", ownerID, "count", len(eventIDs))
	return true, nil
}

func (e *Events) CheckConflict(ctx context.Context, ownerID string, start, end time.Time, excludeEventID string) (*calendar.Event, error) {
	row := e.db.Pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE owner_id = $1
		   AND end_date IS NOT NULL
		   AND ((start_date < $3 AND end_date > $2)
		     OR (start_date = $2 AND end_date = $3))
		   AND ($4::uuid IS NULL OR id <> $4::uuid)
		 ORDER BY start_date ASC
		 LIMIT 1`,
		ownerID, start, end, nullable(excludeEventID))

	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	return &ev, nil
}

func (e *Events) Search(ctx context.Context, ownerID, query string) ([]calendar.Event, error) {
	rows, err := e.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE owner_id = $1 AND (title ILIKE $2 OR location ILIKE $2)
		 ORDER BY start_date DESC`,
		ownerID, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return scanEvents(rows)
}

func (e *Events) Count(ctx context.Context, ownerID string) (int, error) {
	var count int
	if err := e.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM events WHERE owner_id = $1`, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
