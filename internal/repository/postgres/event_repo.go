package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventapp/internal/domain"
)

const eventColumns = "id, name, description, date_of_event, place, max_participants, current_participants, image_url, category_id, created_at, updated_at"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date_of_event, place, max_participants, current_participants, image_url, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		e.Name, e.Description, e.DateOfEvent, e.Place, e.MaxParticipants, e.CurrentParticipants,
		e.ImageURL, e.CategoryID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEventRow(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByName(ctx context.Context, name string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE name = $1`
	return scanEventRow(dbtx(ctx, r.DB).QueryRowContext(ctx, query, name))
}

func scanEventRow(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var imageURL sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.DateOfEvent, &e.Place,
		&e.MaxParticipants, &e.CurrentParticipants, &imageURL, &e.CategoryID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageURL.Valid {
		e.ImageURL = imageURL.String
	}
	return e, nil
}

// buildEventFilter renders the WHERE clause for a filter. Clauses are
// combined with AND; placeholder numbering starts at 1.
func buildEventFilter(filter domain.EventFilter) (string, []any) {
	var clauses []string
	var args []any
	n := 1
	if filter.DateFrom != nil {
		clauses = append(clauses, fmt.Sprintf("date_of_event >= $%d", n))
		args = append(args, *filter.DateFrom)
		n++
	}
	if filter.DateTo != nil {
		clauses = append(clauses, fmt.Sprintf("date_of_event <= $%d", n))
		args = append(args, *filter.DateTo)
		n++
	}
	if filter.Place != "" {
		clauses = append(clauses, fmt.Sprintf("place ILIKE $%d", n))
		args = append(args, "%"+filter.Place+"%")
		n++
	}
	if filter.CategoryID != "" {
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", n))
		args = append(args, filter.CategoryID)
		n++
	}
	if filter.NameContains != "" {
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", n))
		args = append(args, "%"+filter.NameContains+"%")
		n++
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func eventOrderClause(sort domain.EventSort) string {
	col := "date_of_event"
	switch sort.By {
	case domain.EventSortByName:
		col = "name"
	case domain.EventSortByPlace:
		col = "place"
	case domain.EventSortByCategory:
		col = "category_id"
	case domain.EventSortByDate:
		col = "date_of_event"
	}
	dir := "ASC"
	if sort.Order == domain.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, sort domain.EventSort, p domain.PaginationParams) ([]*domain.Event, error) {
	where, args := buildEventFilter(filter)
	query := `SELECT ` + eventColumns + ` FROM events` + where + eventOrderClause(sort)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, p.PageSize, p.Offset())

	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var imageURL sql.NullString
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.DateOfEvent, &e.Place,
			&e.MaxParticipants, &e.CurrentParticipants, &imageURL, &e.CategoryID,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			e.ImageURL = imageURL.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	where, args := buildEventFilter(filter)
	var count int
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&count)
	return count, err
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(col string, v any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, v)
		n++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.DateOfEvent != nil {
		add("date_of_event", *upd.DateOfEvent)
	}
	if upd.Place != nil {
		add("place", *upd.Place)
	}
	if upd.MaxParticipants != nil {
		add("max_participants", *upd.MaxParticipants)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns,
		strings.Join(setClauses, ", "), n)
	e, err := scanEventRow(dbtx(ctx, r.DB).QueryRowContext(ctx, query, args...))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := dbtx(ctx, r.DB).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementParticipants adds one participant atomically. The WHERE guard
// makes the capacity check and the write a single statement, so concurrent
// registrations for the last slot cannot overbook the event.
func (r *eventRepository) IncrementParticipants(ctx context.Context, id string) error {
	query := `
		UPDATE events
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id = $1 AND current_participants < max_participants
	`
	result, err := dbtx(ctx, r.DB).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventFull
	}
	return nil
}

// DecrementParticipants removes one participant, flooring the counter at 0.
func (r *eventRepository) DecrementParticipants(ctx context.Context, id string) error {
	query := `
		UPDATE events
		SET current_participants = GREATEST(current_participants - 1, 0), updated_at = NOW()
		WHERE id = $1
	`
	result, err := dbtx(ctx, r.DB).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
