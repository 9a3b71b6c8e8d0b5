package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventapp/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &registrationRepository{DB: db}
}

// Create inserts a registration. The ID is generated client-side when unset.
// A unique index on (user_id, event_id) backs the one-registration-per-user
// invariant; violations surface as ErrAlreadyRegistered.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	query := `
		INSERT INTO event_registrations (id, user_id, event_id, registered_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := dbtx(ctx, r.DB).ExecContext(ctx, query, reg.ID, reg.UserID, reg.EventID, reg.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.EventRegistration, error) {
	query := `
		SELECT id, user_id, event_id, registered_at
		FROM event_registrations
		WHERE id = $1
	`
	return scanRegistration(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	query := `
		SELECT id, user_id, event_id, registered_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2
	`
	return scanRegistration(dbtx(ctx, r.DB).QueryRowContext(ctx, query, eventID, userID))
}

func scanRegistration(row *sql.Row) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListParticipantsByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `
		SELECT r.id, r.user_id, u.first_name, u.last_name, u.email, r.registered_at
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC
	`
	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.RegistrationID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.RegisteredAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	result, err := dbtx(ctx, r.DB).ExecContext(ctx, `DELETE FROM event_registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
