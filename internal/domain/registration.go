package domain

import (
	"context"
	"time"
)

// EventRegistration represents a user's registration for an event.
// The (UserID, EventID) pair is unique: a user may hold at most one
// registration per event at any time.
// swagger:model EventRegistration
type EventRegistration struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	EventID      string    `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationDetails is an EventRegistration with display fields
// denormalized from the registrant and the event. The extra fields are
// presentation convenience only and are not persisted.
// swagger:model RegistrationDetails
type RegistrationDetails struct {
	EventRegistration
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	EventName string `json:"event_name"`
}

// Participant is a registration joined with registrant display fields.
// swagger:model Participant
type Participant struct {
	RegistrationID string    `json:"registration_id"`
	UserID         string    `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// EventRegistrationRepository defines storage operations for registrations.
// Create returns ErrAlreadyRegistered when the (user_id, event_id) unique
// index is violated.
type EventRegistrationRepository interface {
	Create(ctx context.Context, reg *EventRegistration) error
	GetByID(ctx context.Context, id string) (*EventRegistration, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventRegistration, error)
	ListParticipantsByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	Delete(ctx context.Context, id string) error
}

// TxManager runs a function inside a single database transaction. The
// transaction is committed when fn returns nil and rolled back otherwise;
// the original error is returned unchanged.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock supplies the current time. Injected so past-event checks are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RegistrationService defines the transactional registration workflow.
type RegistrationService interface {
	// RegisterUserForEvent registers the user for the event. The whole
	// read-check-write sequence runs in one transaction; on any failure all
	// writes are rolled back and the original error is returned.
	RegisterUserForEvent(ctx context.Context, userID, eventID string) (*RegistrationDetails, error)
	// CancelUserRegistration removes the user's registration for the event.
	// Returns (false, nil) when no registration exists; this is not an error.
	CancelUserRegistration(ctx context.Context, userID, eventID string) (bool, error)
	GetParticipants(ctx context.Context, eventID string) ([]*Participant, error)
	GetRegistrationByID(ctx context.Context, registrationID string) (*RegistrationDetails, error)
}
