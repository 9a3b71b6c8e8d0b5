package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventapp/internal/domain"
)

type registrationService struct {
	userRepo       domain.UserRepository
	eventRepo      domain.EventRepository
	regRepo        domain.EventRegistrationRepository
	tx             domain.TxManager
	clock          domain.Clock
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService. emailService may be
// nil; confirmation emails are then skipped.
func NewRegistrationService(
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	regRepo domain.EventRegistrationRepository,
	tx domain.TxManager,
	clock domain.Clock,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		tx:             tx,
		clock:          clock,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

// RegisterUserForEvent runs the whole read-check-write sequence in one
// transaction. Preconditions are checked in order (user exists, event exists,
// event not passed, event not full, not already registered) so each failure
// maps to a distinct error. The participant counter is incremented with an
// atomic capacity-guarded UPDATE, and the (user_id, event_id) unique index
// backs the already-registered check, so a race between the precondition
// reads and the writes still cannot overbook the event or duplicate a
// registration: the losing writer gets ErrEventFull or ErrAlreadyRegistered
// and the transaction rolls back.
func (s *registrationService) RegisterUserForEvent(ctx context.Context, userID, eventID string) (*domain.RegistrationDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var details *domain.RegistrationDetails
	var user *domain.User
	var event *domain.Event

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}

		event, err = s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}

		if event.DateOfEvent.Before(s.clock.Now()) {
			return domain.ErrEventPassed
		}
		if event.CurrentParticipants >= event.MaxParticipants {
			return domain.ErrEventFull
		}

		if _, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get registration: %w", err)
		}

		reg := &domain.EventRegistration{
			UserID:       userID,
			EventID:      eventID,
			RegisteredAt: s.clock.Now(),
		}
		if err := s.regRepo.Create(ctx, reg); err != nil {
			if errors.Is(err, domain.ErrAlreadyRegistered) {
				return domain.ErrAlreadyRegistered
			}
			return fmt.Errorf("create registration: %w", err)
		}

		if err := s.eventRepo.IncrementParticipants(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrEventFull) {
				return domain.ErrEventFull
			}
			return fmt.Errorf("increment participants: %w", err)
		}

		details = &domain.RegistrationDetails{
			EventRegistration: *reg,
			UserName:          user.FirstName,
			UserEmail:         user.Email,
			EventName:         event.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Confirmation email is best effort; the mailer logs its own failures.
	if s.emailService != nil {
		_ = s.emailService.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
			Email:       user.Email,
			FirstName:   user.FirstName,
			EventName:   event.Name,
			EventPlace:  event.Place,
			DateOfEvent: event.DateOfEvent,
		})
	}
	return details, nil
}

// CancelUserRegistration removes the user's registration and decrements the
// participant counter, floored at 0. A missing registration is reported as
// (false, nil) rather than an error; every other failure rolls the
// transaction back.
func (s *registrationService) CancelUserRegistration(ctx context.Context, userID, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cancelled := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		reg, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("get registration: %w", err)
		}

		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.DateOfEvent.Before(s.clock.Now()) {
			return domain.ErrEventPassed
		}

		if err := s.regRepo.Delete(ctx, reg.ID); err != nil {
			return fmt.Errorf("delete registration: %w", err)
		}
		if err := s.eventRepo.DecrementParticipants(ctx, eventID); err != nil {
			return fmt.Errorf("decrement participants: %w", err)
		}
		cancelled = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return cancelled, nil
}

func (s *registrationService) GetParticipants(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	participants, err := s.regRepo.ListParticipantsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}

func (s *registrationService) GetRegistrationByID(ctx context.Context, registrationID string) (*domain.RegistrationDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	details := &domain.RegistrationDetails{EventRegistration: *reg}

	// Display fields are convenience only; a deleted user or event leaves
	// them empty rather than failing the lookup.
	if user, err := s.userRepo.GetByID(ctx, reg.UserID); err == nil {
		details.UserName = user.FirstName
		details.UserEmail = user.Email
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if event, err := s.eventRepo.GetByID(ctx, reg.EventID); err == nil {
		details.EventName = event.Name
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return details, nil
}
