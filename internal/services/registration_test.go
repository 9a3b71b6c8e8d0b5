package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp/internal/domain"
)

type fakeUserRepository struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUserRepository) Create(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}
func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeUserRepository) Update(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserRepository) Delete(ctx context.Context, id string) error         { return nil }

type fakeEventRepository struct {
	events map[string]*domain.Event

	incremented int
	decremented int
	incErr      error
	decErr      error
}

func (f *fakeEventRepository) Create(ctx context.Context, event *domain.Event) error { return nil }
func (f *fakeEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}
func (f *fakeEventRepository) GetByName(ctx context.Context, name string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeEventRepository) List(ctx context.Context, filter domain.EventFilter, sort domain.EventSort, p domain.PaginationParams) ([]*domain.Event, error) {
	return nil, nil
}
func (f *fakeEventRepository) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	return 0, nil
}
func (f *fakeEventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeEventRepository) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeEventRepository) IncrementParticipants(ctx context.Context, eventID string) error {
	if f.incErr != nil {
		return f.incErr
	}
	ev, ok := f.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if ev.CurrentParticipants >= ev.MaxParticipants {
		return domain.ErrEventFull
	}
	ev.CurrentParticipants++
	f.incremented++
	return nil
}
func (f *fakeEventRepository) DecrementParticipants(ctx context.Context, eventID string) error {
	if f.decErr != nil {
		return f.decErr
	}
	ev, ok := f.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if ev.CurrentParticipants > 0 {
		ev.CurrentParticipants--
	}
	f.decremented++
	return nil
}

type fakeRegistrationRepository struct {
	byID        map[string]*domain.EventRegistration
	byEventUser map[string]*domain.EventRegistration

	created      []*domain.EventRegistration
	deleted      []string
	participants []*domain.Participant

	createErr error
	deleteErr error
	listErr   error
}

func regKey(eventID, userID string) string { return eventID + ":" + userID }

func (f *fakeRegistrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	if f.createErr != nil {
		return f.createErr
	}
	if reg.ID == "" {
		reg.ID = "reg-1"
	}
	f.created = append(f.created, reg)
	return nil
}
func (f *fakeRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.EventRegistration, error) {
	reg, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}
func (f *fakeRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	reg, ok := f.byEventUser[regKey(eventID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}
func (f *fakeRegistrationRepository) ListParticipantsByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.participants, nil
}
func (f *fakeRegistrationRepository) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeTxManager runs fn directly and records whether the transaction would
// have been committed or rolled back.
type fakeTxManager struct {
	began      int
	committed  int
	rolledBack int
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.began++
	if err := fn(ctx); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeEmailService struct {
	sent []*domain.RegistrationConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

func testEvent(id string, date time.Time, current, max int) *domain.Event {
	return &domain.Event{
		ID:                  id,
		Name:                "Go Conference",
		Place:               "Rotterdam",
		DateOfEvent:         date,
		CurrentParticipants: current,
		MaxParticipants:     max,
	}
}

func testUser(id string) *domain.User {
	return &domain.User{ID: id, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
}

func TestRegistrationService_RegisterUserForEvent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name     string
		userRepo *fakeUserRepository
		evRepo   *fakeEventRepository
		regRepo  *fakeRegistrationRepository
		wantErr  error
	}{
		{
			name:     "user not found",
			userRepo: &fakeUserRepository{users: map[string]*domain.User{}},
			evRepo:   &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", future, 0, 10)}},
			regRepo:  &fakeRegistrationRepository{},
			wantErr:  domain.ErrNotFound,
		},
		{
			name:     "event not found",
			userRepo: &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}},
			evRepo:   &fakeEventRepository{events: map[string]*domain.Event{}},
			regRepo:  &fakeRegistrationRepository{},
			wantErr:  domain.ErrNotFound,
		},
		{
			name:     "event already passed",
			userRepo: &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}},
			evRepo:   &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", past, 0, 10)}},
			regRepo:  &fakeRegistrationRepository{},
			wantErr:  domain.ErrEventPassed,
		},
		{
			name:     "event full",
			userRepo: &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}},
			evRepo:   &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", future, 10, 10)}},
			regRepo:  &fakeRegistrationRepository{},
			wantErr:  domain.ErrEventFull,
		},
		{
			name:     "already registered",
			userRepo: &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}},
			evRepo:   &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", future, 1, 10)}},
			regRepo: &fakeRegistrationRepository{byEventUser: map[string]*domain.EventRegistration{
				regKey("e1", "u1"): {ID: "r1", UserID: "u1", EventID: "e1"},
			}},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name:     "concurrent insert loses on unique index",
			userRepo: &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}},
			evRepo:   &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", future, 0, 10)}},
			regRepo:  &fakeRegistrationRepository{createErr: domain.ErrAlreadyRegistered},
			wantErr:  domain.ErrAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &fakeTxManager{}
			svc := NewRegistrationService(tt.userRepo, tt.evRepo, tt.regRepo, tx, fixedClock{now}, nil, time.Second)

			details, err := svc.RegisterUserForEvent(context.Background(), "u1", "e1")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, details)
			assert.Zero(t, tt.evRepo.incremented, "counter must not move on failure")
			assert.Zero(t, tx.committed, "transaction must not commit on failure")
		})
	}
}

func TestRegistrationService_RegisterUserForEvent_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("e1", now.Add(48*time.Hour), 3, 10)

	userRepo := &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}}
	evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": event}}
	regRepo := &fakeRegistrationRepository{}
	tx := &fakeTxManager{}
	email := &fakeEmailService{}

	svc := NewRegistrationService(userRepo, evRepo, regRepo, tx, fixedClock{now}, email, time.Second)

	details, err := svc.RegisterUserForEvent(context.Background(), "u1", "e1")
	require.NoError(t, err)
	require.NotNil(t, details)

	assert.Equal(t, "u1", details.UserID)
	assert.Equal(t, "e1", details.EventID)
	assert.Equal(t, now, details.RegisteredAt)
	assert.Equal(t, "Jane", details.UserName)
	assert.Equal(t, "jane@example.com", details.UserEmail)
	assert.Equal(t, "Go Conference", details.EventName)

	require.Len(t, regRepo.created, 1)
	assert.Equal(t, 4, event.CurrentParticipants)
	assert.Equal(t, 1, tx.committed)
	assert.Zero(t, tx.rolledBack)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "jane@example.com", email.sent[0].Email)
	assert.Equal(t, "Go Conference", email.sent[0].EventName)
}

func TestRegistrationService_RegisterUserForEvent_RollbackOnIncrementFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dbErr := errors.New("connection reset")

	userRepo := &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}}
	evRepo := &fakeEventRepository{
		events: map[string]*domain.Event{"e1": testEvent("e1", now.Add(time.Hour), 0, 10)},
		incErr: dbErr,
	}
	regRepo := &fakeRegistrationRepository{}
	tx := &fakeTxManager{}
	email := &fakeEmailService{}

	svc := NewRegistrationService(userRepo, evRepo, regRepo, tx, fixedClock{now}, email, time.Second)

	details, err := svc.RegisterUserForEvent(context.Background(), "u1", "e1")
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, details)

	// The registration insert happened inside the transaction, so the
	// rollback must discard it together with the failed counter update.
	assert.Equal(t, 1, tx.rolledBack)
	assert.Zero(t, tx.committed)
	assert.Empty(t, email.sent)
}

func TestRegistrationService_RegisterUserForEvent_EmailFailureDoesNotFailRegistration(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	userRepo := &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}}
	evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", now.Add(time.Hour), 0, 10)}}
	tx := &fakeTxManager{}
	email := &fakeEmailService{err: errors.New("ses unavailable")}

	svc := NewRegistrationService(userRepo, evRepo, &fakeRegistrationRepository{}, tx, fixedClock{now}, email, time.Second)

	details, err := svc.RegisterUserForEvent(context.Background(), "u1", "e1")
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, 1, tx.committed)
}

func TestRegistrationService_CancelUserRegistration(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	t.Run("cancel existing registration", func(t *testing.T) {
		event := testEvent("e1", future, 5, 10)
		regRepo := &fakeRegistrationRepository{byEventUser: map[string]*domain.EventRegistration{
			regKey("e1", "u1"): {ID: "r1", UserID: "u1", EventID: "e1"},
		}}
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": event}}
		tx := &fakeTxManager{}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, regRepo, tx, fixedClock{now}, nil, time.Second)

		cancelled, err := svc.CancelUserRegistration(context.Background(), "u1", "e1")
		require.NoError(t, err)
		assert.True(t, cancelled)
		assert.Equal(t, []string{"r1"}, regRepo.deleted)
		assert.Equal(t, 4, event.CurrentParticipants)
		assert.Equal(t, 1, tx.committed)
	})

	t.Run("no registration returns false without error", func(t *testing.T) {
		event := testEvent("e1", future, 5, 10)
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": event}}
		regRepo := &fakeRegistrationRepository{}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		cancelled, err := svc.CancelUserRegistration(context.Background(), "u1", "e1")
		require.NoError(t, err)
		assert.False(t, cancelled)
		assert.Empty(t, regRepo.deleted)
		assert.Equal(t, 5, event.CurrentParticipants)
	})

	t.Run("event already passed", func(t *testing.T) {
		regRepo := &fakeRegistrationRepository{byEventUser: map[string]*domain.EventRegistration{
			regKey("e1", "u1"): {ID: "r1", UserID: "u1", EventID: "e1"},
		}}
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", past, 5, 10)}}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		cancelled, err := svc.CancelUserRegistration(context.Background(), "u1", "e1")
		require.ErrorIs(t, err, domain.ErrEventPassed)
		assert.False(t, cancelled)
		assert.Empty(t, regRepo.deleted)
	})

	t.Run("event missing", func(t *testing.T) {
		regRepo := &fakeRegistrationRepository{byEventUser: map[string]*domain.EventRegistration{
			regKey("e1", "u1"): {ID: "r1", UserID: "u1", EventID: "e1"},
		}}
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{}}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		cancelled, err := svc.CancelUserRegistration(context.Background(), "u1", "e1")
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, cancelled)
	})

	t.Run("counter decrement failure rolls back the delete", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		regRepo := &fakeRegistrationRepository{byEventUser: map[string]*domain.EventRegistration{
			regKey("e1", "u1"): {ID: "r1", UserID: "u1", EventID: "e1"},
		}}
		evRepo := &fakeEventRepository{
			events: map[string]*domain.Event{"e1": testEvent("e1", future, 5, 10)},
			decErr: dbErr,
		}
		tx := &fakeTxManager{}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, regRepo, tx, fixedClock{now}, nil, time.Second)

		cancelled, err := svc.CancelUserRegistration(context.Background(), "u1", "e1")
		require.ErrorIs(t, err, dbErr)
		assert.False(t, cancelled)
		assert.Equal(t, 1, tx.rolledBack)
	})
}

func TestRegistrationService_RegisterThenCancelRestoresCounter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("e1", now.Add(48*time.Hour), 2, 10)

	userRepo := &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}}
	evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": event}}
	regRepo := &fakeRegistrationRepository{byEventUser: map[string]*domain.EventRegistration{}}
	svc := NewRegistrationService(userRepo, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

	details, err := svc.RegisterUserForEvent(context.Background(), "u1", "e1")
	require.NoError(t, err)
	require.Equal(t, 3, event.CurrentParticipants)

	regRepo.byEventUser[regKey("e1", "u1")] = &details.EventRegistration

	cancelled, err := svc.CancelUserRegistration(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, 2, event.CurrentParticipants)
}

func TestRegistrationService_GetParticipants(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("event not found", func(t *testing.T) {
		svc := NewRegistrationService(&fakeUserRepository{}, &fakeEventRepository{events: map[string]*domain.Event{}}, &fakeRegistrationRepository{}, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		_, err := svc.GetParticipants(context.Background(), "e1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no participants returns empty slice", func(t *testing.T) {
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", now, 0, 10)}}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, &fakeRegistrationRepository{}, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		got, err := svc.GetParticipants(context.Background(), "e1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("returns participants", func(t *testing.T) {
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", now, 2, 10)}}
		regRepo := &fakeRegistrationRepository{participants: []*domain.Participant{
			{RegistrationID: "r1", UserID: "u1", FirstName: "Jane", Email: "jane@example.com"},
			{RegistrationID: "r2", UserID: "u2", FirstName: "John", Email: "john@example.com"},
		}}
		svc := NewRegistrationService(&fakeUserRepository{}, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		got, err := svc.GetParticipants(context.Background(), "e1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Jane", got[0].FirstName)
	})
}

func TestRegistrationService_GetRegistrationByID(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		svc := NewRegistrationService(&fakeUserRepository{}, &fakeEventRepository{}, &fakeRegistrationRepository{}, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		_, err := svc.GetRegistrationByID(context.Background(), "r1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fills display fields", func(t *testing.T) {
		regRepo := &fakeRegistrationRepository{byID: map[string]*domain.EventRegistration{
			"r1": {ID: "r1", UserID: "u1", EventID: "e1", RegisteredAt: now},
		}}
		userRepo := &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}}
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", now, 1, 10)}}
		svc := NewRegistrationService(userRepo, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		got, err := svc.GetRegistrationByID(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.UserName)
		assert.Equal(t, "jane@example.com", got.UserEmail)
		assert.Equal(t, "Go Conference", got.EventName)
	})

	t.Run("deleted user leaves display fields empty", func(t *testing.T) {
		regRepo := &fakeRegistrationRepository{byID: map[string]*domain.EventRegistration{
			"r1": {ID: "r1", UserID: "gone", EventID: "e1", RegisteredAt: now},
		}}
		evRepo := &fakeEventRepository{events: map[string]*domain.Event{"e1": testEvent("e1", now, 1, 10)}}
		svc := NewRegistrationService(&fakeUserRepository{users: map[string]*domain.User{}}, evRepo, regRepo, &fakeTxManager{}, fixedClock{now}, nil, time.Second)

		got, err := svc.GetRegistrationByID(context.Background(), "r1")
		require.NoError(t, err)
		assert.Empty(t, got.UserName)
		assert.Empty(t, got.UserEmail)
		assert.Equal(t, "Go Conference", got.EventName)
	})
}
