package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp/internal/domain"
)

func TestUserService_Update(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("applies only provided fields", func(t *testing.T) {
		repo := &fakeUserRepository{users: map[string]*domain.User{
			"u1": {ID: "u1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		}}
		svc := NewUserService(repo, fixedClock{now})

		first := "Janet"
		user, err := svc.Update(context.Background(), "u1", domain.UserUpdate{FirstName: &first})
		require.NoError(t, err)
		assert.Equal(t, "Janet", user.FirstName)
		assert.Equal(t, "Doe", user.LastName)
		assert.Equal(t, now, user.UpdatedAt)
	})

	t.Run("missing user", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepository{users: map[string]*domain.User{}}, fixedClock{now})

		first := "Janet"
		_, err := svc.Update(context.Background(), "u1", domain.UserUpdate{FirstName: &first})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("normalizes birthday to UTC", func(t *testing.T) {
		repo := &fakeUserRepository{users: map[string]*domain.User{
			"u1": {ID: "u1", FirstName: "Jane"},
		}}
		svc := NewUserService(repo, fixedClock{now})

		loc := time.FixedZone("CEST", 2*3600)
		birthday := time.Date(1990, 7, 15, 2, 0, 0, 0, loc)
		user, err := svc.Update(context.Background(), "u1", domain.UserUpdate{BirthdayDate: &birthday})
		require.NoError(t, err)
		assert.Equal(t, time.UTC, user.BirthdayDate.Location())
		assert.True(t, user.BirthdayDate.Equal(birthday))
	})
}

func TestUserService_GetByID(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo := &fakeUserRepository{users: map[string]*domain.User{"u1": testUser("u1")}}
		svc := NewUserService(repo, fixedClock{now})

		user, err := svc.GetByID(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepository{users: map[string]*domain.User{}}, fixedClock{now})

		_, err := svc.GetByID(context.Background(), "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
