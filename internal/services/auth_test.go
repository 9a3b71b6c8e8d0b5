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

type stubUserRepository struct {
	usersByEmail map[string]*domain.User
	created      []*domain.User
	createErr    error
}

func (s *stubUserRepository) Create(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, user)
	return nil
}
func (s *stubUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (s *stubUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := s.usersByEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}
func (s *stubUserRepository) Update(ctx context.Context, user *domain.User) error { return nil }
func (s *stubUserRepository) Delete(ctx context.Context, id string) error         { return nil }

// stubHasher hashes by concatenation so tests can assert on the output.
type stubHasher struct {
	compareErr error
}

func (s *stubHasher) GenerateSalt() (string, error) { return "salt", nil }
func (s *stubHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (s *stubHasher) Compare(hash, salt, password string) error { return s.compareErr }

type stubTokenIssuer struct {
	token string
	err   error

	gotUserID string
	gotExpiry time.Duration
}

func (s *stubTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	s.gotUserID = userID
	s.gotExpiry = expiry
	return s.token, s.err
}

func TestAuthService_SignUp(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	birthday := time.Date(1990, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates user with normalized email", func(t *testing.T) {
		repo := &stubUserRepository{}
		svc := NewAuthService(repo, &stubHasher{}, &stubTokenIssuer{}, time.Hour, fixedClock{now})

		user, err := svc.SignUp(context.Background(), "  Jane@Example.COM ", "secret-password", "Jane", "Doe", birthday)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "Jane", user.FirstName)
		assert.Equal(t, "salt:secret-password", user.PasswordHash)
		assert.Equal(t, "salt", user.Salt)
		assert.Equal(t, now, user.CreatedAt)
		require.Len(t, repo.created, 1)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		svc := NewAuthService(&stubUserRepository{}, &stubHasher{}, &stubTokenIssuer{}, time.Hour, fixedClock{now})

		_, err := svc.SignUp(context.Background(), "not-an-email", "secret-password", "Jane", "Doe", birthday)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := NewAuthService(&stubUserRepository{}, &stubHasher{}, &stubTokenIssuer{}, time.Hour, fixedClock{now})

		_, err := svc.SignUp(context.Background(), "jane@example.com", "short", "Jane", "Doe", birthday)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &stubUserRepository{createErr: domain.ErrDuplicateEmail}
		svc := NewAuthService(repo, &stubHasher{}, &stubTokenIssuer{}, time.Hour, fixedClock{now})

		_, err := svc.SignUp(context.Background(), "jane@example.com", "secret-password", "Jane", "Doe", birthday)
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestAuthService_Login(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := &domain.User{ID: "u1", Email: "jane@example.com", PasswordHash: "hash", Salt: "salt"}

	t.Run("issues token on valid credentials", func(t *testing.T) {
		repo := &stubUserRepository{usersByEmail: map[string]*domain.User{"jane@example.com": stored}}
		issuer := &stubTokenIssuer{token: "jwt-token"}
		svc := NewAuthService(repo, &stubHasher{}, issuer, 2*time.Hour, fixedClock{now})

		token, user, err := svc.Login(context.Background(), "Jane@Example.com", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, "jwt-token", token)
		assert.Equal(t, stored, user)
		assert.Equal(t, "u1", issuer.gotUserID)
		assert.Equal(t, 2*time.Hour, issuer.gotExpiry)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc := NewAuthService(&stubUserRepository{}, &stubHasher{}, &stubTokenIssuer{}, time.Hour, fixedClock{now})

		_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret-password")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password maps to invalid credentials", func(t *testing.T) {
		repo := &stubUserRepository{usersByEmail: map[string]*domain.User{"jane@example.com": stored}}
		hasher := &stubHasher{compareErr: errors.New("mismatch")}
		svc := NewAuthService(repo, hasher, &stubTokenIssuer{}, time.Hour, fixedClock{now})

		_, _, err := svc.Login(context.Background(), "jane@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
