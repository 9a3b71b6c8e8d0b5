package domain

import (
	"context"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	BirthdayDate time.Time `json:"birthday_date"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, firstName, lastName string, birthday, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		BirthdayDate: birthday,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// UserUpdate holds the mutable profile fields for a partial update.
// Nil fields are left unchanged.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	BirthdayDate *time.Time
}

// UserService defines the business logic for user profiles.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string, birthday time.Time) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
