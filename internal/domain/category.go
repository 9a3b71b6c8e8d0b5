package domain

import (
	"context"
	"time"
)

// EventCategory groups events. Name is unique; a category cannot be deleted
// while any event references it.
// swagger:model EventCategory
type EventCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEventCategory returns a new EventCategory. ID is typically set by the repository on create.
func NewEventCategory(name, description string, createdAt, updatedAt time.Time) *EventCategory {
	return &EventCategory{
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// CategoryFilter is a declarative filter for category listings.
type CategoryFilter struct {
	NameContains string
}

// EventCategoryRepository defines the interface for category storage.
// Delete returns ErrCategoryInUse when events still reference the category.
type EventCategoryRepository interface {
	Create(ctx context.Context, category *EventCategory) error
	GetByID(ctx context.Context, id string) (*EventCategory, error)
	List(ctx context.Context, filter CategoryFilter, order SortOrder, p PaginationParams) ([]*EventCategory, error)
	Count(ctx context.Context, filter CategoryFilter) (int, error)
	Update(ctx context.Context, category *EventCategory) error
	Delete(ctx context.Context, id string) error
}

// EventCategoryService defines the business logic for categories.
type EventCategoryService interface {
	Create(ctx context.Context, category *EventCategory) (*EventCategory, error)
	GetByID(ctx context.Context, id string) (*EventCategory, error)
	List(ctx context.Context, filter CategoryFilter, order SortOrder, p PaginationParams) ([]*EventCategory, int, error)
	Update(ctx context.Context, category *EventCategory) (*EventCategory, error)
	Delete(ctx context.Context, id string) error
}
