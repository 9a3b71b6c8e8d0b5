package domain

import (
	"context"
	"time"
)

// Event represents a bookable event with a bounded number of participants.
// CurrentParticipants never exceeds MaxParticipants; the counter is mutated
// only through registration and cancellation.
// swagger:model Event
type Event struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	DateOfEvent         time.Time `json:"date_of_event"`
	Place               string    `json:"place"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	ImageURL            string    `json:"image_url,omitempty"`
	CategoryID          string    `json:"category_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, description string, dateOfEvent time.Time, place string, maxParticipants int, imageURL, categoryID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:            name,
		Description:     description,
		DateOfEvent:     dateOfEvent,
		Place:           place,
		MaxParticipants: maxParticipants,
		ImageURL:        imageURL,
		CategoryID:      categoryID,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// EventSortBy is the sort key for event listings.
type EventSortBy string

const (
	EventSortByName     EventSortBy = "name"
	EventSortByDate     EventSortBy = "date"
	EventSortByPlace    EventSortBy = "place"
	EventSortByCategory EventSortBy = "category"
)

// SortOrder is the direction for sorted listings.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// EventFilter is a declarative filter for event listings. Non-zero fields are
// combined with logical AND. Substring matches are case-insensitive.
type EventFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	Place        string
	CategoryID   string
	NameContains string
}

// EventSort pairs a sort key with a direction.
type EventSort struct {
	By    EventSortBy
	Order SortOrder
}

// EventUpdate holds the mutable event fields for a partial update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Name            *string
	Description     *string
	DateOfEvent     *time.Time
	Place           *string
	MaxParticipants *int
	ImageURL        *string
	CategoryID      *string
}

// EventRepository defines the interface for event storage.
// IncrementParticipants and DecrementParticipants mutate the counter
// atomically; IncrementParticipants returns ErrEventFull when the event is at
// capacity.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByName(ctx context.Context, name string) (*Event, error)
	List(ctx context.Context, filter EventFilter, sort EventSort, p PaginationParams) ([]*Event, error)
	Count(ctx context.Context, filter EventFilter) (int, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	IncrementParticipants(ctx context.Context, id string) error
	DecrementParticipants(ctx context.Context, id string) error
}

// EventService defines the business logic for events.
type EventService interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByName(ctx context.Context, name string) (*Event, error)
	List(ctx context.Context, filter EventFilter, sort EventSort, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}
