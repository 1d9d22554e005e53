package freezer

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a freezer does not exist in the store.
var ErrNotFound = errors.New("freezer not found")

// Freezer is a named container for food items. Items reference it only
// by id; deleting a freezer does not cascade to its items.
type Freezer struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest is the payload for creating a freezer.
type CreateRequest struct {
	Name string `json:"name"`
}

// Repository is the persistence boundary for freezers. Like the item
// repository it carries no authorization logic.
type Repository interface {
	Create(ctx context.Context, f *Freezer) (string, error)
	Get(ctx context.Context, id string) (*Freezer, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, owner string) ([]*Freezer, error)
}
