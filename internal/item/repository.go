package item

import "context"

// Repository is the persistence boundary for food items. It performs no
// authorization: it trusts its caller completely, so the ownership rule
// lives in exactly one place (the handlers) instead of being duplicated
// across storage calls.
type Repository interface {
	// Create persists a new record and returns the generated id. No
	// uniqueness constraint exists on content; duplicates are allowed.
	Create(ctx context.Context, it *FoodItem) (string, error)

	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, id string) (*FoodItem, error)

	// Update replaces the stored record or returns ErrNotFound.
	Update(ctx context.Context, it *FoodItem) error

	// Delete removes the record or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// ListByFreezer returns the given owner's items in one freezer.
	ListByFreezer(ctx context.Context, owner string, freezerID string) ([]*FoodItem, error)
}
