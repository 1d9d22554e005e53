package item

import "errors"

// ErrNotFound is returned when an item does not exist in the store.
var ErrNotFound = errors.New("item not found")
