package item

import "time"

// Recognized itemType category tags. The app is Spanish-language; tags
// travel over the wire as-is.
const (
	TypeCarne   = "carne"
	TypeVerdura = "verdura"
	TypePescado = "pescado"
	TypeLacteo  = "lacteo"
	TypeOtro    = "otro"
)

var itemTypes = map[string]struct{}{
	TypeCarne:   {},
	TypeVerdura: {},
	TypePescado: {},
	TypeLacteo:  {},
	TypeOtro:    {},
}

// ValidType reports whether t is one of the recognized category tags.
func ValidType(t string) bool {
	_, ok := itemTypes[t]
	return ok
}

// FoodItem is a frozen food entry. OwnerID is set exactly once, at
// creation, from the authenticated subject; it is never client-settable
// and never changes afterwards.
type FoodItem struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FreezerBox  string    `json:"freezerBox,omitempty"`
	FreezerID   string    `json:"freezerId"`
	ItemType    string    `json:"itemType"`
	FrozenDate  time.Time `json:"frozenDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateRequest is the payload for creating an item. There is
// deliberately no owner field: unknown fields in the body are dropped,
// not trusted, and the owner always comes from the verified subject.
type CreateRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	FreezerBox  string     `json:"freezerBox"`
	FreezerID   string     `json:"freezerId"`
	ItemType    string     `json:"itemType"`
	FrozenDate  *time.Time `json:"frozenDate"`
}

// UpdateRequest is the payload for updating an item's mutable fields.
// id, ownerId and createdAt are not here: they never change.
type UpdateRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	FreezerBox  string     `json:"freezerBox"`
	FreezerID   string     `json:"freezerId"`
	ItemType    string     `json:"itemType"`
	FrozenDate  *time.Time `json:"frozenDate"`
}
