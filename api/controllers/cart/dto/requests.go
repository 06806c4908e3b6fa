package cartdto

import "github.com/google/uuid"

// ToggleRequest is one option action. Toggles are replayed in order, so the
// last action on an option wins.
type ToggleRequest struct {
	Rule     string `json:"rule" validate:"required"`
	Option   string `json:"option" validate:"required"`
	Selected bool   `json:"selected"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// LineRequest adds, edits or quotes a cart line.
type LineRequest struct {
	ItemID          uuid.UUID       `json:"item_id"`
	Toggles         []ToggleRequest `json:"toggles" validate:"dive"`
	Quantity        int             `json:"quantity" validate:"gte=0,lte=99"`
	AdditionalNotes *string         `json:"additional_notes,omitempty"`
}
