package orders

import (
	"time"

	"github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one cart line as sent to the order service.
type OrderLineRequest struct {
	SessionID      uuid.UUID             `json:"session_id" validate:"required"`
	ItemID         uuid.UUID             `json:"item_id" validate:"required"`
	Quantity       int                   `json:"quantity" validate:"min=1"`
	UnitPrice      decimal.Decimal       `json:"unit_price"`
	Total          decimal.Decimal       `json:"total"`
	Customisations []types.RuleSelection `json:"customisations"`
	AdditionalNote *string               `json:"additional_note,omitempty"`
	TableNumber    int                   `json:"table_number" validate:"min=1"`
	RestaurantID   uuid.UUID             `json:"restaurant_id" validate:"required"`
}

func (l OrderLineRequest) LineUnitPrice() decimal.Decimal { return l.UnitPrice }
func (l OrderLineRequest) LineQuantity() int              { return l.Quantity }

// SessionContext stamps assembled lines with where they are going.
type SessionContext struct {
	SessionID    uuid.UUID
	RestaurantID uuid.UUID
	TableNumber  int
}

// BatchRequest groups every line of one submission under a single session.
type BatchRequest struct {
	SessionID      uuid.UUID
	IdempotencyKey string
	SubmittedBy    *uuid.UUID
	Lines          []OrderLineRequest
}

// BatchResult reports the stored batch. Replayed is true when the idempotency
// key matched a batch created earlier.
type BatchResult struct {
	Batch    Batch `json:"batch"`
	Replayed bool  `json:"replayed"`
}

// Batch is the API view of an order batch.
type Batch struct {
	ID           uuid.UUID              `json:"id"`
	SessionID    uuid.UUID              `json:"session_id"`
	RestaurantID uuid.UUID              `json:"restaurant_id"`
	TableNumber  int                    `json:"table_number"`
	Status       enums.OrderBatchStatus `json:"status"`
	LineCount    int                    `json:"line_count"`
	ItemCount    int                    `json:"item_count"`
	Total        decimal.Decimal        `json:"total"`
	CreatedAt    time.Time              `json:"created_at"`
	Lines        []BatchLine            `json:"lines,omitempty"`
}

// BatchLine is a persisted line of a batch.
type BatchLine struct {
	ID             uuid.UUID             `json:"id"`
	ItemID         uuid.UUID             `json:"item_id"`
	Quantity       int                   `json:"quantity"`
	UnitPrice      decimal.Decimal       `json:"unit_price"`
	Total          decimal.Decimal       `json:"total"`
	Customisations []types.RuleSelection `json:"customisations"`
	AdditionalNote *string               `json:"additional_note,omitempty"`
}

// SubmitInput identifies the cart to submit and who is submitting it.
type SubmitInput struct {
	Scope          cart.Scope
	RestaurantID   *uuid.UUID
	StaffID        *uuid.UUID
	IdempotencyKey string
}

// SubmitResult is returned once the order service acknowledged the batch.
type SubmitResult struct {
	Batch    Batch              `json:"batch"`
	Replayed bool               `json:"replayed"`
	Lines    []OrderLineRequest `json:"lines"`
}

func batchFromModel(m models.OrderBatch) Batch {
	out := Batch{
		ID:           m.ID,
		SessionID:    m.SessionID,
		RestaurantID: m.RestaurantID,
		TableNumber:  m.TableNumber,
		Status:       m.Status,
		LineCount:    m.LineCount,
		ItemCount:    m.ItemCount,
		Total:        m.Total,
		CreatedAt:    m.CreatedAt,
	}
	if len(m.Lines) > 0 {
		out.Lines = make([]BatchLine, 0, len(m.Lines))
		for _, line := range m.Lines {
			out.Lines = append(out.Lines, BatchLine{
				ID:             line.ID,
				ItemID:         line.ItemID,
				Quantity:       line.Quantity,
				UnitPrice:      line.UnitPrice,
				Total:          line.Total,
				Customisations: line.Customisations,
				AdditionalNote: line.AdditionalNote,
			})
		}
	}
	return out
}
