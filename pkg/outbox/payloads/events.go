package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tableserve-backend/pkg/types"
)

// OrderBatchSubmittedEvent is relayed to the kitchen when a table submits a batch.
type OrderBatchSubmittedEvent struct {
	BatchID      uuid.UUID        `json:"batch_id"`
	SessionID    uuid.UUID        `json:"session_id"`
	RestaurantID uuid.UUID        `json:"restaurant_id"`
	TableNumber  int              `json:"table_number"`
	LineCount    int              `json:"line_count"`
	ItemCount    int              `json:"item_count"`
	Total        decimal.Decimal  `json:"total"`
	Lines        []OrderBatchLine `json:"lines"`
}

// OrderBatchLine is the kitchen-facing view of one submitted line.
type OrderBatchLine struct {
	LineID         uuid.UUID            `json:"line_id"`
	ItemID         uuid.UUID            `json:"item_id"`
	Quantity       int                  `json:"quantity"`
	UnitPrice      decimal.Decimal      `json:"unit_price"`
	Total          decimal.Decimal      `json:"total"`
	Customisations types.RuleSelections `json:"customisations"`
	AdditionalNote *string              `json:"additional_note,omitempty"`
}
