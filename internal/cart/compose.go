package cart

import (
	"strings"

	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/internal/pricing"
	"github.com/angelmondragon/tableserve-backend/internal/selection"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
)

const (
	WarningRulesUnsatisfied = "rules_unsatisfied"
	WarningInvalidQuantity  = "invalid_quantity"
	WarningItemUnavailable  = "item_unavailable"
)

// ComposeLine turns an item and its in-progress selections into a cart line
// with a frozen unit price. Only rules with at least one selected option are kept.
func ComposeLine(item catalog.Item, selections selection.Selections, quantity int, notes *string) (Line, error) {
	if quantity < 1 {
		return Line{}, pkgerrors.Warning(WarningInvalidQuantity, "quantity must be at least 1")
	}
	if missing := selection.UnsatisfiedRules(item.Customizations, selections); len(missing) > 0 {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "required customizations are missing").
			WithDetails(map[string]any{"warning": WarningRulesUnsatisfied, "rules": missing})
	}

	chosen := selections.Ordered(item.Customizations)
	return Line{
		ID:              item.ID,
		Name:            item.Name,
		UnitPrice:       pricing.UnitPrice(item, chosen),
		Quantity:        quantity,
		Customisations:  chosen,
		AdditionalNotes: normalizeNotes(notes),
	}, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
