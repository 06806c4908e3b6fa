package pricing

import (
	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Line is anything priced per unit and ordered in some quantity.
type Line interface {
	LineUnitPrice() decimal.Decimal
	LineQuantity() int
}

// Summary is the derived view shown next to the cart.
type Summary struct {
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// UnitPrice is the item's base price plus every selected modifier times its quantity.
func UnitPrice(item catalog.Item, selections []types.RuleSelection) decimal.Decimal {
	return ModifiedPrice(item.BasePrice, selections)
}

// ModifiedPrice applies selection modifiers to a base price.
func ModifiedPrice(base decimal.Decimal, selections []types.RuleSelection) decimal.Decimal {
	price := base
	for _, sel := range selections {
		for _, opt := range sel.SelectedOptions {
			price = price.Add(opt.PriceModifier.Mul(decimal.NewFromInt(int64(opt.Quantity))))
		}
	}
	return price
}

func LineTotal(line Line) decimal.Decimal {
	return line.LineUnitPrice().Mul(decimal.NewFromInt(int64(line.LineQuantity())))
}

func CartTotal[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

func CartItemCount[L Line](lines []L) int {
	count := 0
	for _, line := range lines {
		count += line.LineQuantity()
	}
	return count
}

// Summarize computes the item count and total of lines.
func Summarize[L Line](lines []L) Summary {
	return Summary{ItemCount: CartItemCount(lines), Total: CartTotal(lines)}
}
