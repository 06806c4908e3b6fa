package cart

import (
	"testing"

	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/internal/selection"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pizzaItem() catalog.Item {
	return catalog.Item{
		ID:          uuid.New(),
		MenuID:      uuid.New(),
		Name:        "Pizza",
		BasePrice:   dec("10.00"),
		IsAvailable: true,
		Customizations: types.CustomizationRules{
			{
				Name: "Size", IsRequired: true, LimitType: enums.LimitTypeExactly, Limit: 1,
				Options: []types.CustomizationOption{
					{Name: "S", PriceModifier: dec("0"), MaxQuantity: 1},
					{Name: "M", PriceModifier: dec("1.00"), MaxQuantity: 1},
					{Name: "L", PriceModifier: dec("2.00"), MaxQuantity: 1},
				},
			},
			{
				Name: "Toppings", LimitType: enums.LimitTypeUpTo, Limit: 2,
				Options: []types.CustomizationOption{
					{Name: "Olives", PriceModifier: dec("0.50"), MaxQuantity: 2},
					{Name: "Basil", PriceModifier: dec("0.25"), MaxQuantity: 1},
					{Name: "Ham", PriceModifier: dec("1.50"), MaxQuantity: 1},
				},
			},
			{
				Name: "Sauces", IsRequired: true, LimitType: enums.LimitTypeAtLeast, Limit: 1,
				Options: []types.CustomizationOption{
					{Name: "Tomato", PriceModifier: dec("0"), MaxQuantity: 1},
					{Name: "Pesto", PriceModifier: dec("0.80"), MaxQuantity: 1},
				},
			},
		},
	}
}

func TestComposeLineFreezesPriceAndDropsEmptyRules(t *testing.T) {
	item := pizzaItem()
	sel := selection.Selections{}.
		Toggle(item.Customizations, "Sauces", "Pesto", true, 1).
		Toggle(item.Customizations, "Size", "L", true, 1).
		Toggle(item.Customizations, "Toppings", "Olives", true, 1).
		Toggle(item.Customizations, "Toppings", "Olives", false, 0)

	notes := "  no garlic "
	line, err := ComposeLine(item, sel, 2, &notes)
	require.NoError(t, err)

	assert.Equal(t, item.ID, line.ID)
	assert.Equal(t, "12.80", line.UnitPrice.StringFixed(2))
	assert.Equal(t, "25.60", line.Total().StringFixed(2))
	require.Len(t, line.Customisations, 2)
	assert.Equal(t, "Size", line.Customisations[0].RuleName)
	assert.Equal(t, "Sauces", line.Customisations[1].RuleName)
	require.NotNil(t, line.AdditionalNotes)
	assert.Equal(t, "no garlic", *line.AdditionalNotes)
}

func TestComposeLineBlocksOnRequiredRules(t *testing.T) {
	item := pizzaItem()
	sel := selection.Selections{}.Toggle(item.Customizations, "Size", "S", true, 1)

	_, err := ComposeLine(item, sel, 1, nil)
	require.Error(t, err)
	assert.Equal(t, WarningRulesUnsatisfied, pkgerrors.WarningOf(err))
	details := pkgerrors.As(err).Details().(map[string]any)
	assert.Equal(t, []string{"Sauces"}, details["rules"])
}

func TestComposeLineRejectsZeroQuantity(t *testing.T) {
	item := pizzaItem()
	sel := selection.Selections{}.
		Toggle(item.Customizations, "Size", "S", true, 1).
		Toggle(item.Customizations, "Sauces", "Tomato", true, 1)

	_, err := ComposeLine(item, sel, 0, nil)
	assert.Equal(t, WarningInvalidQuantity, pkgerrors.WarningOf(err))
}

func TestComposeLineBlankNotesAreDropped(t *testing.T) {
	item := catalog.Item{ID: uuid.New(), Name: "Water", BasePrice: dec("2.00")}
	blank := "   "
	line, err := ComposeLine(item, selection.Selections{}, 1, &blank)
	require.NoError(t, err)
	assert.Nil(t, line.AdditionalNotes)
	assert.Empty(t, line.Customisations)
}

// Size S then Toppings Olives, Basil, Ham: the third topping is rejected and
// the unit price is base + 0 + 0.50 + 0.25.
func TestScenarioToppingsCapAtTwo(t *testing.T) {
	item := pizzaItem()
	sel := selection.Selections{}.
		Toggle(item.Customizations, "Size", "S", true, 1).
		Toggle(item.Customizations, "Sauces", "Tomato", true, 1).
		Toggle(item.Customizations, "Toppings", "Olives", true, 1).
		Toggle(item.Customizations, "Toppings", "Basil", true, 1).
		Toggle(item.Customizations, "Toppings", "Ham", true, 1)

	line, err := ComposeLine(item, sel, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "10.75", line.UnitPrice.StringFixed(2))
	assert.Len(t, line.Customisations[1].SelectedOptions, 2)
}
