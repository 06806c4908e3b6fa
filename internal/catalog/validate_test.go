package catalog

import (
	"testing"

	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pizza() Item {
	return Item{
		ID:        uuid.New(),
		Name:      "Margherita",
		BasePrice: decimal.RequireFromString("10.00"),
		Customizations: types.CustomizationRules{
			{
				Name: "Size", IsRequired: true, LimitType: enums.LimitTypeExactly, Limit: 1,
				Options: []types.CustomizationOption{
					{Name: "Small", PriceModifier: decimal.Zero, MaxQuantity: 1},
					{Name: "Large", PriceModifier: decimal.RequireFromString("3.00"), MaxQuantity: 1},
				},
			},
		},
	}
}

func TestValidateItemAcceptsWellFormedItem(t *testing.T) {
	require.NoError(t, ValidateItem(pizza()))
}

func TestValidateItemReportsEveryProblem(t *testing.T) {
	item := pizza()
	item.BasePrice = decimal.RequireFromString("-1")
	item.Customizations = append(item.Customizations, types.CustomizationRule{
		Name: "Size", LimitType: "SOME", Limit: 0,
		Options: []types.CustomizationOption{
			{Name: "Olives", MaxQuantity: 0},
			{Name: "Olives", MaxQuantity: 1},
		},
	})

	err := ValidateItem(item)
	require.Error(t, err)

	problems := Problems(err)
	assert.Contains(t, problems, `item "Margherita": base price must not be negative`)
	assert.Contains(t, problems, `item "Margherita": duplicate rule "Size"`)
	assert.Contains(t, problems, `rule "Size": invalid limit type "SOME"`)
	assert.Contains(t, problems, `rule "Size": limit must be at least 1`)
	assert.Contains(t, problems, `rule "Size": duplicate option "Olives"`)
	assert.Contains(t, problems, `rule "Size": option "Olives" max quantity must be at least 1`)
	assert.Len(t, problems, 6)
}

func TestValidateItemRequiresOptions(t *testing.T) {
	item := pizza()
	item.Customizations[0].Options = nil

	problems := Problems(ValidateItem(item))
	assert.Equal(t, []string{`rule "Size": at least one option is required`}, problems)
}

func TestProblemsOfNilIsEmpty(t *testing.T) {
	assert.Empty(t, Problems(nil))
}
