package types

import (
	"testing"

	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomizationRulesScanFromJSONB(t *testing.T) {
	raw := []byte(`[{"name":"Size","is_required":true,"limit_type":"EXACTLY","limit":1,
		"options":[{"name":"Small","price_modifier":"0","max_quantity":1},{"name":"Large","price_modifier":"2.50","max_quantity":1}]}]`)

	var rules CustomizationRules
	require.NoError(t, rules.Scan(raw))
	require.Len(t, rules, 1)

	size, ok := rules.Rule("Size")
	require.True(t, ok)
	assert.Equal(t, enums.LimitTypeExactly, size.LimitType)

	large, ok := size.Option("Large")
	require.True(t, ok)
	assert.True(t, large.PriceModifier.Equal(decimal.RequireFromString("2.5")))

	_, ok = size.Option("Medium")
	assert.False(t, ok)
}

func TestCustomizationRulesNilValueIsEmptyArray(t *testing.T) {
	var rules CustomizationRules
	v, err := rules.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, rules.Scan(nil))
	assert.Nil(t, rules)
}

func TestRuleSelectionsRejectsUnsupportedScan(t *testing.T) {
	var sel RuleSelections
	assert.Error(t, sel.Scan(42))
	assert.Error(t, sel.Scan("{not json"))
}

func TestRuleSelectionCountAndIndex(t *testing.T) {
	sel := RuleSelection{RuleName: "Toppings", SelectedOptions: []SelectedOption{
		{OptionName: "Olives", Quantity: 2},
		{OptionName: "Basil", Quantity: 1},
	}}
	assert.Equal(t, 3, sel.Count())
	assert.Equal(t, 1, sel.IndexOf("Basil"))
	assert.Equal(t, -1, sel.IndexOf("Ham"))
}
