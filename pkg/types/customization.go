package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// CustomizationOption is one choice offered by a customization rule.
type CustomizationOption struct {
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	MaxQuantity   int             `json:"max_quantity"`
}

// CustomizationRule declares how many options of a group a guest may pick.
type CustomizationRule struct {
	Name       string                `json:"name"`
	IsRequired bool                  `json:"is_required"`
	LimitType  enums.LimitType       `json:"limit_type"`
	Limit      int                   `json:"limit"`
	Options    []CustomizationOption `json:"options"`
}

// Option looks up an option by name.
func (r CustomizationRule) Option(name string) (CustomizationOption, bool) {
	for _, opt := range r.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return CustomizationOption{}, false
}

// CustomizationRules is the ordered rule list stored in a jsonb column.
type CustomizationRules []CustomizationRule

// Value implements driver.Valuer.
func (r CustomizationRules) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]CustomizationRule(r))
	if err != nil {
		return nil, fmt.Errorf("marshal customization rules: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (r *CustomizationRules) Scan(value interface{}) error {
	return scanJSON(value, r, "customization rules")
}

// Rule looks up a rule by name.
func (r CustomizationRules) Rule(name string) (CustomizationRule, bool) {
	for _, rule := range r {
		if rule.Name == name {
			return rule, true
		}
	}
	return CustomizationRule{}, false
}

// SelectedOption is a chosen option with its price modifier frozen at selection time.
type SelectedOption struct {
	OptionName    string          `json:"option_name"`
	Quantity      int             `json:"quantity"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// RuleSelection holds the options chosen for one rule.
type RuleSelection struct {
	RuleName        string           `json:"rule_name"`
	SelectedOptions []SelectedOption `json:"selected_options"`
}

// Count is the sum of selected option quantities.
func (s RuleSelection) Count() int {
	total := 0
	for _, opt := range s.SelectedOptions {
		total += opt.Quantity
	}
	return total
}

// IndexOf returns the position of optionName in the selection or -1.
func (s RuleSelection) IndexOf(optionName string) int {
	for i, opt := range s.SelectedOptions {
		if opt.OptionName == optionName {
			return i
		}
	}
	return -1
}

// RuleSelections is the customisation snapshot persisted on order lines.
type RuleSelections []RuleSelection

// Value implements driver.Valuer.
func (s RuleSelections) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]RuleSelection(s))
	if err != nil {
		return nil, fmt.Errorf("marshal rule selections: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *RuleSelections) Scan(value interface{}) error {
	return scanJSON(value, s, "rule selections")
}

func scanJSON(value interface{}, dest interface{}, label string) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%s: unsupported scan type %T", label, value)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}
