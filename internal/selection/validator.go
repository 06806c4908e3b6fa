package selection

import (
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Toggle is one guest action on an option of a rule.
type Toggle struct {
	OptionName    string
	PriceModifier decimal.Decimal
	Selected      bool
	Quantity      int
}

// capacity is the largest selection count a rule allows, or -1 when unbounded.
func capacity(rule types.CustomizationRule) int {
	switch rule.LimitType {
	case enums.LimitTypeUpTo, enums.LimitTypeExactly:
		return rule.Limit
	case enums.LimitTypeAll:
		return len(rule.Options)
	default:
		return -1
	}
}

// CanSelectMore reports whether another new option may be added to the rule.
func CanSelectMore(rule types.CustomizationRule, current types.RuleSelection) bool {
	limit := capacity(rule)
	if limit < 0 {
		return true
	}
	return current.Count() < limit
}

// ApplyToggle returns the rule selection after applying t. The input selection
// is never modified. Unknown options and disallowed additions leave the
// selection unchanged.
//
// Adding a new option to an EXACTLY rule that is already at its limit replaces
// the whole selection with that option, even when the limit is above one.
func ApplyToggle(rule types.CustomizationRule, current types.RuleSelection, t Toggle) types.RuleSelection {
	next := clone(current)
	next.RuleName = rule.Name

	idx := current.IndexOf(t.OptionName)
	if !t.Selected {
		if idx < 0 {
			return next
		}
		next.SelectedOptions = append(next.SelectedOptions[:idx], next.SelectedOptions[idx+1:]...)
		return next
	}

	opt, ok := rule.Option(t.OptionName)
	if !ok {
		return next
	}

	if idx >= 0 {
		existing := current.SelectedOptions[idx].Quantity
		room := remaining(rule, current.Count()-existing)
		next.SelectedOptions[idx].Quantity = clampQuantity(t.Quantity, opt.MaxQuantity, room)
		return next
	}

	if rule.LimitType == enums.LimitTypeExactly && current.Count() >= rule.Limit {
		return types.RuleSelection{
			RuleName: rule.Name,
			SelectedOptions: []types.SelectedOption{{
				OptionName:    t.OptionName,
				Quantity:      clampQuantity(t.Quantity, opt.MaxQuantity, rule.Limit),
				PriceModifier: t.PriceModifier,
			}},
		}
	}

	if !CanSelectMore(rule, current) {
		return next
	}

	next.SelectedOptions = append(next.SelectedOptions, types.SelectedOption{
		OptionName:    t.OptionName,
		Quantity:      clampQuantity(t.Quantity, opt.MaxQuantity, remaining(rule, current.Count())),
		PriceModifier: t.PriceModifier,
	})
	return next
}

// IsRuleSatisfied reports whether the selection meets a required rule.
// Optional rules are always satisfied.
func IsRuleSatisfied(rule types.CustomizationRule, selection types.RuleSelection) bool {
	if !rule.IsRequired {
		return true
	}
	count := selection.Count()
	switch rule.LimitType {
	case enums.LimitTypeExactly:
		return count == rule.Limit
	case enums.LimitTypeAtLeast:
		return count >= rule.Limit
	case enums.LimitTypeUpTo:
		return count > 0
	case enums.LimitTypeAll:
		return count == len(rule.Options)
	default:
		return false
	}
}

// remaining is how much quantity can still be assigned given a count, or -1 when unbounded.
func remaining(rule types.CustomizationRule, count int) int {
	limit := capacity(rule)
	if limit < 0 {
		return -1
	}
	return limit - count
}

// clampQuantity bounds a requested quantity to [1, maxQuantity] and to room when room >= 0.
func clampQuantity(requested, maxQuantity, room int) int {
	q := requested
	if q < 1 {
		q = 1
	}
	if maxQuantity > 0 && q > maxQuantity {
		q = maxQuantity
	}
	if room >= 0 && q > room {
		q = room
	}
	if q < 1 {
		q = 1
	}
	return q
}

func clone(s types.RuleSelection) types.RuleSelection {
	out := types.RuleSelection{RuleName: s.RuleName}
	if len(s.SelectedOptions) > 0 {
		out.SelectedOptions = make([]types.SelectedOption, len(s.SelectedOptions))
		copy(out.SelectedOptions, s.SelectedOptions)
	}
	return out
}
