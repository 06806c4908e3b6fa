package selection

import (
	"github.com/angelmondragon/tableserve-backend/pkg/types"
)

// Selections holds the in-progress choices for one item, keyed by rule name.
type Selections map[string]types.RuleSelection

// FromRuleSelections indexes a stored customisation snapshot by rule name.
func FromRuleSelections(list []types.RuleSelection) Selections {
	out := make(Selections, len(list))
	for _, sel := range list {
		out[sel.RuleName] = sel
	}
	return out
}

// Toggle resolves rule and option by name on rules and applies the action,
// returning a new Selections value. Unknown rules or options are ignored.
func (s Selections) Toggle(rules types.CustomizationRules, ruleName, optionName string, selected bool, quantity int) Selections {
	rule, ok := rules.Rule(ruleName)
	if !ok {
		return s.copy()
	}
	opt, ok := rule.Option(optionName)
	if !ok {
		return s.copy()
	}
	next := s.copy()
	next[ruleName] = ApplyToggle(rule, s[ruleName], Toggle{
		OptionName:    optionName,
		PriceModifier: opt.PriceModifier,
		Selected:      selected,
		Quantity:      quantity,
	})
	return next
}

// Ordered returns the non-empty rule selections in the item's rule order.
func (s Selections) Ordered(rules types.CustomizationRules) []types.RuleSelection {
	out := make([]types.RuleSelection, 0, len(s))
	for _, rule := range rules {
		sel, ok := s[rule.Name]
		if !ok || len(sel.SelectedOptions) == 0 {
			continue
		}
		out = append(out, sel)
	}
	return out
}

// AllRulesSatisfied reports whether every rule of the item is satisfied.
func AllRulesSatisfied(rules types.CustomizationRules, selections Selections) bool {
	for _, rule := range rules {
		if !IsRuleSatisfied(rule, selections[rule.Name]) {
			return false
		}
	}
	return true
}

// UnsatisfiedRules lists the names of rules blocking the item, in rule order.
func UnsatisfiedRules(rules types.CustomizationRules, selections Selections) []string {
	var names []string
	for _, rule := range rules {
		if !IsRuleSatisfied(rule, selections[rule.Name]) {
			names = append(names, rule.Name)
		}
	}
	return names
}

func (s Selections) copy() Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = clone(v)
	}
	return out
}
