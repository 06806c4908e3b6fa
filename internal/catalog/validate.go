package catalog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"go.uber.org/multierr"
)

// ValidateItem checks the structural guarantees the rule engine relies on.
// Rules and options are addressed by name, so duplicate names within an item
// or a rule are reported instead of being silently merged.
func ValidateItem(item Item) error {
	var err error
	if strings.TrimSpace(item.Name) == "" {
		err = multierr.Append(err, fmt.Errorf("item %s: name is required", item.ID))
	}
	if item.BasePrice.IsNegative() {
		err = multierr.Append(err, fmt.Errorf("item %q: base price must not be negative", item.Name))
	}

	seenRules := make(map[string]struct{}, len(item.Customizations))
	for _, rule := range item.Customizations {
		if _, dup := seenRules[rule.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("item %q: duplicate rule %q", item.Name, rule.Name))
		}
		seenRules[rule.Name] = struct{}{}
		err = multierr.Append(err, validateRule(item.Name, rule))
	}
	return err
}

func validateRule(itemName string, rule types.CustomizationRule) error {
	var err error
	if strings.TrimSpace(rule.Name) == "" {
		err = multierr.Append(err, fmt.Errorf("item %q: rule name is required", itemName))
	}
	if !rule.LimitType.IsValid() {
		err = multierr.Append(err, fmt.Errorf("rule %q: invalid limit type %q", rule.Name, rule.LimitType))
	}
	if rule.Limit < 1 {
		err = multierr.Append(err, fmt.Errorf("rule %q: limit must be at least 1", rule.Name))
	}
	if len(rule.Options) == 0 {
		err = multierr.Append(err, fmt.Errorf("rule %q: at least one option is required", rule.Name))
	}

	seen := make(map[string]struct{}, len(rule.Options))
	for _, opt := range rule.Options {
		if _, dup := seen[opt.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("rule %q: duplicate option %q", rule.Name, opt.Name))
		}
		seen[opt.Name] = struct{}{}
		if opt.MaxQuantity < 1 {
			err = multierr.Append(err, fmt.Errorf("rule %q: option %q max quantity must be at least 1", rule.Name, opt.Name))
		}
	}
	return err
}

// Problems flattens a ValidateItem error into messages suitable for error details.
func Problems(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
