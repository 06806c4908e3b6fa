package enums

import (
	"fmt"
	"strings"
)

// LimitType is the cardinality policy a customization rule applies to its options.
type LimitType string

const (
	LimitTypeUpTo    LimitType = "UP_TO"
	LimitTypeExactly LimitType = "EXACTLY"
	LimitTypeAtLeast LimitType = "AT_LEAST"
	LimitTypeAll     LimitType = "ALL"
)

var validLimitTypes = []LimitType{
	LimitTypeUpTo,
	LimitTypeExactly,
	LimitTypeAtLeast,
	LimitTypeAll,
}

// String implements fmt.Stringer.
func (l LimitType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LimitType.
func (l LimitType) IsValid() bool {
	for _, candidate := range validLimitTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// Capped reports whether the limit type puts an upper bound on the selection count.
func (l LimitType) Capped() bool {
	return l != LimitTypeAtLeast
}

// ParseLimitType converts raw input into a LimitType. Matching ignores case.
func ParseLimitType(value string) (LimitType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validLimitTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid limit type %q", value)
}
