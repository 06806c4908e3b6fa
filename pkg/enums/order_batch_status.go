package enums

import "fmt"

// OrderBatchStatus tracks a submitted batch until the kitchen picks it up.
type OrderBatchStatus string

const (
	OrderBatchStatusSubmitted OrderBatchStatus = "submitted"
	OrderBatchStatusForwarded OrderBatchStatus = "forwarded"
)

var validOrderBatchStatuses = []OrderBatchStatus{
	OrderBatchStatusSubmitted,
	OrderBatchStatusForwarded,
}

// String implements fmt.Stringer.
func (s OrderBatchStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderBatchStatus.
func (s OrderBatchStatus) IsValid() bool {
	for _, candidate := range validOrderBatchStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderBatchStatus converts raw input into an OrderBatchStatus.
func ParseOrderBatchStatus(value string) (OrderBatchStatus, error) {
	for _, candidate := range validOrderBatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order batch status %q", value)
}
