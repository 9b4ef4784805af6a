package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// DecisionStatus: immutable value object
// ---------------------------------------------------------------------------

// DecisionStatus is the lifecycle stage of an underwriting decision. Any
// status may move to any other; only funded carries a side effect.
type DecisionStatus struct {
	value string
}

const (
	decisionStatusPending     = "pending"
	decisionStatusApproved    = "approved"
	decisionStatusDeclined    = "declined"
	decisionStatusUnqualified = "unqualified"
	decisionStatusFunded      = "funded"
)

var (
	DecisionStatusPending     = DecisionStatus{value: decisionStatusPending}
	DecisionStatusApproved    = DecisionStatus{value: decisionStatusApproved}
	DecisionStatusDeclined    = DecisionStatus{value: decisionStatusDeclined}
	DecisionStatusUnqualified = DecisionStatus{value: decisionStatusUnqualified}
	DecisionStatusFunded      = DecisionStatus{value: decisionStatusFunded}
)

var validDecisionStatuses = map[string]DecisionStatus{
	decisionStatusPending:     DecisionStatusPending,
	decisionStatusApproved:    DecisionStatusApproved,
	decisionStatusDeclined:    DecisionStatusDeclined,
	decisionStatusUnqualified: DecisionStatusUnqualified,
	decisionStatusFunded:      DecisionStatusFunded,
}

// ErrInvalidDecisionStatus is returned for status strings outside the known set.
var ErrInvalidDecisionStatus = errors.New("invalid decision status")

// NewDecisionStatus parses a raw status string. Matching ignores case and
// surrounding whitespace because the intake platform is not consistent.
func NewDecisionStatus(s string) (DecisionStatus, error) {
	v, ok := validDecisionStatuses[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DecisionStatus{}, fmt.Errorf("%w: %q", ErrInvalidDecisionStatus, s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DecisionStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DecisionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DecisionStatus) Equal(other DecisionStatus) bool { return s.value == other.value }

// IsFunded reports whether the status is funded.
func (s DecisionStatus) IsFunded() bool { return s.value == decisionStatusFunded }
