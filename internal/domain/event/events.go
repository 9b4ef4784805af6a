package event

import (
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateTypeDecision = "UnderwritingDecision"

// Event type names published on the underwriting topic.
const (
	TypeDecisionCreated       = "underwriting.decision.created"
	TypeDecisionStatusChanged = "underwriting.decision.status_changed"
	TypeApprovalsUpdated      = "underwriting.decision.approvals_updated"
	TypeApprovalsMigrated     = "underwriting.decision.approvals_migrated"
)

// ---------------------------------------------------------------------------
// Underwriting Decision Events
// ---------------------------------------------------------------------------

// DecisionCreated is raised when a decision first enters the system.
type DecisionCreated struct {
	events.BaseEvent
	BusinessName  string `json:"business_name"`
	Status        string `json:"status"`
	ApprovalCount int    `json:"approval_count"`
}

func NewDecisionCreated(decisionID, businessName, status string, approvalCount int, now time.Time) DecisionCreated {
	return DecisionCreated{
		BaseEvent:     events.NewBaseEvent(TypeDecisionCreated, decisionID, aggregateTypeDecision, now),
		BusinessName:  businessName,
		Status:        status,
		ApprovalCount: approvalCount,
	}
}

// DecisionStatusChanged is raised whenever the status actually changes.
type DecisionStatusChanged struct {
	events.BaseEvent
	From       string     `json:"from"`
	To         string     `json:"to"`
	FundedDate *time.Time `json:"funded_date,omitempty"`
}

func NewDecisionStatusChanged(decisionID, from, to string, fundedDate *time.Time, now time.Time) DecisionStatusChanged {
	return DecisionStatusChanged{
		BaseEvent:  events.NewBaseEvent(TypeDecisionStatusChanged, decisionID, aggregateTypeDecision, now),
		From:       from,
		To:         to,
		FundedDate: fundedDate,
	}
}

// ApprovalsUpdated is raised when an editor replaces the approval list.
type ApprovalsUpdated struct {
	events.BaseEvent
	ApprovalCount int    `json:"approval_count"`
	PrimaryLender string `json:"primary_lender,omitempty"`
}

func NewApprovalsUpdated(decisionID string, approvalCount int, primaryLender string, now time.Time) ApprovalsUpdated {
	return ApprovalsUpdated{
		BaseEvent:     events.NewBaseEvent(TypeApprovalsUpdated, decisionID, aggregateTypeDecision, now),
		ApprovalCount: approvalCount,
		PrimaryLender: primaryLender,
	}
}

// ApprovalsMigrated is raised when a legacy approval list is rewritten into
// the canonical form.
type ApprovalsMigrated struct {
	events.BaseEvent
	ApprovalCount int    `json:"approval_count"`
	Source        string `json:"source"`
}

func NewApprovalsMigrated(decisionID string, approvalCount int, source string, now time.Time) ApprovalsMigrated {
	return ApprovalsMigrated{
		BaseEvent:     events.NewBaseEvent(TypeApprovalsMigrated, decisionID, aggregateTypeDecision, now),
		ApprovalCount: approvalCount,
		Source:        source,
	}
}
