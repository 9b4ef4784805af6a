package model

import (
	"time"
)

// PrimaryTerms are the flat primary-approval fields stored directly on a
// decision record.
type PrimaryTerms struct {
	AdvanceAmount    string `json:"advanceAmount"`
	Lender           string `json:"lender"`
	Term             string `json:"term"`
	PaymentFrequency string `json:"paymentFrequency"`
	FactorRate       string `json:"factorRate"`
	MaxUpsell        string `json:"maxUpsell"`
	TotalPayback     string `json:"totalPayback"`
	NetAfterFees     string `json:"netAfterFees"`
	Notes            string `json:"notes"`
	ApprovalDate     string `json:"approvalDate"`
}

// HasPrimary reports whether the flat fields describe a primary offer.
func (t PrimaryTerms) HasPrimary() bool {
	return t.AdvanceAmount != "" || t.Lender != ""
}

// RawDecision is an underwriting decision exactly as persisted. The shape
// of AdditionalApprovals depends on SchemaVersion and, for unversioned
// records, on the data itself.
type RawDecision struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	BusinessName  string `json:"businessName"`
	BusinessEmail string `json:"businessEmail"`
	PrimaryTerms
	FundedDate          *time.Time        `json:"fundedDate,omitempty"`
	AdditionalApprovals ApprovalsDocument `json:"additionalApprovals"`
	SchemaVersion       SchemaVersion     `json:"schemaVersion,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// Approvals decodes AdditionalApprovals using the declared schema version.
func (r RawDecision) Approvals() ApprovalSet {
	return DecodeApprovalSet(r.AdditionalApprovals, r.SchemaVersion)
}

// Clone returns a deep copy.
func (r RawDecision) Clone() RawDecision {
	out := r
	if r.FundedDate != nil {
		fd := *r.FundedDate
		out.FundedDate = &fd
	}
	if r.AdditionalApprovals != nil {
		out.AdditionalApprovals = append(ApprovalsDocument(nil), r.AdditionalApprovals...)
	}
	return out
}
