package dto

import (
	"bytes"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ClassifyApplicantRequest carries an applicant's self-reported profile.
// Numeric fields may arrive as numbers or strings.
type ClassifyApplicantRequest struct {
	MonthlyRevenue       any    `json:"monthlyRevenue"`
	CreditScore          any    `json:"creditScore"`
	TimeInBusinessMonths any    `json:"timeInBusiness"`
	Industry             string `json:"industry"`
	RequestedAmount      any    `json:"requestedAmount"`
}

// CreateDecisionRequest records a reviewer's decision.
type CreateDecisionRequest struct {
	BusinessName  string             `json:"businessName"`
	BusinessEmail string             `json:"businessEmail"`
	Status        string             `json:"status"`
	Approvals     []ApprovalEntryDTO `json:"approvals"`
}

// GetDecisionRequest identifies a decision to retrieve.
type GetDecisionRequest struct {
	ID string `json:"id"`
}

// ListDecisionsRequest filters a decision listing.
type ListDecisionsRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// UpdateDecisionRequest edits a decision. A nil Approvals keeps the stored
// list; otherwise it replaces it entirely. An empty Status keeps the status.
type UpdateDecisionRequest struct {
	ID        string             `json:"id"`
	Status    string             `json:"status,omitempty"`
	Approvals []ApprovalEntryDTO `json:"approvals,omitempty"`
}

// MigrateLegacyRequest controls a legacy migration run.
type MigrateLegacyRequest struct {
	BatchSize int  `json:"batchSize,omitempty"`
	DryRun    bool `json:"dryRun,omitempty"`
}

// IngestDecisionPayload is a decision document published by the intake
// platform. Scalars may be strings or numbers.
type IngestDecisionPayload struct {
	ID                  string                  `json:"id"`
	Status              FlexString              `json:"status"`
	BusinessName        FlexString              `json:"businessName"`
	BusinessEmail       FlexString              `json:"businessEmail"`
	AdvanceAmount       FlexString              `json:"advanceAmount"`
	Lender              FlexString              `json:"lender"`
	Term                FlexString              `json:"term"`
	PaymentFrequency    FlexString              `json:"paymentFrequency"`
	FactorRate          FlexString              `json:"factorRate"`
	MaxUpsell           FlexString              `json:"maxUpsell"`
	TotalPayback        FlexString              `json:"totalPayback"`
	NetAfterFees        FlexString              `json:"netAfterFees"`
	Notes               FlexString              `json:"notes"`
	ApprovalDate        FlexString              `json:"approvalDate"`
	FundedDate          FlexString              `json:"fundedDate"`
	AdditionalApprovals model.ApprovalsDocument `json:"additionalApprovals"`
	SchemaVersion       int                     `json:"schemaVersion"`
	CreatedAt           FlexString              `json:"createdAt"`
	UpdatedAt           FlexString              `json:"updatedAt"`
}

// FlexString accepts a JSON string, number, or bool and keeps its text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		*f = FlexString(strings.TrimSpace(string(data)))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ApprovalEntryDTO is the external representation of one lender offer.
type ApprovalEntryDTO struct {
	ID               string `json:"id"`
	Lender           string `json:"lender"`
	AdvanceAmount    string `json:"advanceAmount"`
	Term             string `json:"term"`
	PaymentFrequency string `json:"paymentFrequency"`
	FactorRate       string `json:"factorRate"`
	MaxUpsell        string `json:"maxUpsell"`
	TotalPayback     string `json:"totalPayback"`
	NetAfterFees     string `json:"netAfterFees"`
	Notes            string `json:"notes"`
	ApprovalDate     string `json:"approvalDate"`
	IsPrimary        bool   `json:"isPrimary"`
	CreatedAt        string `json:"createdAt"`
}

// AlternativeOptionDTO is a partner service on a foundation tier.
type AlternativeOptionDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Highlight   bool   `json:"highlight"`
}

// FoundationCTADTO is a foundation tier's call to action.
type FoundationCTADTO struct {
	Label       string `json:"label"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// FundingProfileResponse is the classifier verdict returned to callers.
type FundingProfileResponse struct {
	GateID               string                 `json:"gateId"`
	Tier                 string                 `json:"tier"`
	Product              string                 `json:"product"`
	MaxAmount            decimal.Decimal        `json:"maxAmount"`
	MaxAmountLabel       string                 `json:"maxAmountLabel"`
	RateDescriptor       string                 `json:"rateDescriptor"`
	Message              string                 `json:"message"`
	IsFoundationBuilding bool                   `json:"isFoundationBuilding"`
	FoundationReason     string                 `json:"foundationReason,omitempty"`
	AlternativeOptions   []AlternativeOptionDTO `json:"alternativeOptions,omitempty"`
	FoundationCTA        *FoundationCTADTO      `json:"foundationCTA,omitempty"`
	RequestExceedsCap    bool                   `json:"requestExceedsCap"`
	Cached               bool                   `json:"cached"`
}

// DecisionResponse is the external representation of a decision with its
// reconciled approvals.
type DecisionResponse struct {
	ID                   string             `json:"id"`
	Status               string             `json:"status"`
	BusinessName         string             `json:"businessName"`
	BusinessEmail        string             `json:"businessEmail"`
	FundedDate           *time.Time         `json:"fundedDate,omitempty"`
	SchemaVersion        int                `json:"schemaVersion"`
	Version              int                `json:"version"`
	Approvals            []ApprovalEntryDTO `json:"approvals"`
	BestApproval         *ApprovalEntryDTO  `json:"bestApproval,omitempty"`
	OtherApprovals       []ApprovalEntryDTO `json:"otherApprovals"`
	MostRecentApprovalAt time.Time          `json:"mostRecentApprovalAt"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// ListDecisionsResponse holds decisions sorted newest approval first.
type ListDecisionsResponse struct {
	Decisions []DecisionResponse `json:"decisions"`
}

// MigrateLegacyResponse summarises a migration run.
type MigrateLegacyResponse struct {
	Scanned     int      `json:"scanned"`
	Migrated    int      `json:"migrated"`
	Skipped     int      `json:"skipped"`
	DryRun      bool     `json:"dryRun"`
	DecisionIDs []string `json:"decisionIds"`
}
