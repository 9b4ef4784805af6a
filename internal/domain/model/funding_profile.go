package model

import (
	"github.com/shopspring/decimal"
)

// AlternativeOption is a partner service offered alongside a foundation tier.
type AlternativeOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Highlight   bool   `json:"highlight"`
}

// FoundationCTA is the single call to action shown on a foundation tier.
type FoundationCTA struct {
	Label       string `json:"label"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// FundingProfile is the classifier's verdict for one applicant.
// MaxAmount zero means the tier carries no direct funding capacity.
type FundingProfile struct {
	GateID               string              `json:"gateId"`
	Tier                 string              `json:"tier"`
	Product              string              `json:"product"`
	MaxAmount            decimal.Decimal     `json:"maxAmount"`
	MaxAmountLabel       string              `json:"maxAmountLabel"`
	RateDescriptor       string              `json:"rateDescriptor"`
	Message              string              `json:"message"`
	IsFoundationBuilding bool                `json:"isFoundationBuilding"`
	FoundationReason     string              `json:"foundationReason,omitempty"`
	AlternativeOptions   []AlternativeOption `json:"alternativeOptions,omitempty"`
	FoundationCTA        *FoundationCTA      `json:"foundationCTA,omitempty"`
	RequestExceedsCap    bool                `json:"requestExceedsCap"`
}

// HasFundingCapacity reports whether the tier offers direct funding.
func (p FundingProfile) HasFundingCapacity() bool {
	return p.MaxAmount.IsPositive()
}
