package service

import (
	"github.com/shopspring/decimal"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

// Foundation reasons reported on foundation-building profiles.
const (
	ReasonGoodCreditNewBusiness = "good_credit_new_business"
	ReasonCreditOptimization    = "credit_optimization"
	ReasonCreditRestoration     = "credit_restoration"
	ReasonRevenueBuilding       = "revenue_building"
	ReasonGeneral               = "general"
)

// foundationGates are evaluated only after every funded gate has failed.
// They carry no funding capacity.
func (c *EligibilityClassifier) foundationGates() []Gate {
	links := c.partners
	return []Gate{
		{
			ID:   GateFoundationCreditStacking,
			Name: "Credit Stacking Path",
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.CreditScore >= 650 && p.TimeInBusinessMonths < 6
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return foundation(
					"0% Business Credit Stacking",
					"Up to $150,000 in 0% credit lines",
					"0% intro APR on partner credit lines",
					"Your credit is strong but the business is under six months old. Credit stacking turns personal credit into business capital now, and traditional funding opens up at six months.",
					ReasonGoodCreditNewBusiness,
					[]model.AlternativeOption{
						{Name: "Credit Stacking Program", Description: "Multiple 0% business credit lines opened in a coordinated sequence.", URL: links.CreditStacking, Highlight: true},
						{Name: "Business Credit Builder", Description: "Establish vendor tradelines and a business credit file.", URL: links.BusinessCredit},
						{Name: "Startup Equipment Leasing", Description: "Lease equipment against the asset rather than business history.", URL: links.EquipmentLeasing},
					},
					model.FoundationCTA{Label: "Start Credit Stacking", URL: links.CreditStacking, Description: "See how much 0% credit your profile can unlock."},
				)
			},
		},
		{
			ID:   GateFoundationCreditOptimization,
			Name: "Credit Optimization Path",
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.CreditScore >= 550 && p.CreditScore < 650
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return foundation(
					"Credit Optimization Program",
					"Funding unlocks at 650+ credit",
					"Not applicable during credit improvement",
					"You are close. Raising your score above 650 opens working capital and term loan options.",
					ReasonCreditOptimization,
					[]model.AlternativeOption{
						{Name: "Credit Optimization Coaching", Description: "A targeted plan to lift your score into the 650+ range.", URL: links.CreditOptimization, Highlight: true},
						{Name: "Secured Business Credit Card", Description: "Build positive payment history with a secured line.", URL: links.SecuredCard},
						{Name: "Business Credit Builder", Description: "Start a business credit file separate from personal credit.", URL: links.BusinessCredit},
					},
					model.FoundationCTA{Label: "Optimize My Credit", URL: links.CreditOptimization, Description: "Get a free credit analysis and a step-by-step plan."},
				)
			},
		},
		{
			ID:   GateFoundationCreditRestoration,
			Name: "Credit Restoration Path",
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.CreditScore > 0 && p.CreditScore < 550
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return foundation(
					"Credit Restoration Program",
					"Funding unlocks after credit restoration",
					"Not applicable during credit restoration",
					"Lenders need to see a stronger credit profile first. A restoration program addresses negative items and rebuilds your score.",
					ReasonCreditRestoration,
					[]model.AlternativeOption{
						{Name: "Credit Restoration Service", Description: "Dispute inaccurate items and rebuild your credit profile.", URL: links.CreditRepair, Highlight: true},
						{Name: "Secured Business Credit Card", Description: "Rebuild payment history with a low-risk secured line.", URL: links.SecuredCard},
					},
					model.FoundationCTA{Label: "Restore My Credit", URL: links.CreditRepair, Description: "Start with a free credit review."},
				)
			},
		},
		{
			ID:   GateFoundationRevenueBuilding,
			Name: "Revenue Building Path",
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.MonthlyRevenue.LessThan(revenueWorkingFloor) &&
					p.CreditScore >= 600 &&
					p.TimeInBusinessMonths >= 6
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return foundation(
					"Revenue Growth Program",
					"Funding unlocks at $10,000+ monthly revenue",
					"Not applicable during revenue growth",
					"Your credit and time in business qualify, but lenders look for at least $10,000 in monthly revenue.",
					ReasonRevenueBuilding,
					[]model.AlternativeOption{
						{Name: "Revenue Acceleration Coaching", Description: "Work with advisors on pricing, sales and deposits.", URL: links.RevenueCoaching, Highlight: true},
						{Name: "Invoice Factoring", Description: "Turn outstanding invoices into cash today.", URL: links.InvoiceFactoring},
						{Name: "Business Credit Builder", Description: "Build business credit while revenue grows.", URL: links.BusinessCredit},
					},
					model.FoundationCTA{Label: "Grow My Revenue", URL: links.RevenueCoaching, Description: "Book a session with a revenue advisor."},
				)
			},
		},
		{
			ID:   GateFoundationGeneral,
			Name: "Funding Readiness Path",
			Matches: func(_ valueobject.ApplicantProfile) bool {
				return true
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return foundation(
					"Funding Readiness Program",
					"Complete your profile to unlock funding",
					"Not applicable until funding readiness",
					"We need a bit more to match you with lenders. A funding advisor can review your business and build a plan to qualify.",
					ReasonGeneral,
					[]model.AlternativeOption{
						{Name: "Funding Readiness Consultation", Description: "A free review of what lenders will look for.", URL: links.Consultation, Highlight: true},
						{Name: "Business Credit Builder", Description: "Start building the credit profile lenders check first.", URL: links.BusinessCredit},
					},
					model.FoundationCTA{Label: "Book a Free Consultation", URL: links.Consultation, Description: "Talk to a funding advisor about your next steps."},
				)
			},
		},
	}
}

func foundation(
	product, amountLabel, rate, msg, reason string,
	options []model.AlternativeOption,
	cta model.FoundationCTA,
) model.FundingProfile {
	return model.FundingProfile{
		Tier:                 TierFoundationBuilding,
		Product:              product,
		MaxAmount:            decimal.Zero,
		MaxAmountLabel:       amountLabel,
		RateDescriptor:       rate,
		Message:              msg,
		IsFoundationBuilding: true,
		FoundationReason:     reason,
		AlternativeOptions:   options,
		FoundationCTA:        &cta,
	}
}
