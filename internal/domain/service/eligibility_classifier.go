package service

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// EligibilityClassifier: ordered gate table, first match wins
// ---------------------------------------------------------------------------

// Gate IDs in evaluation order.
const (
	GatePrimeBorrower                = "prime_borrower"
	GateGrowthCapital                = "growth_capital"
	GateWorkingCapital               = "working_capital"
	GateCashFlow                     = "cash_flow"
	GateStartupCapital               = "startup_capital"
	GateRestrictedPersonal           = "restricted_personal"
	GateRestrictedHighRisk           = "restricted_high_risk"
	GateFoundationCreditStacking     = "foundation_credit_stacking"
	GateFoundationCreditOptimization = "foundation_credit_optimization"
	GateFoundationCreditRestoration  = "foundation_credit_restoration"
	GateFoundationRevenueBuilding    = "foundation_revenue_building"
	GateFoundationGeneral            = "foundation_general"
)

// Tier names.
const (
	TierPrimeBorrower      = "Prime Borrower"
	TierGrowthCapital      = "Growth Capital"
	TierWorkingCapital     = "Working Capital"
	TierCashFlow           = "Cash Flow Financing"
	TierStartupCapital     = "Startup Capital"
	TierRestrictedNiche    = "Restricted Niche"
	TierFoundationBuilding = "Foundation Building"
)

var (
	primeCap            = decimal.NewFromInt(5_000_000)
	startupCap          = decimal.NewFromInt(150_000)
	restrictedPersonal  = decimal.NewFromInt(100_000)
	highRiskFloor       = decimal.NewFromInt(10_000)
	growthMultiple      = decimal.NewFromInt(3)
	workingMultiple     = decimal.NewFromInt(2)
	cashFlowMultiple    = decimal.RequireFromString("1.5")
	highRiskMultiple    = decimal.RequireFromString("0.5")
	revenuePrime        = decimal.NewFromInt(40_000)
	revenueGrowth       = decimal.NewFromInt(25_000)
	revenueWorkingFloor = decimal.NewFromInt(10_000)
)

// Gate is one rule of the classifier: a predicate and the profile it yields.
type Gate struct {
	ID      string
	Name    string
	Matches func(p valueobject.ApplicantProfile) bool
	Build   func(p valueobject.ApplicantProfile) model.FundingProfile
}

// PartnerLinks are the partner destinations used by foundation tiers.
type PartnerLinks struct {
	CreditStacking     string
	CreditOptimization string
	CreditRepair       string
	BusinessCredit     string
	SecuredCard        string
	RevenueCoaching    string
	InvoiceFactoring   string
	EquipmentLeasing   string
	Consultation       string
}

// DefaultPartnerLinks returns the production partner URLs.
func DefaultPartnerLinks() PartnerLinks {
	return PartnerLinks{
		CreditStacking:     "https://www.capitalloanconnect.com/partners/credit-stacking",
		CreditOptimization: "https://www.capitalloanconnect.com/partners/credit-optimization",
		CreditRepair:       "https://www.capitalloanconnect.com/partners/credit-restoration",
		BusinessCredit:     "https://www.capitalloanconnect.com/partners/business-credit-builder",
		SecuredCard:        "https://www.capitalloanconnect.com/partners/secured-business-card",
		RevenueCoaching:    "https://www.capitalloanconnect.com/partners/revenue-acceleration",
		InvoiceFactoring:   "https://www.capitalloanconnect.com/partners/invoice-factoring",
		EquipmentLeasing:   "https://www.capitalloanconnect.com/partners/equipment-leasing",
		Consultation:       "https://www.capitalloanconnect.com/consultation",
	}
}

// withDefaults fills empty links from DefaultPartnerLinks.
func (l PartnerLinks) withDefaults() PartnerLinks {
	d := DefaultPartnerLinks()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return PartnerLinks{
		CreditStacking:     pick(l.CreditStacking, d.CreditStacking),
		CreditOptimization: pick(l.CreditOptimization, d.CreditOptimization),
		CreditRepair:       pick(l.CreditRepair, d.CreditRepair),
		BusinessCredit:     pick(l.BusinessCredit, d.BusinessCredit),
		SecuredCard:        pick(l.SecuredCard, d.SecuredCard),
		RevenueCoaching:    pick(l.RevenueCoaching, d.RevenueCoaching),
		InvoiceFactoring:   pick(l.InvoiceFactoring, d.InvoiceFactoring),
		EquipmentLeasing:   pick(l.EquipmentLeasing, d.EquipmentLeasing),
		Consultation:       pick(l.Consultation, d.Consultation),
	}
}

// EligibilityClassifier maps an applicant profile to exactly one funding tier.
// It holds no mutable state and is safe for concurrent use.
type EligibilityClassifier struct {
	partners PartnerLinks
	gates    []Gate
}

// ClassifierOption configures an EligibilityClassifier.
type ClassifierOption func(*EligibilityClassifier)

// WithPartnerLinks overrides partner URLs. Empty fields keep their defaults.
func WithPartnerLinks(links PartnerLinks) ClassifierOption {
	return func(c *EligibilityClassifier) { c.partners = links.withDefaults() }
}

// NewEligibilityClassifier returns a classifier with the standard gate table.
func NewEligibilityClassifier(opts ...ClassifierOption) *EligibilityClassifier {
	c := &EligibilityClassifier{partners: DefaultPartnerLinks()}
	for _, opt := range opts {
		opt(c)
	}
	c.gates = c.buildGates()
	return c
}

// Gates returns the gate table in evaluation order.
func (c *EligibilityClassifier) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

// Classify evaluates the gates top-down and returns the first match. Later
// gates are never evaluated. The last gate always matches.
func (c *EligibilityClassifier) Classify(profile valueobject.ApplicantProfile) model.FundingProfile {
	p := profile.Normalized()
	for _, g := range c.gates {
		if !g.Matches(p) {
			continue
		}
		return finalize(g, p)
	}
	// Unreachable while foundation_general is last.
	return finalize(c.gates[len(c.gates)-1], p)
}

func finalize(g Gate, p valueobject.ApplicantProfile) model.FundingProfile {
	fp := g.Build(p)
	fp.GateID = g.ID
	fp.RequestExceedsCap = fp.HasFundingCapacity() && p.RequestedAmount.GreaterThan(fp.MaxAmount)
	return fp
}

var defaultClassifier = NewEligibilityClassifier()

// Classify runs the default classifier.
func Classify(profile valueobject.ApplicantProfile) model.FundingProfile {
	return defaultClassifier.Classify(profile)
}

// ---------------------------------------------------------------------------
// Gate table
// ---------------------------------------------------------------------------

func (c *EligibilityClassifier) buildGates() []Gate {
	gates := []Gate{
		{
			ID:   GatePrimeBorrower,
			Name: TierPrimeBorrower,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.TimeInBusinessMonths >= 24 &&
					p.MonthlyRevenue.GreaterThanOrEqual(revenuePrime) &&
					p.CreditScore >= 680 &&
					!p.IsRestrictedIndustry()
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierPrimeBorrower, "SBA & Bank Term Loans", primeCap,
					"Starting at 6.5% APR",
					"Your business qualifies for our lowest-cost capital. SBA and bank term loans offer terms up to 10 years.")
			},
		},
		{
			ID:   GateGrowthCapital,
			Name: TierGrowthCapital,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.TimeInBusinessMonths >= 12 &&
					p.MonthlyRevenue.GreaterThanOrEqual(revenueGrowth) &&
					p.CreditScore >= 650 &&
					!p.IsRestrictedIndustry()
			},
			Build: func(p valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierGrowthCapital, "Term Loan", p.MonthlyRevenue.Mul(growthMultiple),
					"8% - 18% APR",
					"Your revenue and credit support a term loan of up to three months of revenue, repaid over 1 to 5 years.")
			},
		},
		{
			ID:   GateWorkingCapital,
			Name: TierWorkingCapital,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.TimeInBusinessMonths >= 6 &&
					p.MonthlyRevenue.GreaterThanOrEqual(revenueWorkingFloor) &&
					p.CreditScore >= 650 &&
					!p.IsRestrictedIndustry()
			},
			Build: func(p valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierWorkingCapital, "Revenue-Based Financing", p.MonthlyRevenue.Mul(workingMultiple),
					"Factor rates from 1.10 - 1.25",
					"Revenue-based financing repays as a share of sales, so payments flex with your cash flow.")
			},
		},
		{
			ID:   GateCashFlow,
			Name: TierCashFlow,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.TimeInBusinessMonths >= 6 &&
					p.MonthlyRevenue.GreaterThanOrEqual(revenueWorkingFloor) &&
					p.CreditScore < 650
			},
			Build: func(p valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierCashFlow, "Merchant Cash Advance", p.MonthlyRevenue.Mul(cashFlowMultiple),
					"Factor rates from 1.25 - 1.49",
					"Approval is based on your deposits rather than your credit score. Funding can arrive in as little as 24 hours.")
			},
		},
		{
			// No restricted-industry exclusion on this gate.
			ID:   GateStartupCapital,
			Name: TierStartupCapital,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.CreditScore >= 680 && p.TimeInBusinessMonths < 12
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierStartupCapital, "Business Credit Stacking", startupCap,
					"0% intro APR for 12 - 21 months",
					"Your personal credit can open business credit lines at 0% introductory APR while the business builds its history.")
			},
		},
		{
			ID:   GateRestrictedPersonal,
			Name: TierRestrictedNiche,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.IsRestrictedIndustry() && p.CreditScore >= 700
			},
			Build: func(_ valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierRestrictedNiche, "Personal Term Loan", restrictedPersonal,
					"9% - 24% APR",
					"Most business lenders exclude your industry, but your personal credit qualifies for a personal term loan used for business purposes.")
			},
		},
		{
			ID:   GateRestrictedHighRisk,
			Name: TierRestrictedNiche,
			Matches: func(p valueobject.ApplicantProfile) bool {
				return p.IsRestrictedIndustry()
			},
			Build: func(p valueobject.ApplicantProfile) model.FundingProfile {
				return funded(TierRestrictedNiche, "High-Risk MCA",
					decimal.Max(p.MonthlyRevenue.Mul(highRiskMultiple), highRiskFloor),
					"Factor rates from 1.35 - 1.60",
					"Specialty lenders serve restricted industries with merchant cash advances sized to your deposits.")
			},
		},
	}
	return append(gates, c.foundationGates()...)
}

func funded(tier, product string, capAmount decimal.Decimal, rate, msg string) model.FundingProfile {
	capAmount = capAmount.Round(2)
	return model.FundingProfile{
		Tier:           tier,
		Product:        product,
		MaxAmount:      capAmount,
		MaxAmountLabel: FormatUSD(capAmount),
		RateDescriptor: rate,
		Message:        msg,
	}
}

// FormatUSD renders a whole-dollar figure with thousands separators.
func FormatUSD(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("$%d", amount.Round(0).IntPart())
}
