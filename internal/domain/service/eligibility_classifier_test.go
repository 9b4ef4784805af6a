package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

func profile(revenue int64, credit, months int, industry string) valueobject.ApplicantProfile {
	return valueobject.ApplicantProfile{
		MonthlyRevenue:       decimal.NewFromInt(revenue),
		CreditScore:          credit,
		TimeInBusinessMonths: months,
		Industry:             industry,
	}
}

func TestClassify_Examples(t *testing.T) {
	t.Run("prime borrower", func(t *testing.T) {
		got := service.Classify(profile(50000, 720, 36, "Retail"))
		assert.Equal(t, service.TierPrimeBorrower, got.Tier)
		assert.Equal(t, "SBA & Bank Term Loans", got.Product)
		assert.True(t, got.MaxAmount.Equal(decimal.NewFromInt(5_000_000)))
		assert.Equal(t, "$5,000,000", got.MaxAmountLabel)
		assert.False(t, got.IsFoundationBuilding)
		assert.Equal(t, service.GatePrimeBorrower, got.GateID)
	})

	t.Run("restricted industry skips the term tiers", func(t *testing.T) {
		got := service.Classify(profile(30000, 660, 14, "Gambling"))
		assert.Equal(t, service.TierRestrictedNiche, got.Tier)
		assert.Equal(t, "High-Risk MCA", got.Product)
		assert.True(t, got.MaxAmount.Equal(decimal.NewFromInt(15000)))
	})

	t.Run("restricted override beats prime", func(t *testing.T) {
		got := service.Classify(profile(50000, 720, 36, "Cannabis"))
		assert.Equal(t, service.TierRestrictedNiche, got.Tier)
		assert.Equal(t, "Personal Term Loan", got.Product)
		assert.True(t, got.MaxAmount.Equal(decimal.NewFromInt(100_000)))
		assert.Equal(t, "$100,000", got.MaxAmountLabel)
		assert.Equal(t, service.GateRestrictedPersonal, got.GateID)
	})

	t.Run("cash flow financing", func(t *testing.T) {
		got := service.Classify(profile(20000, 600, 8, ""))
		assert.Equal(t, service.TierCashFlow, got.Tier)
		assert.True(t, got.MaxAmount.Equal(decimal.NewFromInt(30000)))
		assert.Equal(t, "$30,000", got.MaxAmountLabel)
	})

	t.Run("good credit too new falls to credit stacking", func(t *testing.T) {
		got := service.Classify(profile(0, 660, 3, ""))
		assert.True(t, got.IsFoundationBuilding)
		assert.Equal(t, service.ReasonGoodCreditNewBusiness, got.FoundationReason)
		assert.True(t, got.MaxAmount.IsZero())
	})

	t.Run("coerced garbage falls to the catch-all", func(t *testing.T) {
		p := valueobject.NewApplicantProfile(valueobject.RawApplicantProfile{
			MonthlyRevenue:       "abc",
			CreditScore:          nil,
			TimeInBusinessMonths: "n/a",
		})
		got := service.Classify(p)
		assert.Equal(t, service.GateFoundationGeneral, got.GateID)
		assert.True(t, got.IsFoundationBuilding)
	})
}

// TestClassify_BoundaryMatrix pins every gate threshold on both sides so a
// reordering of the gate table shows up as a failure.
func TestClassify_BoundaryMatrix(t *testing.T) {
	tests := []struct {
		name     string
		revenue  int64
		credit   int
		months   int
		industry string
		gate     string
		cap      int64
	}{
		// prime_borrower edges
		{"prime at every floor", 40000, 680, 24, "", service.GatePrimeBorrower, 5_000_000},
		{"prime one month short", 40000, 680, 23, "", service.GateGrowthCapital, 120000},
		{"prime revenue short", 39999, 680, 24, "", service.GateGrowthCapital, 119997},
		{"prime credit short", 40000, 679, 24, "", service.GateGrowthCapital, 120000},
		{"prime restricted", 40000, 680, 24, "Cannabis", service.GateRestrictedHighRisk, 20000},

		// growth_capital edges
		{"growth at every floor", 25000, 650, 12, "", service.GateGrowthCapital, 75000},
		{"growth one month short", 25000, 650, 11, "", service.GateWorkingCapital, 50000},
		{"growth revenue short", 24999, 650, 12, "", service.GateWorkingCapital, 49998},
		{"growth credit short", 25000, 649, 12, "", service.GateCashFlow, 37500},
		{"growth restricted", 25000, 650, 12, "Adult", service.GateRestrictedHighRisk, 12500},

		// working_capital edges
		{"working at every floor", 10000, 650, 6, "", service.GateWorkingCapital, 20000},
		{"working restricted", 10000, 650, 6, "Non-Profit", service.GateRestrictedHighRisk, 10000},
		{"working restricted with strong credit", 10000, 700, 12, "Non-Profit", service.GateRestrictedPersonal, 100000},
		{"working revenue short", 9999, 650, 6, "", service.GateFoundationRevenueBuilding, 0},
		{"working too new", 10000, 650, 5, "", service.GateFoundationCreditStacking, 0},

		// cash_flow edges
		{"cash flow at floor", 10000, 649, 6, "", service.GateCashFlow, 15000},
		{"cash flow zero credit", 10000, 0, 6, "", service.GateCashFlow, 15000},
		{"cash flow restricted is not excluded", 10000, 500, 6, "Gambling", service.GateCashFlow, 15000},
		{"cash flow too new", 10000, 649, 5, "", service.GateFoundationCreditOptimization, 0},

		// startup_capital edges
		{"startup at floor", 0, 680, 0, "", service.GateStartupCapital, 150000},
		{"startup at eleven months", 0, 680, 11, "", service.GateStartupCapital, 150000},
		{"startup at twelve months", 0, 680, 12, "", service.GateFoundationRevenueBuilding, 0},
		{"startup credit short", 0, 679, 3, "", service.GateFoundationCreditStacking, 0},
		{"startup restricted still matches", 0, 720, 3, "Gambling", service.GateStartupCapital, 150000},

		// restricted override
		{"restricted personal at floor", 5000, 700, 12, "Gambling", service.GateRestrictedPersonal, 100000},
		{"restricted personal above", 0, 800, 30, "financial services", service.GateRestrictedPersonal, 100000},
		{"restricted new business takes startup first", 30000, 699, 3, "Gambling", service.GateStartupCapital, 150000},
		{"restricted high risk below personal", 30000, 660, 3, "Gambling", service.GateRestrictedHighRisk, 15000},
		{"restricted high risk floor", 5000, 600, 12, "Cannabis", service.GateRestrictedHighRisk, 10000},
		{"restricted high risk zero revenue", 0, 0, 0, "Adult", service.GateRestrictedHighRisk, 10000},
		{"restricted high risk exact floor", 20000, 600, 3, "Adult", service.GateRestrictedHighRisk, 10000},

		// foundation tiers
		{"stacking at floor", 0, 650, 5, "", service.GateFoundationCreditStacking, 0},
		{"stacking upper credit", 0, 679, 0, "", service.GateFoundationCreditStacking, 0},
		{"optimization at floor", 0, 550, 0, "", service.GateFoundationCreditOptimization, 0},
		{"optimization ceiling", 0, 649, 30, "", service.GateFoundationCreditOptimization, 0},
		{"restoration just below", 0, 549, 30, "", service.GateFoundationCreditRestoration, 0},
		{"restoration minimum", 50000, 1, 2, "", service.GateFoundationCreditRestoration, 0},
		{"revenue building at floor", 9999, 680, 12, "", service.GateFoundationRevenueBuilding, 0},
		{"revenue building too new", 9999, 680, 5, "", service.GateStartupCapital, 150000},
		{"revenue building unknown credit", 0, 0, 12, "", service.GateFoundationGeneral, 0},
		{"general zero everything", 0, 0, 0, "", service.GateFoundationGeneral, 0},
		{"general high revenue no credit new", 90000, 0, 2, "", service.GateFoundationGeneral, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := service.Classify(profile(tc.revenue, tc.credit, tc.months, tc.industry))
			assert.Equal(t, tc.gate, got.GateID)
			assert.True(t, got.MaxAmount.Equal(decimal.NewFromInt(tc.cap)), "max amount %s", got.MaxAmount)
			assert.Equal(t, tc.cap == 0, got.IsFoundationBuilding)
		})
	}
}

func TestClassify_FoundationTiersCarryOptions(t *testing.T) {
	classifier := service.NewEligibilityClassifier()
	for _, g := range classifier.Gates() {
		fp := g.Build(valueobject.ApplicantProfile{})
		if !fp.IsFoundationBuilding {
			continue
		}
		t.Run(g.ID, func(t *testing.T) {
			assert.True(t, fp.MaxAmount.IsZero())
			assert.NotEmpty(t, fp.FoundationReason)
			assert.GreaterOrEqual(t, len(fp.AlternativeOptions), 2)
			assert.LessOrEqual(t, len(fp.AlternativeOptions), 3)

			highlighted := 0
			for _, o := range fp.AlternativeOptions {
				assert.NotEmpty(t, o.URL)
				if o.Highlight {
					highlighted++
				}
			}
			assert.Equal(t, 1, highlighted)

			require.NotNil(t, fp.FoundationCTA)
			assert.NotEmpty(t, fp.FoundationCTA.Label)
			assert.NotEmpty(t, fp.FoundationCTA.URL)
		})
	}
}

func TestEligibilityClassifier_Gates(t *testing.T) {
	gates := service.NewEligibilityClassifier().Gates()
	ids := make([]string, 0, len(gates))
	for _, g := range gates {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{
		service.GatePrimeBorrower,
		service.GateGrowthCapital,
		service.GateWorkingCapital,
		service.GateCashFlow,
		service.GateStartupCapital,
		service.GateRestrictedPersonal,
		service.GateRestrictedHighRisk,
		service.GateFoundationCreditStacking,
		service.GateFoundationCreditOptimization,
		service.GateFoundationCreditRestoration,
		service.GateFoundationRevenueBuilding,
		service.GateFoundationGeneral,
	}, ids)

	t.Run("catch-all matches anything", func(t *testing.T) {
		last := gates[len(gates)-1]
		assert.True(t, last.Matches(valueobject.ApplicantProfile{}))
		assert.True(t, last.Matches(profile(1_000_000, 850, 240, "Retail")))
	})

	t.Run("each gate is testable on its own", func(t *testing.T) {
		growth := gates[1]
		assert.True(t, growth.Matches(profile(25000, 650, 12, "")))
		assert.False(t, growth.Matches(profile(25000, 650, 12, "Gambling")))

		working := gates[2]
		assert.True(t, working.Matches(profile(10000, 650, 6, "")))
		assert.False(t, working.Matches(profile(10000, 650, 6, "Cannabis")))
	})
}

func TestClassify_PartnerLinks(t *testing.T) {
	classifier := service.NewEligibilityClassifier(service.WithPartnerLinks(service.PartnerLinks{
		CreditRepair: "https://partner.test/repair",
	}))

	got := classifier.Classify(profile(0, 500, 0, ""))
	require.Equal(t, service.GateFoundationCreditRestoration, got.GateID)
	require.NotNil(t, got.FoundationCTA)
	assert.Equal(t, "https://partner.test/repair", got.FoundationCTA.URL)
	assert.Equal(t, "https://partner.test/repair", got.AlternativeOptions[0].URL)
	assert.Equal(t, service.DefaultPartnerLinks().SecuredCard, got.AlternativeOptions[1].URL)
}

func TestClassify_RequestExceedsCap(t *testing.T) {
	p := profile(20000, 600, 8, "")

	p.RequestedAmount = decimal.NewFromInt(30000)
	assert.False(t, service.Classify(p).RequestExceedsCap)

	p.RequestedAmount = decimal.NewFromInt(30001)
	assert.True(t, service.Classify(p).RequestExceedsCap)

	foundationProfile := profile(0, 0, 0, "")
	foundationProfile.RequestedAmount = decimal.NewFromInt(50000)
	assert.False(t, service.Classify(foundationProfile).RequestExceedsCap)
}

func TestClassify_Deterministic(t *testing.T) {
	p := profile(33000, 655, 13, "Retail")
	first := service.Classify(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, service.Classify(p))
	}
}

func TestClassify_NegativeInputsClamp(t *testing.T) {
	got := service.Classify(valueobject.ApplicantProfile{
		MonthlyRevenue:       decimal.NewFromInt(-50000),
		CreditScore:          -1,
		TimeInBusinessMonths: -10,
	})
	assert.Equal(t, service.GateFoundationGeneral, got.GateID)
}

func TestClassify_OversizedInputs(t *testing.T) {
	start := time.Now()

	coerced := service.Classify(valueobject.NewApplicantProfile(valueobject.RawApplicantProfile{
		MonthlyRevenue: "1e50000000",
		CreditScore:    "1e50000000",
	}))
	assert.Equal(t, service.GateStartupCapital, coerced.GateID)

	literal := service.Classify(valueobject.ApplicantProfile{
		MonthlyRevenue:       decimal.New(1, 1<<30),
		CreditScore:          640,
		TimeInBusinessMonths: 12,
	})
	assert.Equal(t, service.GateCashFlow, literal.GateID)
	assert.True(t, literal.MaxAmount.Equal(valueobject.MaxCoercedAmount.Mul(decimal.NewFromFloat(1.5))))

	assert.Less(t, time.Since(start), time.Second)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$5,000,000", service.FormatUSD(decimal.NewFromInt(5_000_000)))
	assert.Equal(t, "$10,000", service.FormatUSD(decimal.NewFromInt(10000)))
	assert.Equal(t, "$0", service.FormatUSD(decimal.Zero))
	assert.Equal(t, "$1,235", service.FormatUSD(decimal.RequireFromString("1234.5")))
}
