package valueobject

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// restrictedIndustries are excluded from the prime, growth and working
// capital tiers and routed to the restricted-niche products instead.
var restrictedIndustries = map[string]struct{}{
	"gambling":           {},
	"adult":              {},
	"cannabis":           {},
	"non-profit":         {},
	"financial services": {},
}

const (
	// maxAmountMagnitude is the decimal order of magnitude at which coerced
	// amounts saturate (1e15).
	maxAmountMagnitude = 15
	// maxAmountScale is the number of fractional digits kept on amounts.
	maxAmountScale = 8
)

// MaxCoercedAmount is the ceiling applied to every coerced amount.
var MaxCoercedAmount = decimal.New(1, maxAmountMagnitude)

// RawApplicantProfile is the loosely typed form an applicant profile arrives
// in from intake forms: numbers may be strings, JSON numbers, or missing.
type RawApplicantProfile struct {
	MonthlyRevenue       any    `json:"monthlyRevenue"`
	CreditScore          any    `json:"creditScore"`
	TimeInBusinessMonths any    `json:"timeInBusiness"`
	Industry             string `json:"industry"`
	RequestedAmount      any    `json:"requestedAmount"`
}

// ApplicantProfile is the normalised financial profile the classifier reads.
// CreditScore 0 means unknown.
type ApplicantProfile struct {
	MonthlyRevenue       decimal.Decimal
	CreditScore          int
	TimeInBusinessMonths int
	Industry             string
	RequestedAmount      decimal.Decimal
}

// NewApplicantProfile coerces a raw profile. Anything that is not a finite,
// non-negative number becomes 0; coercion never fails.
func NewApplicantProfile(raw RawApplicantProfile) ApplicantProfile {
	return ApplicantProfile{
		MonthlyRevenue:       CoerceAmount(raw.MonthlyRevenue),
		CreditScore:          CoerceCount(raw.CreditScore),
		TimeInBusinessMonths: CoerceCount(raw.TimeInBusinessMonths),
		Industry:             strings.TrimSpace(raw.Industry),
		RequestedAmount:      CoerceAmount(raw.RequestedAmount),
	}
}

// Normalized clamps negative fields to zero so that profiles built directly
// as struct literals obey the same rules as coerced ones.
func (p ApplicantProfile) Normalized() ApplicantProfile {
	out := p
	out.MonthlyRevenue = boundAmount(out.MonthlyRevenue)
	out.RequestedAmount = boundAmount(out.RequestedAmount)
	if out.CreditScore < 0 {
		out.CreditScore = 0
	}
	if out.TimeInBusinessMonths < 0 {
		out.TimeInBusinessMonths = 0
	}
	out.Industry = strings.TrimSpace(out.Industry)
	return out
}

// IsRestrictedIndustry reports whether the industry is on the restricted list.
func (p ApplicantProfile) IsRestrictedIndustry() bool {
	_, ok := restrictedIndustries[strings.ToLower(strings.TrimSpace(p.Industry))]
	return ok
}

// CacheKey is a canonical string for the fields that drive classification.
func (p ApplicantProfile) CacheKey() string {
	n := p.Normalized()
	return fmt.Sprintf("rev=%s|credit=%d|tib=%d|ind=%s|req=%s",
		n.MonthlyRevenue.String(), n.CreditScore, n.TimeInBusinessMonths,
		strings.ToLower(n.Industry), n.RequestedAmount.String())
}

// CoerceAmount converts a loosely typed value to a non-negative decimal.
func CoerceAmount(v any) decimal.Decimal {
	var d decimal.Decimal
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = x
	case string:
		parsed, err := decimal.NewFromString(cleanNumeric(x))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(x)
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int32:
		d = decimal.NewFromInt32(x)
	case int64:
		d = decimal.NewFromInt(x)
	case uint:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0)
	case uint64:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
	case fmt.Stringer:
		return CoerceAmount(x.String())
	default:
		return decimal.Zero
	}
	return boundAmount(d)
}

// boundAmount clamps d into [0, MaxCoercedAmount] and drops digits below
// maxAmountScale. It only inspects the exponent and coefficient length
// before doing arithmetic, so inputs like "1e50000000" stay cheap.
func boundAmount(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	magnitude := int64(d.NumDigits()) + int64(d.Exponent())
	switch {
	case magnitude > maxAmountMagnitude:
		return MaxCoercedAmount
	case magnitude <= -maxAmountScale:
		return decimal.Zero
	}
	if d.Exponent() < -maxAmountScale {
		d = d.Truncate(maxAmountScale)
	}
	if d.GreaterThan(MaxCoercedAmount) {
		return MaxCoercedAmount
	}
	return d
}

// CoerceCount converts a loosely typed value to a non-negative int,
// truncating any fraction.
func CoerceCount(v any) int {
	d := CoerceAmount(v)
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return math.MaxInt32
	}
	return int(d.IntPart())
}

// cleanNumeric strips currency symbols, thousands separators and spaces that
// applicants type into free-form fields ("$50,000").
func cleanNumeric(s string) string {
	return strings.NewReplacer("$", "", ",", "", " ", "", "_", "").Replace(strings.TrimSpace(s))
}
