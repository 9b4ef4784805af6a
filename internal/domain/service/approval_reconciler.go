package service

import (
	"strconv"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
)

// Reconcile returns the canonical approval list for a persisted decision.
// Canonical records are returned as stored. Legacy records get a primary
// entry synthesised from the flat fields followed by the extras in their
// original order. The input is never modified and the call never fails.
func Reconcile(raw model.RawDecision) []model.ApprovalEntry {
	set := raw.Approvals()
	if set.IsCanonical() {
		out := make([]model.ApprovalEntry, len(set.Canonical))
		copy(out, set.Canonical)
		return out
	}

	out := make([]model.ApprovalEntry, 0, len(set.Legacy)+1)
	if raw.PrimaryTerms.HasPrimary() {
		t := raw.PrimaryTerms
		out = append(out, model.ApprovalEntry{
			ID:               "primary-" + raw.ID,
			Lender:           t.Lender,
			AdvanceAmount:    t.AdvanceAmount,
			Term:             t.Term,
			PaymentFrequency: t.PaymentFrequency,
			FactorRate:       t.FactorRate,
			MaxUpsell:        t.MaxUpsell,
			TotalPayback:     t.TotalPayback,
			NetAfterFees:     t.NetAfterFees,
			Notes:            t.Notes,
			ApprovalDate:     t.ApprovalDate,
			IsPrimary:        true,
			CreatedAt:        model.FormatTimestamp(raw.CreatedAt),
		})
	}
	for i, l := range set.Legacy {
		out = append(out, model.ApprovalEntry{
			ID:               "migrated-" + strconv.Itoa(i),
			Lender:           l.Lender,
			AdvanceAmount:    l.OfferAmount(),
			Term:             l.Term,
			PaymentFrequency: l.PaymentFrequency,
			FactorRate:       l.FactorRate,
			MaxUpsell:        l.MaxUpsell,
			TotalPayback:     l.TotalPayback,
			NetAfterFees:     l.NetAfterFees,
			Notes:            l.Notes,
			ApprovalDate:     l.ApprovalDate,
			IsPrimary:        false,
			CreatedAt:        l.CreatedAt,
		})
	}
	return out
}

// MigrateLegacy rewrites a legacy record into the canonical shape. It
// reports false, and returns the record unchanged, when it is already
// canonical. Flat fields are kept so older readers still see the primary.
func MigrateLegacy(raw model.RawDecision) (model.RawDecision, bool) {
	if raw.Approvals().IsCanonical() {
		return raw, false
	}
	out := raw.Clone()
	out.AdditionalApprovals = model.EncodeApprovals(Reconcile(raw))
	out.SchemaVersion = model.SchemaCanonical
	return out, true
}
