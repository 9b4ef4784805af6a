package service

import (
	"slices"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
)

// RankApprovals orders entries primary first. The sort is stable, so
// non-primary entries keep their relative order.
func RankApprovals(entries []model.ApprovalEntry) []model.ApprovalEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b model.ApprovalEntry) int {
		switch {
		case a.IsPrimary && !b.IsPrimary:
			return -1
		case !a.IsPrimary && b.IsPrimary:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Headline splits a ranked list into the best approval and the rest.
// ok is false for an empty list.
func Headline(entries []model.ApprovalEntry) (best model.ApprovalEntry, rest []model.ApprovalEntry, ok bool) {
	ranked := RankApprovals(entries)
	if len(ranked) == 0 {
		return model.ApprovalEntry{}, nil, false
	}
	return ranked[0], ranked[1:], true
}

// MostRecentApprovalDate is the latest parseable approval date on the
// decision, looking at the flat field and every stored approval of either
// shape. Without any, it falls back to CreatedAt, then the Unix epoch.
func MostRecentApprovalDate(raw model.RawDecision) time.Time {
	candidates := []string{raw.ApprovalDate}
	set := raw.Approvals()
	for _, e := range set.Canonical {
		candidates = append(candidates, e.ApprovalDate)
	}
	for _, l := range set.Legacy {
		candidates = append(candidates, l.ApprovalDate)
	}

	var (
		latest time.Time
		found  bool
	)
	for _, c := range candidates {
		t, ok := model.ParseTimestamp(c)
		if !ok {
			continue
		}
		if !found || t.After(latest) {
			latest, found = t, true
		}
	}
	if found {
		return latest
	}
	if !raw.CreatedAt.IsZero() {
		return raw.CreatedAt.UTC()
	}
	return time.Unix(0, 0).UTC()
}

// SortByMostRecentApproval returns the decisions newest first. Ties keep
// their input order.
func SortByMostRecentApproval(decisions []model.RawDecision) []model.RawDecision {
	type keyed struct {
		at  time.Time
		raw model.RawDecision
	}
	ks := make([]keyed, len(decisions))
	for i, d := range decisions {
		ks[i] = keyed{at: MostRecentApprovalDate(d), raw: d}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return b.at.Compare(a.at)
	})
	out := make([]model.RawDecision, len(ks))
	for i, k := range ks {
		out[i] = k.raw
	}
	return out
}
