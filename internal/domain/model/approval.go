package model

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// SchemaVersion tags the shape of a persisted approval list.
type SchemaVersion int

const (
	// SchemaUnversioned marks records written before the version tag existed.
	SchemaUnversioned SchemaVersion = 0
	// SchemaLegacy is the original shape: extras only, the primary offer
	// lives in the decision's flat fields, the amount key is "amount".
	SchemaLegacy SchemaVersion = 1
	// SchemaCanonical is the full list, primary included, flagged by isPrimary.
	SchemaCanonical SchemaVersion = 2
)

// Approval-list shapes reported by ApprovalSet.Shape.
const (
	ShapeEmpty     = "empty"
	ShapeLegacy    = "legacy"
	ShapeCanonical = "canonical"
)

// ApprovalEntry is one lender offer in canonical form. Monetary fields are
// display strings exactly as entered; nothing here is parsed as a number.
type ApprovalEntry struct {
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

// LegacyApproval is an extra offer in the legacy shape. Some writers used
// advanceAmount instead of amount, so both are kept.
type LegacyApproval struct {
	Lender           string `json:"lender"`
	Amount           string `json:"amount"`
	AdvanceAmount    string `json:"advanceAmount,omitempty"`
	Term             string `json:"term"`
	PaymentFrequency string `json:"paymentFrequency"`
	FactorRate       string `json:"factorRate"`
	MaxUpsell        string `json:"maxUpsell"`
	TotalPayback     string `json:"totalPayback"`
	NetAfterFees     string `json:"netAfterFees"`
	Notes            string `json:"notes"`
	ApprovalDate     string `json:"approvalDate"`
	CreatedAt        string `json:"createdAt"`
}

// OfferAmount returns amount, falling back to advanceAmount.
func (l LegacyApproval) OfferAmount() string {
	if l.Amount != "" {
		return l.Amount
	}
	return l.AdvanceAmount
}

// ApprovalSet is the decoded approval list, tagged with the shape it was
// read as. Exactly one of Legacy or Canonical is meaningful.
type ApprovalSet struct {
	Version   SchemaVersion
	Legacy    []LegacyApproval
	Canonical []ApprovalEntry
}

// IsCanonical reports whether the set was read in the canonical shape.
func (s ApprovalSet) IsCanonical() bool { return s.Version >= SchemaCanonical }

// Len returns the number of stored entries.
func (s ApprovalSet) Len() int {
	if s.IsCanonical() {
		return len(s.Canonical)
	}
	return len(s.Legacy)
}

// Shape names the set for logs and metrics.
func (s ApprovalSet) Shape() string {
	switch {
	case s.Len() == 0:
		return ShapeEmpty
	case s.IsCanonical():
		return ShapeCanonical
	default:
		return ShapeLegacy
	}
}

// ApprovalsDocument is the raw JSON of a stored approval list. It behaves
// like a raw JSON message when the enclosing record is marshalled.
type ApprovalsDocument []byte

// MarshalJSON emits the document verbatim, or null when empty.
func (d ApprovalsDocument) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores a copy of the raw bytes.
func (d *ApprovalsDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[0:0], data...)
	return nil
}

// DecodeApprovalSet reads a stored approval list. A declared version of
// SchemaCanonical or above wins; otherwise the list is canonical when its
// first element carries an isPrimary key. Malformed JSON, null, and
// non-array documents decode to an empty set and never fail.
func DecodeApprovalSet(doc ApprovalsDocument, declared SchemaVersion) ApprovalSet {
	items := decodeObjects(doc)

	canonical := declared >= SchemaCanonical
	if !canonical && len(items) > 0 {
		_, canonical = items[0]["isPrimary"]
	}

	if canonical {
		set := ApprovalSet{Version: SchemaCanonical, Canonical: make([]ApprovalEntry, 0, len(items))}
		for _, m := range items {
			set.Canonical = append(set.Canonical, canonicalFromMap(m))
		}
		return set
	}

	set := ApprovalSet{Version: SchemaLegacy, Legacy: make([]LegacyApproval, 0, len(items))}
	for _, m := range items {
		set.Legacy = append(set.Legacy, legacyFromMap(m))
	}
	return set
}

// EncodeApprovals serialises a canonical list. A nil list encodes as [].
func EncodeApprovals(entries []ApprovalEntry) ApprovalsDocument {
	if entries == nil {
		entries = []ApprovalEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		// Only strings and bools; marshalling cannot fail.
		return ApprovalsDocument("[]")
	}
	return ApprovalsDocument(b)
}

// decodeObjects parses doc as an array. Elements that are not objects
// become empty maps so positional indices are preserved.
func decodeObjects(doc ApprovalsDocument) []map[string]any {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var raw []any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			m = map[string]any{}
		}
		out = append(out, m)
	}
	return out
}

// canonicalFromMap reads one canonical element. Lists declared canonical
// whose elements still carry the legacy amount key keep that value.
func canonicalFromMap(m map[string]any) ApprovalEntry {
	advance := stringField(m, "advanceAmount")
	if advance == "" {
		advance = stringField(m, "amount")
	}
	return ApprovalEntry{
		ID:               stringField(m, "id"),
		Lender:           stringField(m, "lender"),
		AdvanceAmount:    advance,
		Term:             stringField(m, "term"),
		PaymentFrequency: stringField(m, "paymentFrequency"),
		FactorRate:       stringField(m, "factorRate"),
		MaxUpsell:        stringField(m, "maxUpsell"),
		TotalPayback:     stringField(m, "totalPayback"),
		NetAfterFees:     stringField(m, "netAfterFees"),
		Notes:            stringField(m, "notes"),
		ApprovalDate:     stringField(m, "approvalDate"),
		IsPrimary:        boolField(m, "isPrimary"),
		CreatedAt:        stringField(m, "createdAt"),
	}
}

func legacyFromMap(m map[string]any) LegacyApproval {
	return LegacyApproval{
		Lender:           stringField(m, "lender"),
		Amount:           stringField(m, "amount"),
		AdvanceAmount:    stringField(m, "advanceAmount"),
		Term:             stringField(m, "term"),
		PaymentFrequency: stringField(m, "paymentFrequency"),
		FactorRate:       stringField(m, "factorRate"),
		MaxUpsell:        stringField(m, "maxUpsell"),
		TotalPayback:     stringField(m, "totalPayback"),
		NetAfterFees:     stringField(m, "netAfterFees"),
		Notes:            stringField(m, "notes"),
		ApprovalDate:     stringField(m, "approvalDate"),
		CreatedAt:        stringField(m, "createdAt"),
	}
}

// stringField renders a JSON scalar as display text. Numbers keep their
// shortest form ("5000", "1.35"); missing and null become "".
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func boolField(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
