package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/event"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

var (
	// ErrMultiplePrimaryApprovals is returned when an approval list flags
	// more than one entry as primary.
	ErrMultiplePrimaryApprovals = errors.New("approval list has more than one primary entry")
	// ErrDecisionNotFound is returned by repositories for unknown IDs.
	ErrDecisionNotFound = errors.New("underwriting decision not found")
	// ErrOptimisticLock is returned when a save loses a concurrent update.
	ErrOptimisticLock = errors.New("optimistic locking conflict on underwriting decision")
	// ErrBusinessNameRequired is returned when creating a decision without a business.
	ErrBusinessNameRequired = errors.New("business name is required")
	// ErrInvalidApprovals is returned when an approval list fails schema checks.
	ErrInvalidApprovals = errors.New("invalid approval list")
)

// ---------------------------------------------------------------------------
// UnderwritingDecision aggregate root
// ---------------------------------------------------------------------------

// UnderwritingDecision is an immutable aggregate. Every mutation returns a new copy.
type UnderwritingDecision struct {
	id                  string
	status              valueobject.DecisionStatus
	businessName        string
	businessEmail       string
	primary             PrimaryTerms
	fundedDate          *time.Time
	additionalApprovals ApprovalsDocument
	schemaVersion       SchemaVersion
	version             int
	createdAt           time.Time
	updatedAt           time.Time
	domainEvents        []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewUnderwritingDecision records a reviewer's decision. The approval list
// is stored in the canonical shape and the record is tagged SchemaCanonical.
func NewUnderwritingDecision(
	businessName, businessEmail string,
	status valueobject.DecisionStatus,
	approvals []ApprovalEntry,
	now time.Time,
) (UnderwritingDecision, error) {
	if businessName == "" {
		return UnderwritingDecision{}, ErrBusinessNameRequired
	}
	if status.IsZero() {
		status = valueobject.DecisionStatusPending
	}

	d := UnderwritingDecision{
		id:            uuid.New().String(),
		status:        status,
		businessName:  businessName,
		businessEmail: businessEmail,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}
	if status.IsFunded() {
		fd := now
		d.fundedDate = &fd
	}

	entries, err := normalizeApprovals(approvals, now)
	if err != nil {
		return UnderwritingDecision{}, err
	}
	d = d.storeApprovals(entries)

	d.domainEvents = append(d.domainEvents, event.NewDecisionCreated(
		d.id, businessName, status.String(), len(entries), now,
	))
	return d, nil
}

// ReconstructUnderwritingDecision rebuilds an aggregate from a persisted
// record without side-effects.
func ReconstructUnderwritingDecision(raw RawDecision, version int) (UnderwritingDecision, error) {
	status, err := valueobject.NewDecisionStatus(raw.Status)
	if err != nil {
		return UnderwritingDecision{}, fmt.Errorf("decision %s: %w", raw.ID, err)
	}
	r := raw.Clone()
	return UnderwritingDecision{
		id:                  r.ID,
		status:              status,
		businessName:        r.BusinessName,
		businessEmail:       r.BusinessEmail,
		primary:             r.PrimaryTerms,
		fundedDate:          r.FundedDate,
		additionalApprovals: r.AdditionalApprovals,
		schemaVersion:       r.SchemaVersion,
		version:             version,
		createdAt:           r.CreatedAt,
		updatedAt:           r.UpdatedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// ChangeStatus moves the decision to next. Entering funded stamps
// fundedDate when it is unset; leaving funded clears it. Moves between two
// non-funded states leave fundedDate alone.
func (d UnderwritingDecision) ChangeStatus(next valueobject.DecisionStatus, now time.Time) UnderwritingDecision {
	if next.IsZero() {
		return d
	}

	n := d
	n.domainEvents = copyEvents(d.domainEvents)
	touched := false

	switch {
	case next.IsFunded() && d.fundedDate == nil:
		fd := now
		n.fundedDate = &fd
		touched = true
	case !next.IsFunded() && d.status.IsFunded():
		n.fundedDate = nil
		touched = true
	}

	if !next.Equal(d.status) {
		n.status = next
		touched = true
		n.domainEvents = append(n.domainEvents, event.NewDecisionStatusChanged(
			d.id, d.status.String(), next.String(), n.FundedDate(), now,
		))
	}

	if !touched {
		return d
	}
	n.updatedAt = now
	return n
}

// ReplaceApprovals stores the full canonical approval list. The primary
// entry (if any) moves to the front and the flat fields mirror it so that
// readers of the flat columns agree with the list.
func (d UnderwritingDecision) ReplaceApprovals(approvals []ApprovalEntry, now time.Time) (UnderwritingDecision, error) {
	entries, err := normalizeApprovals(approvals, now)
	if err != nil {
		return d, err
	}
	n := d.storeApprovals(entries)
	n.updatedAt = now
	n.domainEvents = copyEvents(d.domainEvents)
	n.domainEvents = append(n.domainEvents, event.NewApprovalsUpdated(
		d.id, len(entries), n.primary.Lender, now,
	))
	return n, nil
}

// ApplyMigration adopts the canonical approval list of a migrated copy of
// this record. Flat fields are left as they are.
func (d UnderwritingDecision) ApplyMigration(migrated RawDecision, source string, now time.Time) UnderwritingDecision {
	n := d
	n.additionalApprovals = append(ApprovalsDocument(nil), migrated.AdditionalApprovals...)
	n.schemaVersion = migrated.SchemaVersion
	n.updatedAt = now
	n.domainEvents = copyEvents(d.domainEvents)
	n.domainEvents = append(n.domainEvents, event.NewApprovalsMigrated(
		d.id, migrated.Approvals().Len(), source, now,
	))
	return n
}

// ClearEvents returns a copy with no pending domain events.
func (d UnderwritingDecision) ClearEvents() UnderwritingDecision {
	n := d
	n.domainEvents = nil
	return n
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d UnderwritingDecision) ID() string                         { return d.id }
func (d UnderwritingDecision) Status() valueobject.DecisionStatus { return d.status }
func (d UnderwritingDecision) BusinessName() string               { return d.businessName }
func (d UnderwritingDecision) BusinessEmail() string              { return d.businessEmail }
func (d UnderwritingDecision) PrimaryTerms() PrimaryTerms         { return d.primary }
func (d UnderwritingDecision) SchemaVersion() SchemaVersion       { return d.schemaVersion }
func (d UnderwritingDecision) Version() int                       { return d.version }
func (d UnderwritingDecision) CreatedAt() time.Time               { return d.createdAt }
func (d UnderwritingDecision) UpdatedAt() time.Time               { return d.updatedAt }

// FundedDate returns a copy of the funded timestamp, or nil.
func (d UnderwritingDecision) FundedDate() *time.Time {
	if d.fundedDate == nil {
		return nil
	}
	fd := *d.fundedDate
	return &fd
}

// DomainEvents returns a copy of the pending events.
func (d UnderwritingDecision) DomainEvents() []event.DomainEvent {
	return copyEvents(d.domainEvents)
}

// Snapshot returns the persisted form of the decision.
func (d UnderwritingDecision) Snapshot() RawDecision {
	return RawDecision{
		ID:                  d.id,
		Status:              d.status.String(),
		BusinessName:        d.businessName,
		BusinessEmail:       d.businessEmail,
		PrimaryTerms:        d.primary,
		FundedDate:          d.FundedDate(),
		AdditionalApprovals: append(ApprovalsDocument(nil), d.additionalApprovals...),
		SchemaVersion:       d.schemaVersion,
		CreatedAt:           d.createdAt,
		UpdatedAt:           d.updatedAt,
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// storeApprovals writes an already normalised list and mirrors the primary
// entry into the flat fields.
func (d UnderwritingDecision) storeApprovals(entries []ApprovalEntry) UnderwritingDecision {
	n := d
	n.additionalApprovals = EncodeApprovals(entries)
	n.schemaVersion = SchemaCanonical
	n.primary = PrimaryTerms{}
	if len(entries) > 0 && entries[0].IsPrimary {
		p := entries[0]
		n.primary = PrimaryTerms{
			AdvanceAmount:    p.AdvanceAmount,
			Lender:           p.Lender,
			Term:             p.Term,
			PaymentFrequency: p.PaymentFrequency,
			FactorRate:       p.FactorRate,
			MaxUpsell:        p.MaxUpsell,
			TotalPayback:     p.TotalPayback,
			NetAfterFees:     p.NetAfterFees,
			Notes:            p.Notes,
			ApprovalDate:     p.ApprovalDate,
		}
	}
	return n
}

// normalizeApprovals enforces the single-primary rule, fills missing IDs and
// creation stamps, and orders the primary first with the rest in insertion
// order.
func normalizeApprovals(approvals []ApprovalEntry, now time.Time) ([]ApprovalEntry, error) {
	out := make([]ApprovalEntry, 0, len(approvals))
	if err := CheckSinglePrimary(approvals); err != nil {
		return nil, err
	}
	for _, a := range approvals {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.CreatedAt == "" {
			a.CreatedAt = FormatTimestamp(now)
		}
		if a.IsPrimary {
			out = append([]ApprovalEntry{a}, out...)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// CheckSinglePrimary fails with ErrMultiplePrimaryApprovals when more than
// one entry is flagged primary.
func CheckSinglePrimary(approvals []ApprovalEntry) error {
	primaries := 0
	for _, a := range approvals {
		if a.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return ErrMultiplePrimaryApprovals
	}
	return nil
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
