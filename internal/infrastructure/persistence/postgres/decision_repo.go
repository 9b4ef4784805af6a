package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
	pkgpostgres "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/postgres"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pkgpostgres.Querier
	pkgpostgres.TxBeginner
}

// DecisionRepo implements port.DecisionRepository.
type DecisionRepo struct {
	db DB
}

var _ port.DecisionRepository = (*DecisionRepo)(nil)

// NewDecisionRepo creates a new repository backed by PostgreSQL.
func NewDecisionRepo(db DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

const decisionColumns = `
	id, status, business_name, business_email,
	advance_amount, lender, term, payment_frequency, factor_rate,
	max_upsell, total_payback, net_after_fees, notes, approval_date,
	funded_date, additional_approvals, schema_version,
	version, created_at, updated_at`

// Save upserts a decision with optimistic locking and writes its pending
// domain events to the outbox in the same transaction. The listing key
// most_recent_approval_at is recomputed on every write. A transaction the
// server aborts for a concurrent writer is reported as ErrOptimisticLock.
func (r *DecisionRepo) Save(ctx context.Context, d model.UnderwritingDecision) error {
	query := `
		INSERT INTO underwriting_decisions (` + decisionColumns + `, most_recent_approval_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			status               = EXCLUDED.status,
			business_name        = EXCLUDED.business_name,
			business_email       = EXCLUDED.business_email,
			advance_amount       = EXCLUDED.advance_amount,
			lender               = EXCLUDED.lender,
			term                 = EXCLUDED.term,
			payment_frequency    = EXCLUDED.payment_frequency,
			factor_rate          = EXCLUDED.factor_rate,
			max_upsell           = EXCLUDED.max_upsell,
			total_payback        = EXCLUDED.total_payback,
			net_after_fees       = EXCLUDED.net_after_fees,
			notes                = EXCLUDED.notes,
			approval_date        = EXCLUDED.approval_date,
			funded_date          = EXCLUDED.funded_date,
			additional_approvals = EXCLUDED.additional_approvals,
			schema_version       = EXCLUDED.schema_version,
			most_recent_approval_at = EXCLUDED.most_recent_approval_at,
			version              = underwriting_decisions.version + 1,
			updated_at           = EXCLUDED.updated_at
		WHERE underwriting_decisions.version = $18
	`
	raw := d.Snapshot()

	err := pkgpostgres.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			raw.ID, raw.Status, raw.BusinessName, raw.BusinessEmail,
			raw.AdvanceAmount, raw.Lender, raw.Term, raw.PaymentFrequency, raw.FactorRate,
			raw.MaxUpsell, raw.TotalPayback, raw.NetAfterFees, raw.Notes, raw.ApprovalDate,
			raw.FundedDate, approvalsParam(raw.AdditionalApprovals), int(raw.SchemaVersion),
			d.Version(), raw.CreatedAt, raw.UpdatedAt,
			service.MostRecentApprovalDate(raw),
		)
		if err != nil {
			return fmt.Errorf("save decision: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("save decision %s: %w", raw.ID, model.ErrOptimisticLock)
		}

		for _, evt := range d.DomainEvents() {
			entry, err := events.NewOutboxEntry(evt)
			if err != nil {
				return err
			}
			if err := insertOutbox(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if pkgpostgres.IsWriteConflict(err) {
		return fmt.Errorf("save decision %s: %w: %w", raw.ID, model.ErrOptimisticLock, err)
	}
	return err
}

// FindByID retrieves a single decision.
func (r *DecisionRepo) FindByID(ctx context.Context, id string) (model.UnderwritingDecision, error) {
	query := `SELECT ` + decisionColumns + `
		FROM underwriting_decisions
		WHERE id = $1
	`
	d, err := r.scanOne(ctx, query, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UnderwritingDecision{}, fmt.Errorf("decision %s: %w", id, model.ErrDecisionNotFound)
	}
	return d, err
}

// List retrieves decisions newest approval first, optionally filtered by
// status. The limit applies after ordering; zero returns every match.
func (r *DecisionRepo) List(ctx context.Context, filter port.ListFilter) ([]model.UnderwritingDecision, error) {
	query := `SELECT ` + decisionColumns + `
		FROM underwriting_decisions
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY most_recent_approval_at DESC, created_at DESC, id
		LIMIT $2
	`
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	return r.scanMany(ctx, query, filter.Status, limit)
}

// FindLegacy retrieves decisions whose approvals predate the canonical schema.
func (r *DecisionRepo) FindLegacy(ctx context.Context, limit int) ([]model.UnderwritingDecision, error) {
	query := `SELECT ` + decisionColumns + `
		FROM underwriting_decisions
		WHERE schema_version < $1
		ORDER BY created_at, id
		LIMIT $2
	`
	return r.scanMany(ctx, query, int(model.SchemaCanonical), limit)
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func (r *DecisionRepo) scanOne(ctx context.Context, query string, args ...any) (model.UnderwritingDecision, error) {
	row := r.db.QueryRow(ctx, query, args...)
	return scanDecision(row)
}

func (r *DecisionRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.UnderwritingDecision, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var result []model.UnderwritingDecision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func scanDecision(s scannable) (model.UnderwritingDecision, error) {
	var (
		raw           model.RawDecision
		fundedDate    *time.Time
		approvals     []byte
		schemaVersion int
		version       int
	)

	err := s.Scan(
		&raw.ID, &raw.Status, &raw.BusinessName, &raw.BusinessEmail,
		&raw.AdvanceAmount, &raw.Lender, &raw.Term, &raw.PaymentFrequency, &raw.FactorRate,
		&raw.MaxUpsell, &raw.TotalPayback, &raw.NetAfterFees, &raw.Notes, &raw.ApprovalDate,
		&fundedDate, &approvals, &schemaVersion,
		&version, &raw.CreatedAt, &raw.UpdatedAt,
	)
	if err != nil {
		return model.UnderwritingDecision{}, fmt.Errorf("scan decision: %w", err)
	}

	raw.FundedDate = fundedDate
	raw.AdditionalApprovals = approvals
	raw.SchemaVersion = model.SchemaVersion(schemaVersion)

	d, err := model.ReconstructUnderwritingDecision(raw, version)
	if err != nil {
		return model.UnderwritingDecision{}, fmt.Errorf("reconstruct decision %s: %w", raw.ID, err)
	}
	return d, nil
}

// approvalsParam keeps an absent list as SQL NULL and passes JSON through
// unchanged otherwise.
func approvalsParam(doc model.ApprovalsDocument) []byte {
	if len(doc) == 0 {
		return nil
	}
	return []byte(doc)
}
