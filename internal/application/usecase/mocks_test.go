package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
)

// --- Mock implementations ---

type mockDecisionRepository struct {
	saveFunc     func(ctx context.Context, d model.UnderwritingDecision) error
	findByIDFunc func(ctx context.Context, id string) (model.UnderwritingDecision, error)
	decisions    map[string]model.UnderwritingDecision
	order        []string
	saved        []model.UnderwritingDecision
}

func newMockDecisionRepository(seed ...model.UnderwritingDecision) *mockDecisionRepository {
	m := &mockDecisionRepository{decisions: map[string]model.UnderwritingDecision{}}
	for _, d := range seed {
		m.put(d)
	}
	return m
}

func (m *mockDecisionRepository) put(d model.UnderwritingDecision) {
	if _, ok := m.decisions[d.ID()]; !ok {
		m.order = append(m.order, d.ID())
	}
	m.decisions[d.ID()] = d.ClearEvents()
}

func (m *mockDecisionRepository) Save(ctx context.Context, d model.UnderwritingDecision) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, d)
	}
	m.saved = append(m.saved, d)
	if _, ok := m.decisions[d.ID()]; ok {
		bumped, err := model.ReconstructUnderwritingDecision(d.Snapshot(), d.Version()+1)
		if err != nil {
			return err
		}
		d = bumped
	}
	m.put(d)
	return nil
}

func (m *mockDecisionRepository) FindByID(ctx context.Context, id string) (model.UnderwritingDecision, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	d, ok := m.decisions[id]
	if !ok {
		return model.UnderwritingDecision{}, model.ErrDecisionNotFound
	}
	return d, nil
}

// List orders by most recent approval before applying the limit, like the
// Postgres repository.
func (m *mockDecisionRepository) List(_ context.Context, filter port.ListFilter) ([]model.UnderwritingDecision, error) {
	var raws []model.RawDecision
	for _, id := range m.order {
		d := m.decisions[id]
		if filter.Status != "" && d.Status().String() != filter.Status {
			continue
		}
		raws = append(raws, d.Snapshot())
	}
	var out []model.UnderwritingDecision
	for _, raw := range service.SortByMostRecentApproval(raws) {
		out = append(out, m.decisions[raw.ID])
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockDecisionRepository) FindLegacy(_ context.Context, limit int) ([]model.UnderwritingDecision, error) {
	var out []model.UnderwritingDecision
	for _, id := range m.order {
		d := m.decisions[id]
		if d.SchemaVersion() >= model.SchemaCanonical {
			continue
		}
		out = append(out, d)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type mockClassificationCache struct {
	getErr  error
	setErr  error
	entries map[string]model.FundingProfile
	gets    int
	sets    int
}

func newMockClassificationCache() *mockClassificationCache {
	return &mockClassificationCache{entries: map[string]model.FundingProfile{}}
}

func (m *mockClassificationCache) Get(_ context.Context, key string) (model.FundingProfile, bool, error) {
	m.gets++
	if m.getErr != nil {
		return model.FundingProfile{}, false, m.getErr
	}
	fp, ok := m.entries[key]
	return fp, ok, nil
}

func (m *mockClassificationCache) Set(_ context.Context, key string, fp model.FundingProfile) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = fp
	return nil
}

type mockApprovalValidator struct {
	validateFunc func(document []byte) error
	documents    [][]byte
}

func (m *mockApprovalValidator) Validate(document []byte) error {
	m.documents = append(m.documents, document)
	if m.validateFunc != nil {
		return m.validateFunc(document)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func legacyRecord(id, approvalDate string) model.RawDecision {
	return model.RawDecision{
		ID:           id,
		Status:       "approved",
		BusinessName: "Legacy Co " + id,
		PrimaryTerms: model.PrimaryTerms{
			AdvanceAmount: "10000",
			Lender:        "Y",
			ApprovalDate:  approvalDate,
		},
		AdditionalApprovals: model.ApprovalsDocument(`[{"lender":"X","amount":"5000"}]`),
	}
}

func mustReconstruct(raw model.RawDecision, version int) model.UnderwritingDecision {
	d, err := model.ReconstructUnderwritingDecision(raw, version)
	if err != nil {
		panic(err)
	}
	return d
}
