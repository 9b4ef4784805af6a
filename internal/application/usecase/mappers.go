package usecase

import (
	"go.opentelemetry.io/otel"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
)

var tracer = otel.Tracer("github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/usecase")

// Migration sources recorded on events and metrics.
const (
	MigrationSourceBatch  = "batch"
	MigrationSourceIngest = "ingest"
)

func toApprovalEntries(in []dto.ApprovalEntryDTO) []model.ApprovalEntry {
	if in == nil {
		return nil
	}
	out := make([]model.ApprovalEntry, len(in))
	for i, a := range in {
		out[i] = model.ApprovalEntry{
			ID:               a.ID,
			Lender:           a.Lender,
			AdvanceAmount:    a.AdvanceAmount,
			Term:             a.Term,
			PaymentFrequency: a.PaymentFrequency,
			FactorRate:       a.FactorRate,
			MaxUpsell:        a.MaxUpsell,
			TotalPayback:     a.TotalPayback,
			NetAfterFees:     a.NetAfterFees,
			Notes:            a.Notes,
			ApprovalDate:     a.ApprovalDate,
			IsPrimary:        a.IsPrimary,
			CreatedAt:        a.CreatedAt,
		}
	}
	return out
}

func toApprovalDTO(e model.ApprovalEntry) dto.ApprovalEntryDTO {
	return dto.ApprovalEntryDTO{
		ID:               e.ID,
		Lender:           e.Lender,
		AdvanceAmount:    e.AdvanceAmount,
		Term:             e.Term,
		PaymentFrequency: e.PaymentFrequency,
		FactorRate:       e.FactorRate,
		MaxUpsell:        e.MaxUpsell,
		TotalPayback:     e.TotalPayback,
		NetAfterFees:     e.NetAfterFees,
		Notes:            e.Notes,
		ApprovalDate:     e.ApprovalDate,
		IsPrimary:        e.IsPrimary,
		CreatedAt:        e.CreatedAt,
	}
}

func toApprovalDTOs(in []model.ApprovalEntry) []dto.ApprovalEntryDTO {
	out := make([]dto.ApprovalEntryDTO, len(in))
	for i, e := range in {
		out[i] = toApprovalDTO(e)
	}
	return out
}

// toDecisionResponse reconciles and ranks the stored approvals.
func toDecisionResponse(raw model.RawDecision, version int) dto.DecisionResponse {
	ranked := service.RankApprovals(service.Reconcile(raw))
	resp := dto.DecisionResponse{
		ID:                   raw.ID,
		Status:               raw.Status,
		BusinessName:         raw.BusinessName,
		BusinessEmail:        raw.BusinessEmail,
		FundedDate:           raw.FundedDate,
		SchemaVersion:        int(raw.SchemaVersion),
		Version:              version,
		Approvals:            toApprovalDTOs(ranked),
		OtherApprovals:       []dto.ApprovalEntryDTO{},
		MostRecentApprovalAt: service.MostRecentApprovalDate(raw),
		CreatedAt:            raw.CreatedAt,
		UpdatedAt:            raw.UpdatedAt,
	}
	if best, rest, ok := service.Headline(ranked); ok {
		b := toApprovalDTO(best)
		resp.BestApproval = &b
		resp.OtherApprovals = toApprovalDTOs(rest)
	}
	return resp
}

func toFundingProfileResponse(fp model.FundingProfile, cached bool) dto.FundingProfileResponse {
	resp := dto.FundingProfileResponse{
		GateID:               fp.GateID,
		Tier:                 fp.Tier,
		Product:              fp.Product,
		MaxAmount:            fp.MaxAmount,
		MaxAmountLabel:       fp.MaxAmountLabel,
		RateDescriptor:       fp.RateDescriptor,
		Message:              fp.Message,
		IsFoundationBuilding: fp.IsFoundationBuilding,
		FoundationReason:     fp.FoundationReason,
		RequestExceedsCap:    fp.RequestExceedsCap,
		Cached:               cached,
	}
	for _, o := range fp.AlternativeOptions {
		resp.AlternativeOptions = append(resp.AlternativeOptions, dto.AlternativeOptionDTO{
			Name:        o.Name,
			Description: o.Description,
			URL:         o.URL,
			Highlight:   o.Highlight,
		})
	}
	if fp.FoundationCTA != nil {
		resp.FoundationCTA = &dto.FoundationCTADTO{
			Label:       fp.FoundationCTA.Label,
			URL:         fp.FoundationCTA.URL,
			Description: fp.FoundationCTA.Description,
		}
	}
	return resp
}
