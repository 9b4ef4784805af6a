package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/usecase"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

// useCase is the shape shared by every application use case.
type useCase[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// UseCases groups the operations exposed over gRPC.
type UseCases struct {
	Classify useCase[dto.ClassifyApplicantRequest, dto.FundingProfileResponse]
	Create   useCase[dto.CreateDecisionRequest, dto.DecisionResponse]
	Get      useCase[dto.GetDecisionRequest, dto.DecisionResponse]
	List     useCase[dto.ListDecisionsRequest, dto.ListDecisionsResponse]
	Update   useCase[dto.UpdateDecisionRequest, dto.DecisionResponse]
	Migrate  useCase[dto.MigrateLegacyRequest, dto.MigrateLegacyResponse]
}

// UnderwritingHandler implements UnderwritingServiceServer.
type UnderwritingHandler struct {
	UnimplementedUnderwritingServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewUnderwritingHandler creates a new handler with all use-case dependencies.
func NewUnderwritingHandler(uc UseCases, logger *slog.Logger) *UnderwritingHandler {
	return &UnderwritingHandler{uc: uc, logger: logger}
}

// ClassifyApplicant returns the funding tier for an applicant profile.
func (h *UnderwritingHandler) ClassifyApplicant(ctx context.Context, req *dto.ClassifyApplicantRequest) (*dto.FundingProfileResponse, error) {
	return invoke(ctx, h, "ClassifyApplicant", h.uc.Classify, req)
}

// CreateDecision records a new underwriting decision.
func (h *UnderwritingHandler) CreateDecision(ctx context.Context, req *dto.CreateDecisionRequest) (*dto.DecisionResponse, error) {
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, status.Error(codes.InvalidArgument, "businessName is required")
	}
	return invoke(ctx, h, "CreateDecision", h.uc.Create, req)
}

// GetDecision returns one decision with its reconciled approvals.
func (h *UnderwritingHandler) GetDecision(ctx context.Context, req *dto.GetDecisionRequest) (*dto.DecisionResponse, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	return invoke(ctx, h, "GetDecision", h.uc.Get, req)
}

// ListDecisions returns decisions ordered by most recent approval.
func (h *UnderwritingHandler) ListDecisions(ctx context.Context, req *dto.ListDecisionsRequest) (*dto.ListDecisionsResponse, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	return invoke(ctx, h, "ListDecisions", h.uc.List, req)
}

// UpdateDecision replaces approvals and/or changes status.
func (h *UnderwritingHandler) UpdateDecision(ctx context.Context, req *dto.UpdateDecisionRequest) (*dto.DecisionResponse, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	return invoke(ctx, h, "UpdateDecision", h.uc.Update, req)
}

// MigrateLegacyDecisions runs the legacy approval migration.
func (h *UnderwritingHandler) MigrateLegacyDecisions(ctx context.Context, req *dto.MigrateLegacyRequest) (*dto.MigrateLegacyResponse, error) {
	if req.BatchSize < 0 {
		return nil, status.Error(codes.InvalidArgument, "batchSize must not be negative")
	}
	return invoke(ctx, h, "MigrateLegacyDecisions", h.uc.Migrate, req)
}

func invoke[Req, Resp any](ctx context.Context, h *UnderwritingHandler, method string, uc useCase[Req, Resp], req *Req) (*Resp, error) {
	if uc == nil {
		return nil, status.Errorf(codes.Unimplemented, "method %s not configured", method)
	}
	resp, err := uc.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, method, err)
	}
	return &resp, nil
}

// toStatus maps domain and application errors onto gRPC codes. Unexpected
// errors are logged and reported as Internal without detail.
func (h *UnderwritingHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrDecisionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, valueobject.ErrInvalidDecisionStatus),
		errors.Is(err, model.ErrMultiplePrimaryApprovals),
		errors.Is(err, model.ErrInvalidApprovals),
		errors.Is(err, model.ErrBusinessNameRequired),
		errors.Is(err, usecase.ErrInvalidPayload):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrOptimisticLock):
		return status.Error(codes.FailedPrecondition, "decision was modified concurrently; reload and retry")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
