package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

// ClassifyApplicantUseCase maps an applicant profile to a funding tier,
// memoising results in the classification cache.
type ClassifyApplicantUseCase struct {
	classifier *service.EligibilityClassifier
	cache      port.ClassificationCache
	metrics    *observability.EngineMetrics
	logger     *slog.Logger
}

// NewClassifyApplicantUseCase wires dependencies. cache and metrics may be nil.
func NewClassifyApplicantUseCase(
	classifier *service.EligibilityClassifier,
	cache port.ClassificationCache,
	metrics *observability.EngineMetrics,
	logger *slog.Logger,
) *ClassifyApplicantUseCase {
	return &ClassifyApplicantUseCase{
		classifier: classifier,
		cache:      cache,
		metrics:    metrics,
		logger:     observability.Component(logger, "classify_applicant"),
	}
}

// Execute coerces and classifies the profile. Cache failures are logged
// and never returned; classification itself cannot fail.
func (uc *ClassifyApplicantUseCase) Execute(
	ctx context.Context,
	req dto.ClassifyApplicantRequest,
) (dto.FundingProfileResponse, error) {
	ctx, span := tracer.Start(ctx, "ClassifyApplicant")
	defer span.End()

	// 1. Coerce raw input.
	profile := valueobject.NewApplicantProfile(valueobject.RawApplicantProfile{
		MonthlyRevenue:       req.MonthlyRevenue,
		CreditScore:          req.CreditScore,
		TimeInBusinessMonths: req.TimeInBusinessMonths,
		Industry:             req.Industry,
		RequestedAmount:      req.RequestedAmount,
	})
	key := profile.CacheKey()

	// 2. Cache lookup.
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, key)
		switch {
		case err != nil:
			uc.logger.WarnContext(ctx, "classification cache read failed", "error", err)
		case ok:
			uc.metrics.RecordCacheLookup(ctx, true)
			span.SetAttributes(attribute.Bool("cache.hit", true), attribute.String("gate", cached.GateID))
			return toFundingProfileResponse(cached, true), nil
		default:
			uc.metrics.RecordCacheLookup(ctx, false)
		}
	}

	// 3. Classify.
	fp := uc.classifier.Classify(profile)
	uc.metrics.RecordClassification(ctx, fp.Tier, fp.GateID)
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.String("gate", fp.GateID))

	// 4. Store.
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, fp); err != nil {
			uc.logger.WarnContext(ctx, "classification cache write failed", "error", err)
		}
	}

	return toFundingProfileResponse(fp, false), nil
}
