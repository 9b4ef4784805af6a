package messaging

import (
	"context"
	"errors"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/usecase"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
	pkgkafka "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/kafka"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

// DecisionIngester is satisfied by *usecase.IngestDecisionUseCase.
type DecisionIngester interface {
	Execute(ctx context.Context, payload dto.IngestDecisionPayload) (dto.DecisionResponse, error)
}

// IntakeHandler consumes decision documents published by the intake
// platform and upserts them.
type IntakeHandler struct {
	ingest DecisionIngester
	logger *slog.Logger
}

func NewIntakeHandler(ingest DecisionIngester, logger *slog.Logger) *IntakeHandler {
	return &IntakeHandler{
		ingest: ingest,
		logger: observability.Component(logger, "intake_consumer"),
	}
}

// Handle satisfies pkgkafka.Handler. Undecodable or invalid documents are
// logged and acknowledged. Storage failures and version conflicts are
// returned, and the consumer redelivers the same message until it applies.
func (h *IntakeHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var payload dto.IngestDecisionPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.WarnContext(ctx, "dropping undecodable intake message",
			"key", string(msg.Key), "error", err)
		return nil
	}

	resp, err := h.ingest.Execute(ctx, payload)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPayload) || errors.Is(err, valueobject.ErrInvalidDecisionStatus) {
			h.logger.WarnContext(ctx, "dropping invalid intake message",
				"key", string(msg.Key), "error", err)
			return nil
		}
		return err
	}

	h.logger.DebugContext(ctx, "intake message applied",
		"decision_id", resp.ID, "schema_version", resp.SchemaVersion)
	return nil
}
