package validation

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
)

//go:embed schema/approvals.v2.json
var approvalsSchema string

// maxReportedErrors bounds the detail carried in a validation error.
const maxReportedErrors = 5

// ApprovalValidator implements port.ApprovalValidator with a compiled
// JSON schema for the canonical approval list.
type ApprovalValidator struct {
	schema *gojsonschema.Schema
}

var _ port.ApprovalValidator = (*ApprovalValidator)(nil)

// NewApprovalValidator compiles the embedded canonical approvals schema.
func NewApprovalValidator() (*ApprovalValidator, error) {
	return NewApprovalValidatorFromSchema(approvalsSchema)
}

// NewApprovalValidatorFromSchema compiles a caller-supplied schema.
func NewApprovalValidatorFromSchema(schema string) (*ApprovalValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile approvals schema: %w", err)
	}
	return &ApprovalValidator{schema: compiled}, nil
}

// Validate checks document and wraps model.ErrInvalidApprovals with the
// first few violations.
func (v *ApprovalValidator) Validate(document []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidApprovals, err)
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for i, e := range result.Errors() {
		if i == maxReportedErrors {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(result.Errors())-i))
			break
		}
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidApprovals, strings.Join(msgs, "; "))
}
