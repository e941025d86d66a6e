package ports

import (
	"context"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"
)

// OperatorRepository stores operators known from authenticated requests.
type OperatorRepository interface {
	// Upsert inserts the operator or overwrites username and role of an
	// existing one with the same id.
	Upsert(ctx context.Context, op *operator.Operator) error

	// Get loads an operator, or fails with errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*operator.Operator, error)

	// GetByIDs returns the operators that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*operator.Operator, error)
}
