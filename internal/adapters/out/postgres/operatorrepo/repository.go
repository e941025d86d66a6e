package operatorrepo

import (
	"context"
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"
	"workorders/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOperatorRepository implements ports.OperatorRepository using GORM.
type GormOperatorRepository struct {
	db *gorm.DB
}

func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

func (r *GormOperatorRepository) Upsert(ctx context.Context, op *operator.Operator) error {
	if err := op.Validate(); err != nil {
		return err
	}

	dto := fromDomain(op)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "role"}),
	}).Create(&dto).Error
}

func (r *GormOperatorRepository) Get(ctx context.Context, id kernel.UUID) (*operator.Operator, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OperatorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("operator", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIDs resolves many operators in one round trip. Unknown ids are skipped.
func (r *GormOperatorRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*operator.Operator, error) {
	if len(ids) == 0 {
		return []*operator.Operator{}, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.String())
	}

	var dtos []OperatorDTO
	if err := r.db.WithContext(ctx).
		Where("id = ANY(?::uuid[])", pq.Array(raw)).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	operators := make([]*operator.Operator, 0, len(dtos))
	for _, dto := range dtos {
		op, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, nil
}
