// Package operatorrepo persists operators in the operators table.
package operatorrepo

import (
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"

	"github.com/google/uuid"
)

type OperatorDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username string    `gorm:"not null"`
	Role     string    `gorm:"not null"`
}

func (OperatorDTO) TableName() string {
	return "operators"
}

func fromDomain(op *operator.Operator) OperatorDTO {
	return OperatorDTO{
		ID:       op.ID().Bytes(),
		Username: op.Username(),
		Role:     op.Role().String(),
	}
}

func toDomain(dto OperatorDTO) (*operator.Operator, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := operator.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	return operator.NewOperator(id, dto.Username, role)
}
