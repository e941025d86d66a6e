// Package orderrepo persists the order aggregate in two tables: orders and
// order_stages, keyed by (order_id, position).
package orderrepo

import (
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderName       string    `gorm:"not null"`
	ClientName      string    `gorm:"not null"`
	Status          int       `gorm:"not null;index"`
	Sequential      bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"not null;index"`
	CompletedAt     *time.Time
	TotalDurationMs *int64
	Version         int        `gorm:"not null;default:0"`
	Stages          []StageDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// StageDTO is the row of the order_stages table.
type StageDTO struct {
	OrderID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Position   int        `gorm:"primaryKey;autoIncrement:false"`
	Name       string     `gorm:"not null"`
	Status     int        `gorm:"not null;index"`
	AssignedTo *uuid.UUID `gorm:"type:uuid;index"`
	StartTime  *time.Time
	EndTime    *time.Time
	DurationMs *int64
}

func (StageDTO) TableName() string {
	return "order_stages"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:              aggregate.ID().Bytes(),
		OrderName:       aggregate.OrderName(),
		ClientName:      aggregate.ClientName(),
		Status:          int(aggregate.Status()),
		Sequential:      aggregate.Sequential(),
		CreatedAt:       aggregate.CreatedAt(),
		CompletedAt:     aggregate.CompletedAt(),
		TotalDurationMs: toMillis(aggregate.TotalDuration()),
		Version:         aggregate.Version(),
	}

	for _, s := range aggregate.Stages() {
		dto.Stages = append(dto.Stages, stageFromDomain(dto.ID, s))
	}
	return dto
}

func stageFromDomain(orderID uuid.UUID, s *order.Stage) StageDTO {
	var assignedTo *uuid.UUID
	if id := s.AssignedTo(); id != nil {
		raw := id.Bytes()
		assignedTo = &raw
	}

	return StageDTO{
		OrderID:    orderID,
		Position:   s.Position(),
		Name:       s.Name(),
		Status:     int(s.Status()),
		AssignedTo: assignedTo,
		StartTime:  s.StartTime(),
		EndTime:    s.EndTime(),
		DurationMs: toMillis(s.Duration()),
	}
}

// toDomain rebuilds the aggregate; RestoreOrder rejects rows that break its invariants.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	stages := make([]*order.Stage, 0, len(dto.Stages))
	for _, sdto := range dto.Stages {
		s, stageErr := stageToDomain(sdto)
		if stageErr != nil {
			return nil, stageErr
		}
		stages = append(stages, s)
	}

	return order.RestoreOrder(
		id,
		dto.OrderName,
		dto.ClientName,
		order.Status(dto.Status),
		stages,
		dto.Sequential,
		dto.CreatedAt.UTC(),
		utc(dto.CompletedAt),
		fromMillis(dto.TotalDurationMs),
		dto.Version,
	)
}

func stageToDomain(dto StageDTO) (*order.Stage, error) {
	var assignedTo *kernel.UUID
	if dto.AssignedTo != nil {
		aID, err := kernel.UUIDFromBytes((*dto.AssignedTo)[:])
		if err != nil {
			return nil, err
		}
		assignedTo = &aID
	}

	return order.RestoreStage(
		dto.Position,
		dto.Name,
		order.StageStatus(dto.Status),
		assignedTo,
		utc(dto.StartTime),
		utc(dto.EndTime),
		fromMillis(dto.DurationMs),
	)
}

func toMillis(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}

func fromMillis(ms *int64) *time.Duration {
	if ms == nil {
		return nil
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
