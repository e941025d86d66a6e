package queries

import (
	"context"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetStalledStagesQueryHandler struct {
	db        *gorm.DB
	operators OperatorDirectory
}

func NewGetStalledStagesQueryHandler(db *gorm.DB, operators OperatorDirectory) GetStalledStagesQueryHandler {
	return GetStalledStagesQueryHandler{db: db, operators: operators}
}

// Handle returns the stalled stages, longest running first.
func (h GetStalledStagesQueryHandler) Handle(ctx context.Context, query GetStalledStagesQuery) ([]StalledStageView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_name,
			o.client_name,
			s.position,
			s.name,
			s.assigned_to,
			s.start_time
		FROM order_stages s
		JOIN orders o ON o.id = s.order_id
		WHERE s.status = ? AND s.start_time < ?
		ORDER BY s.start_time, o.id, s.position
	`, int(order.StageInProgress), query.StartedBefore()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]StalledStageView, 0)
	for rows.Next() {
		var (
			orderID, assignedTo uuid.UUID
			view                StalledStageView
			start               time.Time
		)
		if err = rows.Scan(&orderID, &view.OrderName, &view.ClientName, &view.StageIndex,
			&view.StageName, &assignedTo, &start); err != nil {
			return nil, err
		}

		if view.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if view.AssignedTo.ID, err = kernel.UUIDFromBytes(assignedTo[:]); err != nil {
			return nil, err
		}
		view.StartTime = start.UTC()
		views = append(views, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*OperatorRef, len(views))
	for i := range views {
		refs[i] = &views[i].AssignedTo
	}
	if err = resolveUsernames(ctx, h.operators, refs); err != nil {
		return nil, err
	}
	return views, nil
}
