package queries

import (
	"context"

	"workorders/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	reader orderViewReader
}

func NewGetOrderQueryHandler(db *gorm.DB, operators OperatorDirectory) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: newOrderViewReader(db, operators)}
}

// Handle fails with errs.ErrObjectNotFound for an unknown id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	views, err := h.reader.read(ctx, "id = ?", query.OrderID().Bytes())
	if err != nil {
		return OrderView{}, err
	}
	if len(views) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	return views[0], nil
}
