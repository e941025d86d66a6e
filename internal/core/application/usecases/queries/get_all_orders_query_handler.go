package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetAllOrdersQueryHandler struct {
	reader orderViewReader
}

func NewGetAllOrdersQueryHandler(db *gorm.DB, operators OperatorDirectory) GetAllOrdersQueryHandler {
	return GetAllOrdersQueryHandler{reader: newOrderViewReader(db, operators)}
}

// Handle returns an empty, non-nil slice when there are no orders.
func (h GetAllOrdersQueryHandler) Handle(ctx context.Context, query GetAllOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.read(ctx, "")
}
