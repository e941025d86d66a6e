package commands

import (
	"errors"
	"strings"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"
	"workorders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand requests a new order built from the configured stage template.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "Shipment 42", "Acme", operatorID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	orderName  string
	clientName string
	createdBy  kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(orderID kernel.UUID, orderName, clientName string, createdBy kernel.UUID) (CreateOrderCommand, error) {
	c := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setOrderID(orderID),
		c.setOrderName(orderName),
		c.setClientName(clientName),
		c.setCreatedBy(createdBy),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return c, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) OrderName() string {
	return c.orderName
}

func (c CreateOrderCommand) ClientName() string {
	return c.clientName
}

// CreatedBy is the operator who submitted the order.
func (c CreateOrderCommand) CreatedBy() kernel.UUID {
	return c.createdBy
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setOrderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("orderName")
	}
	c.orderName = name
	return nil
}

func (c *CreateOrderCommand) setClientName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("clientName")
	}
	c.clientName = name
	return nil
}

func (c *CreateOrderCommand) setCreatedBy(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.createdBy = id
	return nil
}
