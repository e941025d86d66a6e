package commands

import (
	"errors"
	"strings"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"
	"workorders/internal/pkg/errs"
	"workorders/internal/pkg/guard"
)

var ErrRegisterOperatorCommandIsNotConstructed = errors.New(
	"RegisterOperatorCommand must be created via NewRegisterOperatorCommand constructor",
)

// RegisterOperatorCommand records the identity carried by a bearer token so
// that stage assignments can later be shown with a username.
type RegisterOperatorCommand struct { //nolint:recvcheck //using for validation
	operatorID kernel.UUID
	username   string
	role       operator.Role

	guard guard.ConstructorGuard
}

func NewRegisterOperatorCommand(operatorID kernel.UUID, username string, role operator.Role) (RegisterOperatorCommand, error) {
	c := RegisterOperatorCommand{
		guard: guard.NewConstructorGuard(),
	}

	var usernameErr error
	if strings.TrimSpace(username) == "" {
		usernameErr = errs.NewValueIsRequiredError("username")
	}

	if err := errors.Join(operatorID.Validate(), usernameErr, role.Validate()); err != nil {
		return RegisterOperatorCommand{}, err
	}
	c.operatorID = operatorID
	c.username = username
	c.role = role

	return c, nil
}

func (c RegisterOperatorCommand) Validate() error {
	return c.guard.Validate(ErrRegisterOperatorCommandIsNotConstructed)
}

func (c RegisterOperatorCommand) OperatorID() kernel.UUID {
	return c.operatorID
}

func (c RegisterOperatorCommand) Username() string {
	return c.username
}

func (c RegisterOperatorCommand) Role() operator.Role {
	return c.role
}
