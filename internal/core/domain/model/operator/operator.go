package operator

import (
	"errors"
	"strings"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"
	"workorders/internal/pkg/guard"
)

var (
	// ErrUsernameIsRequired is returned for a blank username.
	ErrUsernameIsRequired = errs.NewValueIsRequiredError("username")
	// ErrOperatorIsNotConstructed is returned when using a zero-value Operator.
	ErrOperatorIsNotConstructed = errors.New("Operator must be created via NewOperator constructor")
)

// Operator is a registered user of the tracker. Its id is the subject of the
// bearer token it authenticates with.
type Operator struct {
	id       kernel.UUID
	username string
	role     Role
	guard    guard.ConstructorGuard
}

// NewOperator creates an operator. It is also used to restore one from storage,
// since an operator has no state beyond its fields.
func NewOperator(id kernel.UUID, username string, role Role) (*Operator, error) {
	o := &Operator{guard: guard.NewConstructorGuard()}

	if err := errors.Join(o.setID(id), o.setUsername(username), role.Validate()); err != nil {
		return nil, err
	}
	o.role = role

	return o, nil
}

func (o *Operator) Validate() error {
	if o == nil {
		return ErrOperatorIsNotConstructed
	}
	return o.guard.Validate(ErrOperatorIsNotConstructed)
}

func (o *Operator) ID() kernel.UUID {
	return o.id
}

func (o *Operator) Username() string {
	return o.username
}

func (o *Operator) Role() Role {
	return o.role
}

// Rename updates the username, e.g. after it changed in the identity provider.
func (o *Operator) Rename(username string) error {
	return o.setUsername(username)
}

// ChangeRole updates the operator's role.
func (o *Operator) ChangeRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	o.role = role
	return nil
}

func (o *Operator) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Operator) setUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameIsRequired
	}
	o.username = username
	return nil
}
