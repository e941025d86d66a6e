package operator

import (
	"fmt"
	"strings"

	"workorders/internal/pkg/errs"
)

// Role is the access level an operator authenticates with.
type Role int

const (
	RoleUnknown Role = iota
	RoleOperator
	RoleManager
	RoleAdministrator
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:       "unknown",
		RoleOperator:      "operator",
		RoleManager:       "manager",
		RoleAdministrator: "administrator",
	}
}

func (r Role) Validate() error {
	if r != RoleOperator && r != RoleManager && r != RoleAdministrator {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// ParseRole accepts role names case-insensitively.
func ParseRole(str string) (Role, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	for r, name := range getRoleStrings() {
		if name == str && r != RoleUnknown {
			return r, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", str))
}

// ParseRoles parses a comma separated role list, ignoring empty entries.
func ParseRoles(csv string) ([]Role, error) {
	var roles []Role
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}
