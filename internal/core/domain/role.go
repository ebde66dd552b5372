package domain

import "fmt"

// Role is the closed set of roles a user can hold. The zero value is not a
// valid role, so an unset Role never passes a gate.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleStaff
)

// Roles returns every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff}
}

// ParseRole converts the wire name of a role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "staff":
		return RoleStaff, nil
	}
	return 0, fmt.Errorf("%w: role must be one of admin, staff", ErrValidation)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleStaff:
		return "staff"
	}
	return "unknown"
}

// Valid reports whether r is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CanCreateItems gates POST /api/inventory.
func (r Role) CanCreateItems() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// CanEditItems gates partial updates.
func (r Role) CanEditItems() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStaff:
		return false
	}
	return false
}

// CanDeleteItems gates deletes.
func (r Role) CanDeleteItems() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStaff:
		return false
	}
	return false
}

// CanAdjustStock gates quantity deltas. Any signed-in role may record usage.
func (r Role) CanAdjustStock() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// CanViewMovements gates the stock movement log.
func (r Role) CanViewMovements() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStaff:
		return false
	}
	return false
}
