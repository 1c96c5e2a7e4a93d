package auth

import (
	"encoding/json"
	"fmt"
)

// Role is the access level a user holds, globally or within a channel.
type Role string

const (
	RoleNotAllowed Role = "NOT_ALLOWED"
	RoleMember     Role = "MEMBER"
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
	RoleSuperUser  Role = "SUPER_USER"
)

// Rank orders roles. Unknown values rank below RoleNotAllowed.
func (r Role) Rank() int {
	switch r {
	case RoleSuperUser:
		return 40
	case RoleOwner:
		return 30
	case RoleAdmin:
		return 20
	case RoleMember:
		return 10
	case RoleNotAllowed:
		return 0
	default:
		return -1
	}
}

// AtLeast reports whether r grants everything required grants. It is false
// whenever either role is outside the declared set.
func (r Role) AtLeast(required Role) bool {
	if !r.IsValid() || !required.IsValid() {
		return false
	}
	return r.Rank() >= required.Rank()
}

// IsValid reports whether r is one of the declared roles.
func (r Role) IsValid() bool {
	return r.Rank() >= 0
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts the wire form of a role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UnmarshalJSON rejects role names outside the closed set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
