package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the users.role column
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

/* ---------- DB adapters so gorm / sqlx scan and write the enum cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// HasOperatorAccess reports whether the role (or superuser flag) may operate the system.
func HasOperatorAccess(role Role, superuser bool) bool {
	return superuser || role == RoleAdmin || role == RoleOperator
}

// HasAdminAccess reports whether the role (or superuser flag) may administer the system.
func HasAdminAccess(role Role, superuser bool) bool {
	return superuser || role == RoleAdmin
}
