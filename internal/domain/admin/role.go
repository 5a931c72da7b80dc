package admin

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/luminform/atelier/internal/domain/shared"
)

// Permission is a resource:action scope checked by the admin guard
type Permission string

const (
	PermPartnersRead    Permission = "partners:read"
	PermPartnersWrite   Permission = "partners:write"
	PermOrdersRead      Permission = "orders:read"
	PermOrdersWrite     Permission = "orders:write"
	PermCatalogRead     Permission = "catalog:read"
	PermCatalogWrite    Permission = "catalog:write"
	PermMicrositesRead  Permission = "microsites:read"
	PermMicrositesWrite Permission = "microsites:write"
	PermAnalyticsRead   Permission = "analytics:read"
	PermAuditRead       Permission = "audit:read"
	PermAdminsManage    Permission = "admins:manage"
)

// AllPermissions lists every permission a super admin holds
var AllPermissions = []Permission{
	PermPartnersRead, PermPartnersWrite,
	PermOrdersRead, PermOrdersWrite,
	PermCatalogRead, PermCatalogWrite,
	PermMicrositesRead, PermMicrositesWrite,
	PermAnalyticsRead, PermAuditRead, PermAdminsManage,
}

// Role is the back-office role of an admin user
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOperations Role = "operations"
	RoleSupport    Role = "support"
	RoleFinance    Role = "finance"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleOperations, RoleSupport, RoleFinance}
}

var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: AllPermissions,
	RoleOperations: {
		PermPartnersRead, PermPartnersWrite,
		PermOrdersRead, PermOrdersWrite,
		PermCatalogRead, PermCatalogWrite,
		PermMicrositesRead, PermMicrositesWrite,
		PermAnalyticsRead,
	},
	RoleSupport: {
		PermPartnersRead, PermOrdersRead, PermMicrositesRead, PermAuditRead,
	},
	RoleFinance: {
		PermOrdersRead, PermAnalyticsRead, PermPartnersRead,
	},
}

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the scopes granted to the role
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Has reports whether the role grants perm
func (r Role) Has(perm Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionStrings returns the role scopes as plain strings for token claims
func (r Role) PermissionStrings() []string {
	perms := rolePermissions[r]
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown admin role: %s", s))
	}
	return r, nil
}

// Scan implements the sql.Scanner interface
func (r *Role) Scan(value any) error {
	if value == nil {
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("admin: cannot scan type %T into Role", value)
	}
	*r = Role(s)
	if !r.IsValid() {
		return fmt.Errorf("admin: invalid role: %s", s)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}
