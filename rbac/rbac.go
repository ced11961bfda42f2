// Package rbac is the static role-based access control table: three fixed
// roles mapped to permission sets over resource:action pairs. The table is
// compiled in and never mutated; unknown persisted roles are a configuration
// error surfaced by [ParseRole], not a silent fallback.
package rbac

import "fmt"

// Role is one of the three fixed platform roles.
type Role string

const (
	// RoleProcessManager owns workflows and assessments end to end.
	RoleProcessManager Role = "process_manager"
	// RoleProjectHandler executes assigned workflows and edits documents.
	RoleProjectHandler Role = "project_handler"
	// RoleAdmin holds an implicit wildcard over every permission.
	RoleAdmin Role = "admin"
)

// Permission names a resource:action pair.
type Permission string

const (
	WorkflowsCreate Permission = "workflows:create"
	WorkflowsRead   Permission = "workflows:read"
	WorkflowsUpdate Permission = "workflows:update"
	WorkflowsDelete Permission = "workflows:delete"

	AssessmentsCreate Permission = "assessments:create"
	AssessmentsRead   Permission = "assessments:read"
	AssessmentsUpdate Permission = "assessments:update"
	AssessmentsDelete Permission = "assessments:delete"

	DocumentsCreate Permission = "documents:create"
	DocumentsRead   Permission = "documents:read"
	DocumentsUpdate Permission = "documents:update"
	DocumentsDelete Permission = "documents:delete"

	// Users and organizations management is reserved for admins.
	UsersCreate        Permission = "users:create"
	UsersRead          Permission = "users:read"
	UsersUpdate        Permission = "users:update"
	UsersDelete        Permission = "users:delete"
	OrganizationsRead   Permission = "organizations:read"
	OrganizationsUpdate Permission = "organizations:update"
)

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleProcessManager: permSet(
		WorkflowsCreate, WorkflowsRead, WorkflowsUpdate, WorkflowsDelete,
		AssessmentsCreate, AssessmentsRead, AssessmentsUpdate, AssessmentsDelete,
		DocumentsCreate, DocumentsRead, DocumentsUpdate, DocumentsDelete,
	),
	RoleProjectHandler: permSet(
		WorkflowsRead, WorkflowsUpdate,
		AssessmentsCreate, AssessmentsRead, AssessmentsUpdate,
		DocumentsCreate, DocumentsRead, DocumentsUpdate,
	),
	// RoleAdmin is intentionally absent: HasPermission short-circuits on it.
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleProcessManager, RoleProjectHandler, RoleAdmin:
		return true
	}
	return false
}

// ParseRole validates a persisted role value. Values outside the enum are a
// fatal configuration error for callers, never a login failure.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("rbac: unknown role %q", value)
	}
	return role, nil
}

// HasPermission reports whether role grants perm. Admin satisfies every
// permission check via its implicit wildcard.
func HasPermission(role Role, perm Permission) bool {
	if role == RoleAdmin {
		return true
	}
	_, ok := rolePermissions[role][perm]
	return ok
}

// HasRole reports whether role is in allowed. Admin always passes regardless
// of the allow-list contents.
func HasRole(role Role, allowed ...Role) bool {
	if role == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Permissions returns the explicit grant list for role, sorted by the table
// declaration. Admin returns every known permission.
func Permissions(role Role) []Permission {
	all := []Permission{
		WorkflowsCreate, WorkflowsRead, WorkflowsUpdate, WorkflowsDelete,
		AssessmentsCreate, AssessmentsRead, AssessmentsUpdate, AssessmentsDelete,
		DocumentsCreate, DocumentsRead, DocumentsUpdate, DocumentsDelete,
		UsersCreate, UsersRead, UsersUpdate, UsersDelete,
		OrganizationsRead, OrganizationsUpdate,
	}
	if role == RoleAdmin {
		return all
	}
	var out []Permission
	for _, p := range all {
		if _, ok := rolePermissions[role][p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Convenience predicates for the capabilities handlers check most often.

func CanManageWorkflows(role Role) bool   { return HasPermission(role, WorkflowsCreate) }
func CanManageAssessments(role Role) bool { return HasPermission(role, AssessmentsCreate) }
func CanEditDocuments(role Role) bool     { return HasPermission(role, DocumentsUpdate) }
func CanManageUsers(role Role) bool       { return HasPermission(role, UsersCreate) }
func CanManageOrganization(role Role) bool {
	return HasPermission(role, OrganizationsUpdate)
}
