package rbac

// Meta is the static display metadata presentation layers render per role.
type Meta struct {
	Title       string
	Description string
	Color       string
}

var roleMeta = map[Role]Meta{
	RoleProcessManager: {
		Title:       "Process Manager",
		Description: "Designs workflows and assessments and oversees their execution.",
		Color:       "#2563eb",
	},
	RoleProjectHandler: {
		Title:       "Project Handler",
		Description: "Executes assigned workflows and maintains project documents.",
		Color:       "#059669",
	},
	RoleAdmin: {
		Title:       "Administrator",
		Description: "Full access, including user and organization management.",
		Color:       "#dc2626",
	},
}

// DisplayMeta returns the display metadata for role. Unknown roles return a
// zero Meta; validity is the caller's concern via [ParseRole].
func DisplayMeta(role Role) Meta {
	return roleMeta[role]
}
