package auth

// Built-in roles.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
)

// Capabilities every installation knows about. Plugins add their own.
const (
	// CapRead allows reading published content and the dashboard.
	CapRead = "read"
	// CapManageOptions allows changing site and plugin settings.
	CapManageOptions = "manage_options"
	// CapUnfilteredHTML allows saving markup without the allow-list filter.
	CapUnfilteredHTML = "unfiltered_html"
	// CapListUsers allows viewing the user list.
	CapListUsers = "list_users"
	// CapCreateUsers allows adding users.
	CapCreateUsers = "create_users"
	// CapEditUsers allows changing role and status of other users.
	CapEditUsers = "edit_users"
)

// DefaultRoleCapabilities are granted when the built-in roles are seeded.
func DefaultRoleCapabilities() map[string][]string {
	return map[string][]string{
		RoleAdministrator: {CapRead, CapManageOptions, CapUnfilteredHTML, CapListUsers, CapCreateUsers, CapEditUsers},
		RoleEditor:        {CapRead, CapUnfilteredHTML},
		RoleAuthor:        {CapRead},
	}
}
