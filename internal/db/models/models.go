package models

// All returns every model for auto migration, parents first.
func All() []interface{} {
	return []interface{}{
		&Setting{},
		&Role{},
		&Capability{},
		&RoleCapability{},
		&User{},
		&MenuItem{},
		&MenuItemRevision{},
	}
}
