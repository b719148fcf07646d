package authz

// Module is one of the fixed application areas a permission applies to.
type Module string

const (
	ModuleUsers      Module = "users"
	ModuleProjects   Module = "projects"
	ModuleQuotations Module = "quotations"
	ModuleReports    Module = "reports"
	ModuleInventory  Module = "inventory"
)

// Action is one of the fixed operations a permission can gate.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionStatus Action = "status"
)

// Flag is a tri-state per-user override. Absence from the Overrides map and
// FlagUnset mean the same thing: inherit from the role.
type Flag uint8

const (
	FlagUnset Flag = iota
	FlagDenied
	FlagGranted
)

// Overrides is the sparse per-user permission override map. A stored
// FlagDenied is kept for administrative visibility but does not revoke a
// role-granted permission; only FlagGranted changes the outcome.
type Overrides map[Module]map[Action]Flag

// Principal carries the permission-relevant fields of a user.
type Principal struct {
	Role      RoleID
	Overrides Overrides
}

// PermissionForRole returns the base role table value for (role, module,
// action). Unknown roles, modules and actions resolve to false.
func PermissionForRole(role RoleID, module Module, action Action) bool {
	if role == RoleAdmin {
		return true
	}
	def, ok := roleTable[role]
	if !ok {
		return false
	}
	actions, ok := def.Permissions[module]
	if !ok {
		return false
	}
	return actions[action]
}

// PermissionForUser resolves the effective permission for a principal.
// Resolution order: admin bypass, then an explicit Granted override, then the
// base role table. Never errors; malformed input resolves to false.
func PermissionForUser(p Principal, module Module, action Action) bool {
	if p.Role == RoleAdmin {
		return true
	}
	if actions, ok := p.Overrides[module]; ok {
		if actions[action] == FlagGranted {
			return true
		}
	}
	return PermissionForRole(p.Role, module, action)
}
