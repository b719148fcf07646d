package authz

import "sort"

// RoleID identifies one of the fixed roles.
type RoleID string

const (
	RoleAdmin            RoleID = "admin"
	RoleCorporateManager RoleID = "corporate_manager"
	RoleSalesManager     RoleID = "sales_manager"
	RoleSalesAgent       RoleID = "sales_agent"
	RoleInventoryClerk   RoleID = "inventory_clerk"
)

type RoleDefinition struct {
	Description string
	Permissions map[Module]map[Action]bool
}

// roleTable is built once at init and never mutated afterwards, so it is safe
// for unsynchronized concurrent reads. The admin matrix is intentionally
// empty: admin access is a hard-coded bypass, not a table entry.
var roleTable = map[RoleID]RoleDefinition{
	RoleAdmin: {
		Description: "Full access to every module and action",
		Permissions: map[Module]map[Action]bool{},
	},
	RoleCorporateManager: {
		Description: "Manages companies, users and reporting",
		Permissions: map[Module]map[Action]bool{
			ModuleUsers: {
				ActionView: true, ActionCreate: true, ActionEdit: true,
				ActionDelete: true, ActionExport: true,
			},
			ModuleProjects: {
				ActionView: true, ActionCreate: true, ActionEdit: true,
				ActionExport: true, ActionStatus: true,
			},
			ModuleQuotations: {
				ActionView: true, ActionExport: true,
			},
			ModuleReports: {
				ActionView: true, ActionExport: true,
			},
			ModuleInventory: {
				ActionView: true, ActionExport: true,
			},
		},
	},
	RoleSalesManager: {
		Description: "Runs the sales team: projects, quotations and inventory status",
		Permissions: map[Module]map[Action]bool{
			ModuleProjects: {
				ActionView: true, ActionCreate: true, ActionEdit: true,
				ActionExport: true, ActionStatus: true,
			},
			ModuleQuotations: {
				ActionView: true, ActionCreate: true, ActionEdit: true,
				ActionDelete: true, ActionExport: true, ActionStatus: true,
			},
			ModuleReports: {
				ActionView: true, ActionExport: true,
			},
			ModuleInventory: {
				ActionView: true, ActionEdit: true, ActionStatus: true,
			},
		},
	},
	RoleSalesAgent: {
		Description: "Quotes units to clients",
		Permissions: map[Module]map[Action]bool{
			ModuleProjects: {
				ActionView: true,
			},
			ModuleQuotations: {
				ActionView: true, ActionCreate: true,
			},
			ModuleReports: {
				ActionView: true,
			},
		},
	},
	RoleInventoryClerk: {
		Description: "Maintains housing stock",
		Permissions: map[Module]map[Action]bool{
			ModuleProjects: {
				ActionView: true,
			},
			ModuleInventory: {
				ActionView: true, ActionCreate: true, ActionEdit: true,
				ActionStatus: true, ActionExport: true,
			},
		},
	},
}

// Roles lists the known role identifiers in stable order.
func Roles() []RoleID {
	out := make([]RoleID, 0, len(roleTable))
	for id := range roleTable {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether the role identifier exists in the table.
func Known(role RoleID) bool {
	_, ok := roleTable[role]
	return ok
}

// Description returns the human-readable description for a role, or "" for an
// unknown role.
func Description(role RoleID) string {
	return roleTable[role].Description
}

// ModulePermissions returns a copy of a role's action map for one module.
// Missing module or unknown role yields an empty map.
func ModulePermissions(role RoleID, module Module) map[Action]bool {
	out := make(map[Action]bool)
	def, ok := roleTable[role]
	if !ok {
		return out
	}
	for action, allowed := range def.Permissions[module] {
		out[action] = allowed
	}
	return out
}
