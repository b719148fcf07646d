package authz

import "testing"

var allModules = []Module{ModuleUsers, ModuleProjects, ModuleQuotations, ModuleReports, ModuleInventory}
var allActions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport, ActionStatus}

func TestPermissionForRoleMatchesTable(t *testing.T) {
	for _, role := range Roles() {
		if role == RoleAdmin {
			continue
		}
		def := roleTable[role]
		for _, m := range allModules {
			for _, a := range allActions {
				want := def.Permissions[m][a]
				if got := PermissionForRole(role, m, a); got != want {
					t.Errorf("PermissionForRole(%s, %s, %s) = %v, want %v", role, m, a, got, want)
				}
			}
		}
	}
}

func TestAdminBypass(t *testing.T) {
	// Admin is allowed everywhere, even with a Denied override stored.
	p := Principal{
		Role: RoleAdmin,
		Overrides: Overrides{
			ModuleProjects: {ActionDelete: FlagDenied},
		},
	}
	for _, m := range allModules {
		for _, a := range allActions {
			if !PermissionForUser(p, m, a) {
				t.Errorf("admin denied for (%s, %s)", m, a)
			}
		}
	}
}

func TestGrantedOverrideWins(t *testing.T) {
	p := Principal{
		Role: RoleSalesAgent,
		Overrides: Overrides{
			ModuleQuotations: {ActionEdit: FlagGranted},
		},
	}
	if PermissionForRole(RoleSalesAgent, ModuleQuotations, ActionEdit) {
		t.Fatal("precondition failed: sales_agent should not have quotations.edit by role")
	}
	if !PermissionForUser(p, ModuleQuotations, ActionEdit) {
		t.Error("granted override did not take effect")
	}
}

func TestDeniedOverrideDoesNotRevoke(t *testing.T) {
	// A stored Denied is indistinguishable from Unset when the role already
	// grants the permission.
	p := Principal{
		Role: RoleSalesAgent,
		Overrides: Overrides{
			ModuleQuotations: {ActionView: FlagDenied},
		},
	}
	if !PermissionForUser(p, ModuleQuotations, ActionView) {
		t.Error("denied override revoked a role-granted permission")
	}
}

func TestFailClosed(t *testing.T) {
	tests := []struct {
		name   string
		p      Principal
		module Module
		action Action
	}{
		{"unknown role", Principal{Role: "ghost"}, ModuleProjects, ActionView},
		{"unknown module", Principal{Role: RoleSalesAgent}, Module("billing"), ActionView},
		{"unknown action", Principal{Role: RoleSalesAgent}, ModuleProjects, Action("approve")},
		{"empty principal", Principal{}, ModuleProjects, ActionView},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if PermissionForUser(tt.p, tt.module, tt.action) {
				t.Error("expected false for malformed lookup")
			}
		})
	}
}

func TestSalesAgentScenario(t *testing.T) {
	p := Principal{Role: RoleSalesAgent}

	if !PermissionForUser(p, ModuleProjects, ActionView) {
		t.Error("sales_agent should view projects")
	}
	if !PermissionForUser(p, ModuleQuotations, ActionCreate) {
		t.Error("sales_agent should create quotations")
	}
	if PermissionForUser(p, ModuleQuotations, ActionEdit) {
		t.Error("sales_agent should not edit quotations by default")
	}

	p.Overrides = Overrides{ModuleQuotations: {ActionEdit: FlagGranted}}
	if !PermissionForUser(p, ModuleQuotations, ActionEdit) {
		t.Error("sales_agent with override should edit quotations")
	}
}

func TestAccessors(t *testing.T) {
	roles := Roles()
	if len(roles) != 5 {
		t.Fatalf("expected 5 roles, got %d", len(roles))
	}
	for i := 1; i < len(roles); i++ {
		if roles[i-1] >= roles[i] {
			t.Error("Roles() not sorted")
		}
	}
	if Description(RoleSalesAgent) == "" {
		t.Error("missing description for sales_agent")
	}
	if Description("ghost") != "" {
		t.Error("unknown role should have empty description")
	}

	perms := ModulePermissions(RoleSalesAgent, ModuleQuotations)
	if !perms[ActionView] || !perms[ActionCreate] || perms[ActionEdit] {
		t.Errorf("unexpected sales_agent quotations matrix: %v", perms)
	}

	// Returned map is a copy; mutating it must not leak into the table.
	perms[ActionEdit] = true
	if PermissionForRole(RoleSalesAgent, ModuleQuotations, ActionEdit) {
		t.Error("accessor leaked a mutable reference to the role table")
	}
}
