package domain

// Permission is a (module, action) capability grantable to a role.
type Permission struct {
	Module      string `json:"module"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// Module and action names used by the catalog.
const (
	ModuleProducts   = "products"
	ModuleInventory  = "inventory"
	ModuleOrders     = "orders"
	ModuleUsers      = "users"
	ModuleAttendance = "attendance"
	ModuleReports    = "reports"

	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// catalog maps each role to its explicit grants. Every enumerated role has an
// entry; roles absent from the map grant nothing (default-deny).
var catalog = map[string][]Permission{
	RoleAdmin: {
		{ModuleProducts, ActionView, "view products"},
		{ModuleProducts, ActionCreate, "create products"},
		{ModuleProducts, ActionUpdate, "update products"},
		{ModuleProducts, ActionDelete, "delete products"},
		{ModuleInventory, ActionView, "view inventory"},
		{ModuleInventory, ActionUpdate, "adjust inventory"},
		{ModuleOrders, ActionView, "view orders"},
		{ModuleOrders, ActionCreate, "create orders"},
		{ModuleOrders, ActionUpdate, "update orders"},
		{ModuleOrders, ActionDelete, "cancel orders"},
		{ModuleUsers, ActionView, "view users"},
		{ModuleUsers, ActionCreate, "create users"},
		{ModuleUsers, ActionUpdate, "update users"},
		{ModuleUsers, ActionDelete, "deactivate users"},
		{ModuleUsers, ActionManage, "manage roles"},
		{ModuleAttendance, ActionView, "view attendance"},
		{ModuleAttendance, ActionManage, "manage attendance"},
		{ModuleReports, ActionView, "view reports"},
	},
	RoleManager: {
		{ModuleProducts, ActionView, "view products"},
		{ModuleInventory, ActionView, "view inventory"},
		{ModuleOrders, ActionView, "view orders"},
		{ModuleOrders, ActionUpdate, "update orders"},
		{ModuleUsers, ActionView, "view users"},
		{ModuleUsers, ActionUpdate, "update users"},
		{ModuleUsers, ActionManage, "manage roles"},
		{ModuleAttendance, ActionView, "view attendance"},
		{ModuleAttendance, ActionManage, "manage attendance"},
		{ModuleReports, ActionView, "view reports"},
	},
	RoleUser: {
		{ModuleProducts, ActionView, "view products"},
		{ModuleOrders, ActionView, "view orders"},
	},
	RoleWarehouseWorker: {
		{ModuleProducts, ActionView, "view products"},
		{ModuleInventory, ActionView, "view inventory"},
		{ModuleInventory, ActionUpdate, "adjust inventory"},
		{ModuleOrders, ActionView, "view orders"},
	},
	RoleQualityController: {
		{ModuleProducts, ActionView, "view products"},
		{ModuleProducts, ActionUpdate, "flag products"},
		{ModuleInventory, ActionView, "view inventory"},
	},
}

// Registry answers permission checks against an immutable role grant table.
// Build one with NewRegistry at process start and inject it; checks are pure
// set membership with no I/O or mutation.
type Registry struct {
	grants  map[string]map[Permission]struct{}
	modules map[string]map[string]struct{}
	byRole  map[string][]Permission
}

// NewRegistry builds a Registry from the fixed catalog.
func NewRegistry() *Registry {
	r := &Registry{
		grants:  make(map[string]map[Permission]struct{}, len(catalog)),
		modules: make(map[string]map[string]struct{}, len(catalog)),
		byRole:  make(map[string][]Permission, len(catalog)),
	}
	for role, perms := range catalog {
		grantSet := make(map[Permission]struct{}, len(perms))
		moduleSet := make(map[string]struct{})
		for _, p := range perms {
			grantSet[Permission{Module: p.Module, Action: p.Action}] = struct{}{}
			moduleSet[p.Module] = struct{}{}
		}
		r.grants[role] = grantSet
		r.modules[role] = moduleSet
		r.byRole[role] = append([]Permission(nil), perms...)
	}
	return r
}

// HasPermission reports whether role holds the (module, action) grant.
// Unknown roles hold nothing.
func (r *Registry) HasPermission(role, module, action string) bool {
	_, ok := r.grants[role][Permission{Module: module, Action: action}]
	return ok
}

// CanAccessModule reports whether role holds at least one grant for module.
func (r *Registry) CanAccessModule(role, module string) bool {
	_, ok := r.modules[role][module]
	return ok
}

// Permissions returns a copy of the grants for role, nil for unknown roles.
func (r *Registry) Permissions(role string) []Permission {
	perms := r.byRole[role]
	if perms == nil {
		return nil
	}
	return append([]Permission(nil), perms...)
}
