package domain

import "strings"

// Modules guarded by role checks
const (
	ModuleAdmin          = "admin"
	ModuleProducts       = "products"
	ModuleSuppliers      = "suppliers"
	ModulePurchaseOrders = "purchaseorders"
)

var moduleRoles = map[string][]string{
	ModuleAdmin:          {RoleAdministrator},
	ModuleProducts:       {RoleAdministrator, RoleOperationUser},
	ModuleSuppliers:      {RoleAdministrator, RoleOperationUser},
	ModulePurchaseOrders: {RoleAdministrator, RoleOperationUser},
}

// HasAccess reports whether role may use module. Module names are matched
// case-insensitively; unknown modules are denied.
func HasAccess(role, module string) bool {
	for _, allowed := range moduleRoles[strings.ToLower(module)] {
		if allowed == role {
			return true
		}
	}
	return false
}
