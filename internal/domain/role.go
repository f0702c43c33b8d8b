package domain

// Role is the business role attached to an employee and carried by a session.
type Role string

const (
	RoleAdmin             Role = "Admin"
	RoleOwner             Role = "Owner"
	RoleFinanceManager    Role = "Finance Manager"
	RoleHRManager         Role = "HR Manager"
	RoleBranchManager     Role = "Branch Manager"
	RoleOperationManager  Role = "Operation Manager"
	RoleSalesManager      Role = "Sales Manager"
	RoleSales             Role = "Sales"
	RoleSalesFollowUp     Role = "Sales Follow Up"
	RoleBusinessDeveloper Role = "Business Developer"
	RoleEmployee          Role = "Employee"
)

// AllRoles contains every role a dashboard exists for, in display order
var AllRoles = []Role{
	RoleAdmin,
	RoleOwner,
	RoleFinanceManager,
	RoleHRManager,
	RoleBranchManager,
	RoleOperationManager,
	RoleSalesManager,
	RoleSales,
	RoleSalesFollowUp,
	RoleBusinessDeveloper,
	RoleEmployee,
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// CanManageEmployees reports whether the role may add employees.
func (r Role) CanManageEmployees() bool {
	return r == RoleHRManager || r == RoleAdmin
}

// Dashboard returns the name of the landing dashboard for the role.
// Unknown roles land on the generic employee dashboard.
func (r Role) Dashboard() string {
	switch r {
	case RoleAdmin:
		return "Admin_Dashboard"
	case RoleOwner:
		return "Owner_Dashboard"
	case RoleFinanceManager:
		return "FinanceManager_Dashboard"
	case RoleHRManager:
		return "HR_Dashboard"
	case RoleBranchManager:
		return "BranchManager_Dashboard"
	case RoleOperationManager:
		return "OperationManager_Dashboard"
	case RoleSalesManager:
		return "SalesManager_Dashboard"
	case RoleSales:
		return "Sales_Dashboard"
	case RoleSalesFollowUp:
		return "SalesFollowUp_Dashboard"
	case RoleBusinessDeveloper:
		return "BusinessDeveloper_Dashboard"
	default:
		return "Dashboard"
	}
}
