package portal

import "strings"

// Access classifies who may open a route.
type Access int

const (
	// AccessPublic routes render for everyone, logged in or not.
	AccessPublic Access = iota
	// AccessAuthenticated routes render for any logged-in user.
	AccessAuthenticated
	// AccessRoles routes render only for the listed roles.
	AccessRoles
)

// Route is one entry in the static navigation table.
type Route struct {
	Path   string
	View   string
	Access Access
	Roles  []Role
}

// Allowed reports whether the role satisfies the route's access class.
func (r Route) Allowed(role Role) bool {
	if r.Access != AccessRoles {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

const (
	PathRoot           = "/"
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathChangePassword = "/change-password"
	PathDashboard      = "/dashboard"
	PathAdminDashboard = "/admin/dashboard"
)

var staffRoles = []Role{RoleAdmin, RoleLawyer}

// routeTable is defined once at startup and never mutated.
var routeTable = map[string]Route{
	PathLogin:          {Path: PathLogin, View: "login", Access: AccessPublic},
	PathRegister:       {Path: PathRegister, View: "register", Access: AccessPublic},
	PathChangePassword: {Path: PathChangePassword, View: "change-password", Access: AccessAuthenticated},
	PathDashboard:      {Path: PathDashboard, View: "dashboard", Access: AccessAuthenticated},
	"/cases":           {Path: "/cases", View: "cases", Access: AccessAuthenticated},
	"/documents":       {Path: "/documents", View: "documents", Access: AccessAuthenticated},
	"/payments":        {Path: "/payments", View: "payments", Access: AccessAuthenticated},
	"/notifications":   {Path: "/notifications", View: "notifications", Access: AccessAuthenticated},
	"/profile":         {Path: "/profile", View: "profile", Access: AccessAuthenticated},
	PathAdminDashboard: {Path: PathAdminDashboard, View: "admin-dashboard", Access: AccessRoles, Roles: staffRoles},
	"/admin/clients":   {Path: "/admin/clients", View: "admin-clients", Access: AccessRoles, Roles: staffRoles},
	"/admin/cases":     {Path: "/admin/cases", View: "admin-cases", Access: AccessRoles, Roles: staffRoles},
	"/admin/payments":  {Path: "/admin/payments", View: "admin-payments", Access: AccessRoles, Roles: staffRoles},
}

// lookupRoute resolves a path against the table. Anything under /admin/ that
// is not listed explicitly is still staff-only; any other unknown path is
// handled like an authenticated route with no view of its own.
func lookupRoute(path string) (Route, bool) {
	if r, ok := routeTable[path]; ok {
		return r, true
	}
	if strings.HasPrefix(path, "/admin/") || path == "/admin" {
		return Route{Path: path, Access: AccessRoles, Roles: staffRoles}, false
	}
	return Route{Path: path, Access: AccessAuthenticated}, false
}
