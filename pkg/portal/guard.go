package portal

// Decision is the outcome of resolving a navigation request: either render
// the view at Path, or redirect the browser to Path instead.
type Decision struct {
	Redirect bool
	Path     string
	View     string
}

func render(r Route) Decision {
	return Decision{Path: r.Path, View: r.View}
}

func redirect(path string) Decision {
	return Decision{Redirect: true, Path: path}
}

// DefaultLanding is where a session ends up when no specific destination
// applies: staff on the admin dashboard, clients on theirs, everyone else
// on the login page.
func DefaultLanding(sess Session) string {
	if !sess.Authenticated() {
		return PathLogin
	}
	if sess.User.Role.Staff() {
		return PathAdminDashboard
	}
	return PathDashboard
}

// Resolve decides what a navigation to path does under the given session.
// The rules apply in strict order, first match wins:
//
//  1. the root path redirects to the session's default landing
//  2. public routes render for anyone, authenticated included
//  3. without a session everything else redirects to login
//  4. a pending forced password change redirects every route except the
//     password change view itself
//  5. a route the role is not allowed on redirects to the default landing
//  6. otherwise the requested view renders
//
// Unknown paths are treated as authenticated routes with no view, so they
// fall into whichever redirect applies. There is no error outcome.
func Resolve(path string, sess Session) Decision {
	if path == PathRoot || path == "" {
		return redirect(DefaultLanding(sess))
	}

	route, known := lookupRoute(path)
	if route.Access == AccessPublic {
		return render(route)
	}
	if !sess.Authenticated() {
		return redirect(PathLogin)
	}
	if sess.User.MustChangePassword && path != PathChangePassword {
		return redirect(PathChangePassword)
	}
	if !route.Allowed(sess.User.Role) {
		return redirect(DefaultLanding(sess))
	}
	if !known {
		return redirect(DefaultLanding(sess))
	}
	return render(route)
}
