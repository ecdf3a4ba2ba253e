package auth

// Decision is the outcome of a gate check. Decisions are plain values so the
// caller (TUI entry, CLI command) chooses how to act on them.
type Decision int

const (
	// DecisionAllow grants access to the protected surface.
	DecisionAllow Decision = iota
	// DecisionRedirectLogin means no session is present; the caller should
	// send the user to login and preserve the return location.
	DecisionRedirectLogin
	// DecisionRedirectUnauthorized means the session lacks a required role.
	DecisionRedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "unknown"
	}
}

// Gate guards protected surfaces with an optional role requirement.
type Gate struct {
	// RequiredRoles is the set of roles that grant access. Empty means any
	// authenticated user passes.
	RequiredRoles []string
	// LoginPath and UnauthorizedPath name where redirects point. They are
	// informational for CLI output.
	LoginPath        string
	UnauthorizedPath string
}

// GateResult carries the decision plus the redirect target and preserved
// return location, when applicable.
type GateResult struct {
	Decision Decision
	// RedirectTo is the path the caller should navigate to for the two
	// redirect decisions; empty on allow.
	RedirectTo string
	// ReturnTo preserves where the user was headed, for post-login return.
	ReturnTo string
}

// Check evaluates the gate for a session. A nil session is unauthenticated.
// With no required roles any session passes; otherwise the session's role
// set must intersect the required set.
func (g Gate) Check(session *Session, returnTo string) GateResult {
	if session == nil {
		return GateResult{
			Decision:   DecisionRedirectLogin,
			RedirectTo: g.loginPath(),
			ReturnTo:   returnTo,
		}
	}

	if len(g.RequiredRoles) == 0 || intersects(session.Roles, g.RequiredRoles) {
		return GateResult{Decision: DecisionAllow}
	}

	return GateResult{
		Decision:   DecisionRedirectUnauthorized,
		RedirectTo: g.unauthorizedPath(),
	}
}

func (g Gate) loginPath() string {
	if g.LoginPath == "" {
		return "/login"
	}
	return g.LoginPath
}

func (g Gate) unauthorizedPath() string {
	if g.UnauthorizedPath == "" {
		return "/unauthorized"
	}
	return g.UnauthorizedPath
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
