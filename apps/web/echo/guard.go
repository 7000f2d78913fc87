package echoweb

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sivitasdev/sivitas/core/session"
)

// guardMiddleware is the navigation guard: it runs before every page
// handler and decides proceed / redirect from the session state and the
// destination's access policy. Rules run in a fixed order; the first
// terminal decision wins.
func (s *server) guardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Request().Method != http.MethodGet {
			// form actions are not navigations, even when they share a
			// path with a page
			return next(ctx)
		}
		policy, guarded := s.policies[ctx.Path()]
		if !guarded {
			// not a declared page (static assets)
			return next(ctx)
		}

		sess := currentSession(ctx)

		// 1. first guarded navigation of this session resolves it against
		// the remote API; failures leave it anonymous (never an error).
		if sess.store.Status() == session.StatusUnknown {
			sess.store.CheckAuth(ctx.Request().Context())
		}

		// 2.
		usr, loggedIn := sess.store.User()

		// 3. auth required
		if policy.requiresAuth() && !loggedIn {
			return redirectToLogin(ctx)
		}

		// 4. lifecycle rule: an expired Mahasiswa account is pinned to the
		// account-status page; everyone else is kept away from it.
		if loggedIn {
			expired := usr.GraduationExpired(s.now())
			atStatusPage := ctx.Path() == pathAccountStatus
			switch {
			case expired && !atStatusPage:
				return ctx.Redirect(http.StatusFound, pathAccountStatus)
			case expired && atStatusPage:
				return next(ctx)
			case atStatusPage: // not expired, or not a Mahasiswa at all
				return ctx.Redirect(http.StatusFound, pathHome)
			}
		}

		// 5. public-only pages bounce authenticated users to their landing
		if policy.PublicOnly && loggedIn {
			if usr.IsAdmin() {
				return ctx.Redirect(http.StatusFound, pathAdminDashboard)
			}
			// non-admins land on home; the next navigation applies the
			// role-specific landing rules
			return ctx.Redirect(http.StatusFound, pathHome)
		}

		// 6. role-based landing pages
		if loggedIn {
			if usr.IsAdmin() && ctx.Path() == pathHome {
				return ctx.Redirect(http.StatusFound, pathAdminDashboard)
			}
			if usr.IsExternal() && (ctx.Path() == pathHome || ctx.Path() == pathCommunities) {
				return ctx.Redirect(http.StatusFound, pathJoined)
			}
		}

		// 7. role check
		if policy.requiresAuth() && !hasRole(usr.Role, policy.Roles) {
			s.deps.Logger.Warn("access denied: role " + usr.Role + " not allowed on " + ctx.Path())
			return ctx.Redirect(http.StatusFound, pathForbidden)
		}

		// 8.
		return next(ctx)
	}
}

func (s *server) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}
	return time.Now()
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// redirectToLogin preserves the originally requested path so the login
// handler can send the user back after authenticating.
func redirectToLogin(ctx echo.Context) error {
	target := ctx.Request().URL.Path
	if q := ctx.Request().URL.RawQuery; q != "" {
		target += "?" + q
	}
	return ctx.Redirect(http.StatusFound, pathLogin+"?redirect="+url.QueryEscape(target))
}
