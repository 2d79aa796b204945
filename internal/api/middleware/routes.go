package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"skillarena/internal/domain/model"
)

type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteProtected
	RouteAuthOnly
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

var protectedPrefixes = []string{"/dashboard", "/profile", "/contests/create", "/achievements"}

// ClassifyRoute matches protected prefixes on segment boundaries, so
// "/profile/edit" is protected and "/profiles" is not.
func ClassifyRoute(path string) RouteClass {
	if path == "/login" || path == "/signup" {
		return RouteAuthOnly
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return RouteProtected
		}
	}
	return RoutePublic
}

// LoginRedirect builds the login URL carrying the requested path.
func LoginRedirect(path string) string {
	return LoginPath + "?callbackUrl=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// PageGate guards page routes. It must run after the session Verifier.
// Protected pages without a valid session redirect to login; login and
// signup with a valid session redirect to the dashboard.
func PageGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := ClassifyRoute(r.URL.Path)
		if class == RoutePublic {
			next.ServeHTTP(w, r)
			return
		}

		session, err := sessionFromRequest(r)
		authenticated := err == nil

		switch {
		case class == RouteProtected && !authenticated:
			http.Redirect(w, r, LoginRedirect(r.URL.Path), http.StatusFound)
			return
		case class == RouteAuthOnly && authenticated:
			http.Redirect(w, r, DashboardPath, http.StatusFound)
			return
		}
		if authenticated {
			r = r.WithContext(WithSession(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

// PageRoleGate redirects to fallback when the session role is not allowed.
// It expects PageGate to have authenticated the request.
func PageRoleGate(fallback string, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRoleFromContext(r.Context())
			if !ok || !role.In(roles...) {
				http.Redirect(w, r, fallback, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
