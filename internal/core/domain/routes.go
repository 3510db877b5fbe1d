package domain

import "strings"

// RouteClass is the protection class of a request path.
type RouteClass int

const (
	// RoutePublic paths are reachable regardless of authentication state.
	RoutePublic RouteClass = iota
	// RouteProtected paths require a valid credential.
	RouteProtected
	// RouteAuthOnly paths are for unauthenticated visitors only (sign-in
	// and friends); authenticated users are bounced to the dashboard.
	RouteAuthOnly
)

func (rc RouteClass) String() string {
	switch rc {
	case RouteProtected:
		return "protected"
	case RouteAuthOnly:
		return "auth_only"
	default:
		return "public"
	}
}

// Authenticated-area prefixes: nested paths are covered.
var protectedPrefixes = []string{
	"/dashboard",
	"/profile",
	"/settings",
	"/admin",
}

// Unauthenticated-only paths: exact matches only, so /auth/sign-in/help
// stays public.
var authOnlyPaths = map[string]struct{}{
	"/auth/sign-in":         {},
	"/auth/sign-up":         {},
	"/auth/forgot-password": {},
	"/auth/reset-password":  {},
}

// ClassifyRoute maps a request path to its RouteClass. Purely a function of
// the path; no persistence, no request state.
func ClassifyRoute(path string) RouteClass {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RouteProtected
		}
	}
	if _, ok := authOnlyPaths[path]; ok {
		return RouteAuthOnly
	}
	return RoutePublic
}
