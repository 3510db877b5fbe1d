package domain

import "testing"

func TestClassifyRoute(t *testing.T) {
	cases := []struct {
		path string
		want RouteClass
	}{
		{"/dashboard", RouteProtected},
		{"/dashboard/reports/2026", RouteProtected},
		{"/profile", RouteProtected},
		{"/settings/security", RouteProtected},
		{"/admin", RouteProtected},
		{"/admin/users", RouteProtected},
		{"/auth/sign-in", RouteAuthOnly},
		{"/auth/sign-up", RouteAuthOnly},
		{"/auth/forgot-password", RouteAuthOnly},
		{"/auth/reset-password", RouteAuthOnly},
		// Auth-only matching is exact: nested or adjacent auth paths stay public.
		{"/auth/sign-in/help", RoutePublic},
		{"/auth", RoutePublic},
		{"/auth/logout", RoutePublic},
		{"/", RoutePublic},
		{"/about", RoutePublic},
		{"/health", RoutePublic},
	}

	for _, tc := range cases {
		if got := ClassifyRoute(tc.path); got != tc.want {
			t.Errorf("ClassifyRoute(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestRouteClassString(t *testing.T) {
	if RouteProtected.String() != "protected" || RouteAuthOnly.String() != "auth_only" || RoutePublic.String() != "public" {
		t.Fatalf("unexpected RouteClass strings")
	}
}
