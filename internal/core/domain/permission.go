package domain

import "strings"

// PermissionRequest is the shape callers use to ask whether an identity holds
// a permission. Exactly three forms exist: a permission name, a
// resource/action pair, or a list of either (all elements must be satisfied).
type PermissionRequest interface {
	permissionRequest()
}

// Name requests a permission by its unique name, e.g. "user:read". If no
// permission matches by name and the string contains a ':' separator, it is
// re-interpreted as a resource/action pair.
type Name string

// ResourceAction requests a permission by exact resource and action fields.
type ResourceAction struct {
	Resource string
	Action   string
}

// RequestList is satisfied only when every element is satisfied.
type RequestList []PermissionRequest

func (Name) permissionRequest()           {}
func (ResourceAction) permissionRequest() {}
func (RequestList) permissionRequest()    {}

// CheckResult reports the outcome of a permission check. Missing lists the
// string form of every unsatisfied element and is meant for internal
// diagnostics, never for non-privileged callers.
type CheckResult struct {
	Granted bool
	Missing []string
}

// Check decides whether the supplied permission set satisfies the request.
// It is a pure function: permissions are always provided by the caller and
// no wildcard expansion happens here, so a route gate grants access only on
// concrete store-backed rows. Wildcard semantics live in MatchPermission.
func Check(permissions []Permission, request PermissionRequest) CheckResult {
	switch req := request.(type) {
	case Name:
		return checkName(permissions, string(req))
	case ResourceAction:
		return checkResourceAction(permissions, req)
	case RequestList:
		var missing []string
		for _, elem := range req {
			if res := Check(permissions, elem); !res.Granted {
				missing = append(missing, res.Missing...)
			}
		}
		return CheckResult{Granted: len(missing) == 0, Missing: missing}
	default:
		return CheckResult{Granted: false}
	}
}

func checkName(permissions []Permission, name string) CheckResult {
	for _, p := range permissions {
		if p.Name == name {
			return CheckResult{Granted: true}
		}
	}
	if resource, action, ok := splitPermissionName(name); ok {
		return checkResourceAction(permissions, ResourceAction{Resource: resource, Action: action})
	}
	return CheckResult{Granted: false, Missing: []string{name}}
}

func checkResourceAction(permissions []Permission, ra ResourceAction) CheckResult {
	for _, p := range permissions {
		if p.Resource == ra.Resource && p.Action == ra.Action {
			return CheckResult{Granted: true}
		}
	}
	return CheckResult{Granted: false, Missing: []string{ra.Resource + ":" + ra.Action}}
}

// RequestString renders a request in its flat "resource:action"/name form,
// one entry per leaf element.
func RequestString(request PermissionRequest) []string {
	switch req := request.(type) {
	case Name:
		return []string{string(req)}
	case ResourceAction:
		return []string{req.Resource + ":" + req.Action}
	case RequestList:
		var out []string
		for _, elem := range req {
			out = append(out, RequestString(elem)...)
		}
		return out
	default:
		return nil
	}
}

// splitPermissionName splits "resource:action" and reports whether both
// halves are non-empty.
func splitPermissionName(name string) (resource, action string, ok bool) {
	resource, action, found := strings.Cut(name, ":")
	if !found || resource == "" || action == "" {
		return "", "", false
	}
	return resource, action, true
}

// MatchPermission reports whether a permission name grants the given
// resource/action, including wildcard forms: "resource:*", "*:action" and
// the super-admin "*:*". Used for claim-side checks and display, not by
// Check.
func MatchPermission(permissionName, resource, action string) bool {
	switch permissionName {
	case resource + ":" + action,
		resource + ":*",
		"*:" + action,
		"*:*":
		return true
	}
	return false
}

// FormatPermission renders a permission in its "resource:action" form.
func FormatPermission(p Permission) string {
	return p.Resource + ":" + p.Action
}

// FormatPermissionList renders a permission list for display or logging.
func FormatPermissionList(permissions []Permission) []string {
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, FormatPermission(p))
	}
	return out
}
