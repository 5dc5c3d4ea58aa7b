package rbac

import (
	"strings"

	"godam/infrastructure/cache"
)

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
)

// Roles lists every role a console user may hold.
var Roles = []string{RoleAdmin, RoleDispatcher}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Rbac registers route permissions per role.
type Rbac struct {
	cache *cache.RbacRolesCache
}

func New(c *cache.RbacRolesCache) *Rbac {
	return &Rbac{cache: c}
}

// Add grants role access to method+path under the screen code.
func (r *Rbac) Add(role, code, method, path string) {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.Add(role, cache.Resource{
		Role:             role,
		UserResourceCode: code,
		Method:           strings.ToUpper(method),
		Path:             path,
	})
}

// Grant registers the same route for several roles.
func (r *Rbac) Grant(roles []string, code, method, path string) {
	for _, role := range roles {
		r.Add(role, code, method, path)
	}
}

// Allowed reports whether any of roles may call method on urlPath.
func (r *Rbac) Allowed(roles []string, urlPath, method string) bool {
	if r == nil || r.cache == nil {
		return false
	}
	return ValidateResourceAccess(r.cache.Resources(roles), urlPath, method)
}

func ValidateResourceAccess(resources []cache.Resource, urlPath, method string) bool {
	method = strings.ToUpper(method)
	for _, res := range resources {
		if res.Method == method && matchPath(res.Path, urlPath) {
			return true
		}
	}
	return false
}

// matchPath supports "*" for one segment and a trailing "*" for any suffix.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")

	tail := want[len(want)-1] == "*"
	if len(want) != len(got) {
		if !tail || len(got) < len(want)-1 {
			return false
		}
		want = want[:len(want)-1]
		got = got[:len(want)]
	}
	for i := range want {
		if want[i] != "*" && want[i] != got[i] {
			return false
		}
	}
	return true
}
