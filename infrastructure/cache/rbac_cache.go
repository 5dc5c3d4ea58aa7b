package cache

import (
	"maps"
	"slices"
	"sync"
)

// Resource is one route a role may call, tagged with its screen code.
type Resource struct {
	UserResourceCode string
	Path             string
	Method           string
	Role             string
}

// RbacRolesCache holds the route grants registered at startup, per role.
type RbacRolesCache struct {
	mu     sync.RWMutex
	byRole map[string][]Resource
	codes  map[string]struct{}
}

func NewRbacRolesCache() *RbacRolesCache {
	return &RbacRolesCache{
		byRole: make(map[string][]Resource),
		codes:  make(map[string]struct{}),
	}
}

// Add registers r for role. Registering the same grant twice is a no-op.
func (c *RbacRolesCache) Add(role string, r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[r.UserResourceCode] = struct{}{}
	if slices.Contains(c.byRole[role], r) {
		return
	}
	c.byRole[role] = append(c.byRole[role], r)
}

// Resources returns the grants of every listed role.
func (c *RbacRolesCache) Resources(roles []string) []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Resource
	for _, role := range roles {
		out = append(out, c.byRole[role]...)
	}
	return out
}

// ScreenPermissions returns the screen codes reachable by roles, used to build navigation.
func (c *RbacRolesCache) ScreenPermissions(roles []string) map[string]int {
	out := make(map[string]int)
	for _, res := range c.Resources(roles) {
		out[res.UserResourceCode] = 1
	}
	return out
}

// RouteNamesSorted lists every registered screen code.
func (c *RbacRolesCache) RouteNamesSorted() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.codes))
}
