// Package policy maps account plans to feature permissions. The gradebook
// engine never consults plans directly; handlers reduce a plan to a boolean
// before calling in.
package policy

import "strings"

// PlanPermissions is the default policy. Expand as plans grow.
var PlanPermissions = map[string][]string{
	"free": {
		"subject:create",
	},
	"premium": {
		"subject:create",
		"subject:unlimited",
	},
}

type Checker struct {
	PlanPermissions map[string][]string
}

func NewChecker(pp map[string][]string) *Checker {
	if pp == nil {
		pp = PlanPermissions
	}
	return &Checker{PlanPermissions: pp}
}

func (c *Checker) Has(plan, perm string) bool {
	perms, ok := c.PlanPermissions[plan]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == "*" || matchPerm(p, perm) {
			return true
		}
	}
	return false
}

// Premium reports whether an account may use premium features. Sponsored
// accounts are premium regardless of plan.
func (c *Checker) Premium(plan string, sponsored bool) bool {
	if sponsored {
		return true
	}
	return c.Has(plan, "subject:unlimited")
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(perm, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
