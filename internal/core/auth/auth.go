// Package auth resolves actor identities and answers capability checks.
// The host platform performs the actual authentication upstream; this
// package only maps already-trusted identities onto roles and capabilities.
package auth

import (
	"slices"
	"sort"

	"github.com/colonyops/noticeboard/internal/core/notice"
)

// CapabilityAll grants every capability when present on a role.
const CapabilityAll = "*"

// Directory maps actor ids to roles and roles to capabilities. It is built
// once from configuration and read-only afterward.
type Directory struct {
	// roles maps a role name to its capability set.
	roles map[string][]string
	// users maps an actor id to its role names.
	users map[string][]string
}

var _ notice.Authorizer = (*Directory)(nil)

// NewDirectory creates a directory from role and user maps. Nil maps are
// treated as empty.
func NewDirectory(roles, users map[string][]string) *Directory {
	if roles == nil {
		roles = map[string][]string{}
	}
	if users == nil {
		users = map[string][]string{}
	}
	return &Directory{roles: roles, users: users}
}

// Resolve returns the actor for the given id with its configured roles.
// Unknown ids resolve to an actor with no roles.
func (d *Directory) Resolve(id string) notice.Actor {
	return notice.Actor{
		ID:    id,
		Roles: d.users[id],
	}
}

// Can reports whether the actor holds the given capability through any of
// its roles. A role carrying "*" grants every capability.
func (d *Directory) Can(actor notice.Actor, capability string) bool {
	if capability == "" {
		return false
	}

	for _, role := range actor.Roles {
		caps := d.roles[role]
		if slices.Contains(caps, CapabilityAll) || slices.Contains(caps, capability) {
			return true
		}
	}

	return false
}

// Capabilities returns the sorted union of capabilities the actor holds.
func (d *Directory) Capabilities(actor notice.Actor) []string {
	seen := map[string]struct{}{}
	for _, role := range actor.Roles {
		for _, c := range d.roles[role] {
			seen[c] = struct{}{}
		}
	}

	caps := make([]string, 0, len(seen))
	for c := range seen {
		caps = append(caps, c)
	}
	sort.Strings(caps)

	return caps
}
