// Package notice implements dismissible dashboard notices and their
// dismissal-state lifecycle.
package notice

import (
	"context"
	"html/template"
	"strings"

	"github.com/expr-lang/expr/vm"
)

// Style selects the presentational class of a notice.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
)

// IsValid checks if the style is a supported style.
func (s Style) IsValid() bool {
	switch s {
	case StyleInfo, StyleSuccess, StyleWarning, StyleError:
		return true
	default:
		return false
	}
}

// Scope selects which namespace the dismissed flag lives in.
type Scope string

const (
	// ScopeGlobal shares a single dismissed flag across all actors.
	ScopeGlobal Scope = "global"
	// ScopeUser tracks the dismissed flag per individual actor.
	ScopeUser Scope = "user"
)

// IsValid checks if the scope is a supported scope.
func (s Scope) IsValid() bool {
	return s == ScopeGlobal || s == ScopeUser
}

const (
	// DefaultKeyPrefix is joined with the notice ID to form the storage key.
	DefaultKeyPrefix = "wptrt_notice_dismissed"

	// DefaultCapability gates notice visibility when none is configured.
	DefaultCapability = "edit_theme_options"

	// DismissAction is the fixed action literal carried by dismiss requests.
	DismissAction = "dismiss-notice"

	// DefaultEndpoint is the path the embedded dismiss script posts to.
	DefaultEndpoint = "/admin/dismiss"
)

// Actor identifies the viewer or requester of a notice.
type Actor struct {
	ID    string
	Roles []string
}

// Config holds a single notice's configuration. It is immutable after the
// controller is constructed.
type Config struct {
	// ID is the opaque notice identifier. It derives the DOM anchor and the
	// storage key. Empty disables the notice entirely.
	ID string

	// Content is pre-rendered, pre-sanitized markup. It is injected verbatim;
	// the caller guarantees safety. Empty disables the notice entirely.
	Content template.HTML

	// Dismissible controls whether a dismiss affordance is rendered. When
	// false, stored dismissed flags are ignored.
	Dismissible bool

	Scope Scope
	Style Style

	// Capability the viewing actor must hold.
	Capability string

	// KeyPrefix is joined with the sanitized ID by an underscore to form the
	// storage key.
	KeyPrefix string

	// Screens limits which screens the notice renders on. Entries may be
	// doublestar glob patterns. Empty means all screens.
	Screens []string

	// Rule is an optional compiled visibility expression evaluated against
	// the viewing actor and screen. Nil means no rule.
	Rule *vm.Program

	// Endpoint is the path the dismiss script posts to.
	Endpoint string
}

// StorageKey returns the derived persistence key for the dismissed flag.
func (c Config) StorageKey() string {
	return c.KeyPrefix + "_" + sanitizeKey(c.ID)
}

// NonceScope returns the anti-forgery token scope for this notice.
func (c Config) NonceScope() string {
	return "dismiss_" + c.ID
}

// applyDefaults fills zero values with their defaults.
func (c *Config) applyDefaults() {
	if c.Scope == "" {
		c.Scope = ScopeGlobal
	}
	if c.Style == "" {
		c.Style = StyleInfo
	}
	if c.Capability == "" {
		c.Capability = DefaultCapability
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
}

// sanitizeKey lowercases the id and strips everything outside [a-z0-9_-] so
// the storage key stays stable and store-safe.
func sanitizeKey(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DismissRequest is the decoded form of an asynchronous dismiss request.
type DismissRequest struct {
	Action string
	ID     string
	Nonce  string
	Actor  Actor
}

// StateStore reads and writes dismissed flags. Implementations must provide
// read-after-write consistency for a single key; actorID is empty for
// globally scoped flags.
type StateStore interface {
	Dismissed(ctx context.Context, key string, actorID string) (bool, error)
	SetDismissed(ctx context.Context, key string, actorID string) error
}

// Authorizer answers capability checks for actors.
type Authorizer interface {
	Can(actor Actor, capability string) bool
}

// TokenSource mints and verifies anti-forgery tokens bound to a scope and
// actor identity.
type TokenSource interface {
	Mint(scope, actorID string) string
	Verify(token, scope, actorID string) bool
}
