package notice

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/rs/zerolog"

	"github.com/colonyops/noticeboard/internal/core/logging"
)

// Controller gates and renders a single notice and handles its dismiss
// request. Every failure mode is a silent no-op: the notice simply does not
// render, or the dismiss request is ignored. A controller constructed with an
// empty id or empty content registers normally but never does anything.
type Controller struct {
	cfg    Config
	store  StateStore
	authz  Authorizer
	tokens TokenSource
	log    zerolog.Logger

	// disabled is set when the configuration is unusable. Disabling instead
	// of erroring keeps a misconfigured notice from taking down the page.
	disabled bool
}

// NewController creates a controller for the given configuration. Defaults
// are applied to zero-valued fields before the configuration is frozen.
func NewController(cfg Config, store StateStore, authz Authorizer, tokens TokenSource) *Controller {
	cfg.applyDefaults()

	return &Controller{
		cfg:      cfg,
		store:    store,
		authz:    authz,
		tokens:   tokens,
		log:      logging.Component("notice").With().Str("notice_id", cfg.ID).Logger(),
		disabled: cfg.ID == "" || cfg.Content == "",
	}
}

// Config returns the frozen configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Disabled reports whether the controller was disabled at construction.
func (c *Controller) Disabled() bool {
	return c.disabled
}

// ShouldRender reports whether the notice should render for the given actor
// on the given screen. It has no side effects.
func (c *Controller) ShouldRender(ctx context.Context, actor Actor, screen string) bool {
	if c.disabled {
		return false
	}
	if !c.authz.Can(actor, c.cfg.Capability) {
		return false
	}
	if !c.screenAllowed(screen) {
		return false
	}
	if !c.ruleAllows(actor, screen) {
		return false
	}
	return !c.IsDismissed(ctx, actor)
}

// IsDismissed reports whether the notice has been dismissed for the given
// actor. Non-dismissible notices never report as dismissed, regardless of
// any stored flag. Store read failures count as "not dismissed" so the
// notice still renders.
func (c *Controller) IsDismissed(ctx context.Context, actor Actor) bool {
	if c.disabled || !c.cfg.Dismissible {
		return false
	}

	dismissed, err := c.store.Dismissed(ctx, c.cfg.StorageKey(), c.scopedActorID(actor))
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read dismissed flag")
		return false
	}

	return dismissed
}

// Render produces the notice markup for the given actor and screen, or an
// empty string if the notice should not render.
func (c *Controller) Render(ctx context.Context, actor Actor, screen string) string {
	if !c.ShouldRender(ctx, actor, screen) {
		return ""
	}

	markup, err := c.renderMarkup(actor)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to render notice")
		return ""
	}

	return markup
}

// HandleDismiss validates the dismiss request and, on success, persists the
// dismissed flag. Any validation failure is a silent no-op: the handler is
// shared by every registered notice and only the matching one may react.
func (c *Controller) HandleDismiss(ctx context.Context, req DismissRequest) {
	if c.disabled || !c.cfg.Dismissible {
		return
	}
	if req.Action != DismissAction {
		return
	}
	if req.ID != c.cfg.ID {
		return
	}
	if !c.tokens.Verify(req.Nonce, c.cfg.NonceScope(), req.Actor.ID) {
		c.log.Debug().Str("actor", req.Actor.ID).Msg("dismiss request with invalid token")
		return
	}

	if err := c.store.SetDismissed(ctx, c.cfg.StorageKey(), c.scopedActorID(req.Actor)); err != nil {
		c.log.Error().Err(err).Msg("failed to persist dismissed flag")
	}
}

// scopedActorID returns the actor id used for flag storage: empty for
// globally scoped notices.
func (c *Controller) scopedActorID(actor Actor) string {
	if c.cfg.Scope == ScopeUser {
		return actor.ID
	}
	return ""
}

// screenAllowed reports whether the screen passes the configured screen
// patterns. An empty pattern list allows every screen.
func (c *Controller) screenAllowed(screen string) bool {
	if len(c.cfg.Screens) == 0 {
		return true
	}

	for _, pattern := range c.cfg.Screens {
		if pattern == screen {
			return true
		}
		if ok, err := doublestar.Match(pattern, screen); err == nil && ok {
			return true
		}
	}

	return false
}

// ruleAllows evaluates the optional visibility rule. A rule that errors or
// yields anything but true counts as not matching.
func (c *Controller) ruleAllows(actor Actor, screen string) bool {
	if c.cfg.Rule == nil {
		return true
	}

	out, err := expr.Run(c.cfg.Rule, RuleEnv(actor, screen))
	if err != nil {
		c.log.Warn().Err(err).Msg("visibility rule failed to evaluate")
		return false
	}

	ok, isBool := out.(bool)
	return isBool && ok
}

// RuleEnv builds the evaluation environment for a visibility rule.
func RuleEnv(actor Actor, screen string) map[string]any {
	roles := actor.Roles
	if roles == nil {
		roles = []string{}
	}
	return map[string]any{
		"actor":  actor.ID,
		"roles":  roles,
		"screen": screen,
	}
}
