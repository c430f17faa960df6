package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/noticeboard/internal/core/notice"
)

// Validate checks that the configuration is valid. Notices with an empty id
// or empty content are allowed here: the controller disables them at
// construction instead of failing the whole config (fail closed, not loud).
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if _, err := c.TokenLifetime(); err != nil {
		return err
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	return criterio.ValidateStruct(
		c.validateUserRoles(),
		c.validateNotices(),
	)
}

// validateUserRoles checks that every role assigned to a user is declared.
func (c *Config) validateUserRoles() error {
	for user, roles := range c.Users {
		for _, role := range roles {
			if _, ok := c.Roles[role]; !ok {
				return criterio.NewFieldErrors(
					fmt.Sprintf("users.%s", user),
					fmt.Errorf("unknown role %q", role),
				)
			}
		}
	}
	return nil
}

// validateNotices checks notice declarations for duplicate ids, invalid
// enums, bad screen patterns, and uncompilable rules.
func (c *Config) validateNotices() error {
	seen := make(map[string]bool, len(c.Notices))

	for i, n := range c.Notices {
		field := fmt.Sprintf("notices[%d]", i)

		if n.ID != "" {
			if seen[n.ID] {
				return criterio.NewFieldErrors(field, fmt.Errorf("duplicate notice id %q", n.ID))
			}
			seen[n.ID] = true
		}

		if n.Content != "" && n.ContentMD != "" {
			return criterio.NewFieldErrors(field, fmt.Errorf("content and content_md are mutually exclusive"))
		}

		if n.Scope != "" && !notice.Scope(n.Scope).IsValid() {
			return criterio.NewFieldErrors(field, fmt.Errorf("invalid scope %q", n.Scope))
		}

		if n.Style != "" && !notice.Style(n.Style).IsValid() {
			return criterio.NewFieldErrors(field, fmt.Errorf("invalid style %q", n.Style))
		}

		for _, pattern := range n.Screens {
			if !doublestar.ValidatePattern(pattern) {
				return criterio.NewFieldErrors(field, fmt.Errorf("invalid screen pattern %q", pattern))
			}
		}

		if n.Rule != "" {
			if _, err := expr.Compile(n.Rule); err != nil {
				return criterio.NewFieldErrors(field, fmt.Errorf("invalid rule: %w", err))
			}
		}
	}

	return nil
}
