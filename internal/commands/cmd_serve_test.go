package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/noticeboard/internal/core/config"
	"github.com/colonyops/noticeboard/internal/core/notice"
)

// nullStore satisfies notice.StateStore for registry assembly tests.
type nullStore struct{}

func (nullStore) Dismissed(context.Context, string, string) (bool, error) { return false, nil }
func (nullStore) SetDismissed(context.Context, string, string) error      { return nil }

// nullTokens satisfies notice.TokenSource for registry assembly tests.
type nullTokens struct{}

func (nullTokens) Mint(string, string) string         { return "t" }
func (nullTokens) Verify(string, string, string) bool { return true }

func TestBuildRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Roles = map[string][]string{"admin": {"*"}}
	cfg.Users = map[string][]string{"alice": {"admin"}}
	cfg.Notices = []config.NoticeConfig{
		{ID: "welcome", Content: "<p>Hi</p>"},
		{Content: "<p>orphan without id</p>"},
	}

	registry, directory, err := buildRegistry(&cfg, nullStore{}, nullTokens{})
	require.NoError(t, err)

	// Both controllers register; the misconfigured one is disabled, not dropped.
	assert.Equal(t, 2, registry.Len())
	assert.False(t, registry.Controllers()[0].Disabled())
	assert.True(t, registry.Controllers()[1].Disabled())

	actor := directory.Resolve("alice")
	assert.True(t, directory.Can(actor, "edit_theme_options"))
}

func TestBuildRegistry_AppliesDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Notices = []config.NoticeConfig{{ID: "welcome", Content: "<p>Hi</p>"}}

	registry, _, err := buildRegistry(&cfg, nullStore{}, nullTokens{})
	require.NoError(t, err)

	frozen := registry.Controllers()[0].Config()
	assert.Equal(t, notice.ScopeGlobal, frozen.Scope)
	assert.Equal(t, notice.StyleInfo, frozen.Style)
	assert.True(t, frozen.Dismissible)
	assert.Equal(t, "wptrt_notice_dismissed_welcome", frozen.StorageKey())
}
