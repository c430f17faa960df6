package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8612", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Empty(t, cfg.Notices)

	lifetime, err := cfg.TokenLifetime()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, lifetime)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8612", cfg.Server.Addr)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  token_lifetime: 1h
roles:
  admin: ["*"]
users:
  alice: [admin]
notices:
  - id: welcome
    content: "<p>Hi</p>"
    style: success
    scope: user
    screens: ["dashboard", "settings/*"]
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"admin"}, cfg.Users["alice"])
	require.Len(t, cfg.Notices, 1)
	assert.Equal(t, "welcome", cfg.Notices[0].ID)
	assert.True(t, cfg.Notices[0].IsDismissible())

	lifetime, err := cfg.TokenLifetime()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, lifetime)
}

func TestLoad_EmptyDataDir(t *testing.T) {
	_, err := Load("", "")
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "notices: [\n")
	_, err := Load(path, t.TempDir())
	require.Error(t, err)
}

func TestNoticeConfig_IsDismissible(t *testing.T) {
	f := false

	assert.True(t, NoticeConfig{}.IsDismissible())
	assert.False(t, NoticeConfig{Dismissible: &f}.IsDismissible())
}
