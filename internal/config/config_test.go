// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:8000", cfg.Server.URL)
	assert.Equal(t, 120, cfg.Server.TimeoutSecs)
	assert.Equal(t, 120*time.Second, cfg.Timeout())
	assert.Equal(t, "auto", cfg.UI.Theme)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.URL, cfg.Server.URL)
}

func TestLoadFromPathReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
url = "https://buddy.example.com"
timeout_secs = 30

[ui]
theme = "dark"
code_style = "dracula"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://buddy.example.com", cfg.Server.URL)
	assert.Equal(t, 30, cfg.Server.TimeoutSecs)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "dracula", cfg.UI.CodeStyle)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BUDDY_SERVER_URL", "http://10.0.0.5:9000")
	t.Setenv("BUDDY_TIMEOUT_SECS", "15")
	t.Setenv("BUDDY_THEME", "light")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.Server.URL)
	assert.Equal(t, 15, cfg.Server.TimeoutSecs)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestEnvOverrideIgnoresBadTimeout(t *testing.T) {
	t.Setenv("BUDDY_TIMEOUT_SECS", "not-a-number")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Server.TimeoutSecs)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.URL = "ftp://example.com"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.TimeoutSecs = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.UI.Theme = "solarized"
	assert.Error(t, cfg.Validate())
}

func TestLoadFromPathRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nurl = "), 0o600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}
