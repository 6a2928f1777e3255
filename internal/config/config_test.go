package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "GOOGLE_DRIVE_FOLDER_ID", "GOOGLE_CREDENTIALS_PATH", "PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err, "a missing config file falls back to defaults")

	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultDownloadDir, cfg.Download.Dir)
	assert.Equal(t, DefaultCredentialsPath, cfg.Drive.CredentialsPath)
	assert.Equal(t, DefaultTokenCachePath, cfg.Drive.TokenCachePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Drive.Configured())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[telegram]
bot_token = "token-from-file"

[drive]
folder_id = "folder-1"

[server]
addr = ":9000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "token-from-file", cfg.Telegram.BotToken)
	assert.Equal(t, "folder-1", cfg.Drive.FolderID)
	assert.True(t, cfg.Drive.Configured())
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "env-folder")
	t.Setenv("PORT", "9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "env-folder", cfg.Drive.FolderID)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestValidateRequiresBotToken(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())

	cfg.Telegram.BotToken = "t"
	assert.NoError(t, cfg.Validate())
}
