package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "-1001234567890")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://t.me/your_channel", cfg.ChannelLink)
	require.Equal(t, ModePolling, cfg.Mode)
	require.Equal(t, BackendMemory, cfg.SessionBackend)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, map[string]string{"n8n": "https://n8n.io/"}, cfg.Magnets)
	require.Equal(t, 2, cfg.MembershipRetries)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "")
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("CHANNEL_ID")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMagnetSources(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "magnets.yaml")
	require.NoError(t, os.WriteFile(file, []byte("Make: https://file.example/make\nzapier: https://file.example/zapier\n"), 0o600))

	t.Setenv("LEADMAGNET_N8N", "https://n8n.example/")
	t.Setenv("LEAD_MAGNETS", "N8N=https://env.example/n8n?a=b, make=https://env.example/make")
	t.Setenv("LEAD_MAGNETS_FILE", file)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"n8n":    "https://env.example/n8n?a=b",
		"make":   "https://file.example/make",
		"zapier": "https://file.example/zapier",
	}, cfg.Magnets)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad magnet pair", env: map[string]string{"LEAD_MAGNETS": "n8n"}},
		{name: "empty url", env: map[string]string{"LEAD_MAGNETS": "n8n="}},
		{name: "bad mode", env: map[string]string{"MODE": "carrier-pigeon"}},
		{name: "webhook without url", env: map[string]string{"MODE": "webhook"}},
		{name: "bad backend", env: map[string]string{"SESSION_BACKEND": "etcd"}},
		{name: "missing file", env: map[string]string{"LEAD_MAGNETS_FILE": "/nonexistent/magnets.yaml"}},
		{name: "negative retries", env: map[string]string{"MEMBERSHIP_RETRIES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	setRequired(t)
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("CHANNEL_LINK=https://t.me/dotenv_channel\nADMIN_IDS=1,2\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CHANNEL_LINK")
		os.Unsetenv("ADMIN_IDS")
	})

	cfg, err := Load(file, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "https://t.me/dotenv_channel", cfg.ChannelLink)
	require.True(t, cfg.IsAdmin(2))
	require.False(t, cfg.IsAdmin(3))
}

func TestWebhookPath(t *testing.T) {
	cfg := Config{WebhookURL: "https://bot.example.com/api/telegram"}
	require.Equal(t, "/api/telegram", cfg.WebhookPath())

	cfg.WebhookURL = "https://bot.example.com"
	require.Equal(t, "/", cfg.WebhookPath())
}
