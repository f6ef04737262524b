package config

import (
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Success_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, 8080, cfg.WebServerPort) // default
	require.Equal(t, "site.yaml", cfg.SiteManifest)
	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, "./media", cfg.MediaDir)
	require.Equal(t, "/media", cfg.MediaBaseURL)
	require.True(t, cfg.WatchDatasets)
	require.Empty(t, cfg.PreviewPasswordHash)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("WEBSERVER_PORT", "9000")
	t.Setenv("SITE_MANIFEST", "/etc/foleydeck/site.yaml")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example.com/foley")
	t.Setenv("WATCH_DATASETS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.WebServerPort)
	require.Equal(t, "/etc/foleydeck/site.yaml", cfg.SiteManifest)
	require.Equal(t, "https://cdn.example.com/foley", cfg.MediaBaseURL)
	require.False(t, cfg.WatchDatasets)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_RejectsBadPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("WEBSERVER_PORT", "70000")

	cfg, err := LoadConfig(context.Background())
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadConfig_RejectsMalformedPreviewHash(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PREVIEW_PASSWORD_HASH", "hunter2")

	cfg, err := LoadConfig(context.Background())
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadConfig_AcceptsArgonPreviewHash(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PREVIEW_PASSWORD_HASH", "$argon2id$v=19$m=131072,t=4,p=4$c29tZXNhbHQ$c29tZWhhc2g")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cfg.PreviewPasswordHash)
}

func TestLoadConfig_RejectsBadLogLevel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := LoadConfig(context.Background())
	require.Error(t, err)
	require.Nil(t, cfg)
}
