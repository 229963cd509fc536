package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigManager(t *testing.T) {
	dir := t.TempDir()
	propsFile := writeFile(t, dir, "job.properties", "get.interval=42\n")
	cfgFile := writeFile(t, dir, "config.yaml", "mode: automated\nproperties_config:\n  properties_file: "+propsFile+"\n")

	opts := DefaultConfigManagerOptions()
	opts.PropertyOverrides = map[string]string{KeyProductsFilename: "override.txt"}
	cm, err := NewConfigManager(cfgFile, opts)
	require.NoError(t, err)
	defer func() { _ = cm.Close() }()

	assert.Equal(t, cfgFile, cm.GetConfigPath())
	assert.Equal(t, ModeAutomated, cm.GetConfig().Mode)
	assert.Equal(t, 42*time.Millisecond, cm.Properties().GetMillis(KeyGetInterval, 0))
	assert.Equal(t, "override.txt", cm.Properties().GetString(KeyProductsFilename, ""))
}

func TestNewConfigManager_ModeOverride(t *testing.T) {
	cfgFile := writeFile(t, t.TempDir(), "config.yaml", "mode: automated\n")

	opts := DefaultConfigManagerOptions()
	opts.Mode = ModeOnetime
	cm, err := NewConfigManager(cfgFile, opts)
	require.NoError(t, err)

	assert.Equal(t, ModeOnetime, cm.GetConfig().Mode)
}

func TestConfigManager_SetLoggerRedirectsPropertyWarnings(t *testing.T) {
	dir := t.TempDir()
	propsFile := writeFile(t, dir, "job.properties", "get.interval=soon\n")
	cfgFile := writeFile(t, dir, "config.yaml", "properties_config:\n  properties_file: "+propsFile+"\n")

	var boot, app bytes.Buffer
	opts := DefaultConfigManagerOptions()
	opts.Logger = zerolog.New(&boot)
	cm, err := NewConfigManager(cfgFile, opts)
	require.NoError(t, err)
	defer func() { _ = cm.Close() }()

	cm.SetLogger(zerolog.New(&app))
	boot.Reset()

	assert.Equal(t, 7*time.Millisecond, cm.Properties().GetMillis(KeyGetInterval, 7*time.Millisecond))
	assert.Empty(t, boot.String())
	assert.Contains(t, app.String(), "Invalid property value, using default")
	assert.Contains(t, app.String(), `"key":"get.interval"`)
}

func TestNewConfigManager_Errors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := NewConfigManager("/nonexistent/config.yaml", DefaultConfigManagerOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		cfgFile := writeFile(t, t.TempDir(), "config.yaml", "mode: sometimes\n")
		_, err := NewConfigManager(cfgFile, DefaultConfigManagerOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})
}

func TestConfigManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	propsFile := writeFile(t, dir, "job.properties", "get.interval=1\n")
	cfgFile := writeFile(t, dir, "config.yaml", "mode: automated\nproperties_config:\n  properties_file: "+propsFile+"\n")

	cm, err := NewConfigManager(cfgFile, DefaultConfigManagerOptions())
	require.NoError(t, err)
	props := cm.Properties()

	var reloaded *GlobalConfig
	cm.OnReload(func(cfg *GlobalConfig) { reloaded = cfg })

	writeFile(t, dir, "job.properties", "get.interval=2\n")
	require.NoError(t, cm.ReloadConfig())

	assert.Equal(t, 2*time.Millisecond, props.GetMillis(KeyGetInterval, 0))
	require.NotNil(t, reloaded)
	assert.Equal(t, ModeAutomated, reloaded.Mode)
}

func TestConfigManager_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml", "mode: onetime\nlog_config:\n  log_level: info\n")

	cm, err := NewConfigManager(cfgFile, DefaultConfigManagerOptions())
	require.NoError(t, err)

	writeFile(t, dir, "config.yaml", "mode: onetime\nlog_config:\n  log_level: loud\n")
	require.Error(t, cm.ReloadConfig())
	assert.Equal(t, "info", cm.GetConfig().LogConfig.LogLevel)
}

func TestConfigManager_StartHotReloadDisabled(t *testing.T) {
	cfgFile := writeFile(t, t.TempDir(), "config.yaml", "mode: onetime\n")
	cm, err := NewConfigManager(cfgFile, DefaultConfigManagerOptions())
	require.NoError(t, err)

	assert.NoError(t, cm.StartHotReload(t.Context()))
	assert.NoError(t, cm.Close())
	assert.NoError(t, cm.Close())
}
