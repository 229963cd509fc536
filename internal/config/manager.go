package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/magiconair/properties"
	"github.com/rs/zerolog"
)

// ConfigManager owns the global configuration and the job properties, optionally
// reloading both when their files change on disk.
type ConfigManager struct {
	mu            sync.RWMutex
	config        *GlobalConfig
	properties    *Properties
	configPath    string
	overrides     map[string]string
	logger        zerolog.Logger
	watcher       *fsnotify.Watcher
	stopChan      chan struct{}
	stopOnce      sync.Once
	lastModified  map[string]time.Time
	reloadDelay   time.Duration
	onReload      []func(*GlobalConfig)
	hotReloadOnce sync.Once
}

// ConfigManagerOptions holds options for creating a ConfigManager
type ConfigManagerOptions struct {
	Logger zerolog.Logger
	// Mode overrides the mode from the config file when not empty.
	Mode string
	// PropertyOverrides win over every other property source.
	PropertyOverrides map[string]string
	ReloadDelay       time.Duration
}

// DefaultConfigManagerOptions returns default options for ConfigManager
func DefaultConfigManagerOptions() ConfigManagerOptions {
	return ConfigManagerOptions{
		Logger:      zerolog.Nop(),
		ReloadDelay: 2 * time.Second,
	}
}

// NewConfigManager loads, validates and caches the configuration found at configPath.
func NewConfigManager(configPath string, opts ConfigManagerOptions) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath:   GetConfigPath(configPath),
		overrides:    opts.PropertyOverrides,
		logger:       opts.Logger.With().Str("component", "ConfigManager").Logger(),
		stopChan:     make(chan struct{}),
		lastModified: make(map[string]time.Time),
		reloadDelay:  opts.ReloadDelay,
	}
	if configPath != "" && cm.configPath == "" {
		return nil, fmt.Errorf("config file '%s' does not exist", configPath)
	}

	cfg, store, err := cm.load(opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial configuration: %w", err)
	}
	cm.config = cfg
	cm.properties = NewProperties(store, opts.Logger)
	cm.recordModTimes(cfg)
	cm.logger.Info().Str("path", cm.configPath).Msg("Configuration loaded successfully")
	return cm, nil
}

// GetConfig returns a copy of the current configuration (thread-safe)
func (cm *ConfigManager) GetConfig() *GlobalConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.Clone()
}

// Properties returns the live property accessor. Its contents follow reloads.
func (cm *ConfigManager) Properties() *Properties {
	return cm.properties
}

// SetLogger moves the manager and its properties onto logger, typically once the
// configured sinks exist. Call it before StartHotReload.
func (cm *ConfigManager) SetLogger(logger zerolog.Logger) {
	cm.logger = logger.With().Str("component", "ConfigManager").Logger()
	cm.properties.SetLogger(logger)
}

// GetConfigPath returns the resolved configuration file path, empty if defaults are in use.
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// OnReload registers a callback invoked with the new configuration after each successful reload.
func (cm *ConfigManager) OnReload(fn func(*GlobalConfig)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.onReload = append(cm.onReload, fn)
}

// ReloadConfig reloads configuration and properties from disk.
// The mode of the running process is kept.
func (cm *ConfigManager) ReloadConfig() error {
	cm.mu.RLock()
	mode := cm.config.Mode
	cm.mu.RUnlock()

	cfg, store, err := cm.load(mode)
	if err != nil {
		return err
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := append([]func(*GlobalConfig){}, cm.onReload...)
	cm.mu.Unlock()

	cm.properties.Replace(store)
	cm.recordModTimes(cfg)
	for _, fn := range callbacks {
		fn(cfg.Clone())
	}
	return nil
}

// load reads the config file and the properties it points to, then validates.
func (cm *ConfigManager) load(mode string) (*GlobalConfig, *properties.Properties, error) {
	cfg, err := LoadGlobalConfig(cm.configPath, cm.logger)
	if err != nil {
		return nil, nil, err
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}

	store, err := LoadProperties(cfg.PropertiesConfig, cm.overrides, cm.logger)
	if err != nil {
		return nil, nil, err
	}

	return cfg, store, nil
}

// recordModTimes remembers file modification times so spurious events do not trigger reloads.
func (cm *ConfigManager) recordModTimes(cfg *GlobalConfig) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for _, path := range cm.watchedFiles(cfg) {
		if stat, err := os.Stat(path); err == nil {
			cm.lastModified[path] = stat.ModTime()
		}
	}
}

func (cm *ConfigManager) watchedFiles(cfg *GlobalConfig) []string {
	var files []string
	if cm.configPath != "" {
		files = append(files, filepath.Clean(cm.configPath))
	}
	if cfg.PropertiesConfig.PropertiesFile != "" {
		files = append(files, filepath.Clean(cfg.PropertiesConfig.PropertiesFile))
	}
	return files
}

// StartHotReload watches the config and properties files until ctx is done or Close is called.
// It is a no-op unless properties_config.hot_reload is enabled.
func (cm *ConfigManager) StartHotReload(ctx context.Context) error {
	cfg := cm.GetConfig()
	if !cfg.PropertiesConfig.HotReload {
		return nil
	}

	var setupErr error
	cm.hotReloadOnce.Do(func() {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			setupErr = fmt.Errorf("failed to create file watcher: %w", err)
			return
		}

		// Watch directories so editors that replace files are still seen.
		dirs := make(map[string]struct{})
		for _, f := range cm.watchedFiles(cfg) {
			dirs[filepath.Dir(f)] = struct{}{}
		}
		for dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				_ = watcher.Close()
				setupErr = fmt.Errorf("failed to watch config directory '%s': %w", dir, err)
				return
			}
			cm.logger.Info().Str("directory", dir).Msg("File watcher setup for hot-reload")
		}

		cm.watcher = watcher
		go cm.hotReloadLoop(ctx, cm.watchedFiles(cfg))
	})
	return setupErr
}

func (cm *ConfigManager) hotReloadLoop(ctx context.Context, files []string) {
	watched := make(map[string]struct{}, len(files))
	for _, f := range files {
		watched[f] = struct{}{}
	}

	reloadTimer := time.NewTimer(0)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			cm.logger.Info().Msg("Hot-reload loop stopped due to context cancellation")
			return

		case <-cm.stopChan:
			cm.logger.Info().Msg("Hot-reload loop stopped")
			return

		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if _, ours := watched[filepath.Clean(event.Name)]; !ours {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				cm.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Config file change detected")
				reloadTimer.Reset(cm.reloadDelay)
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cm.logger.Error().Err(err).Msg("File watcher error")

		case <-reloadTimer.C:
			if !cm.changedOnDisk(files) {
				continue
			}
			cm.logger.Info().Msg("Reloading configuration due to file change")
			if err := cm.ReloadConfig(); err != nil {
				cm.logger.Error().Err(err).Msg("Failed to reload configuration, keeping previous values")
			} else {
				cm.logger.Info().Msg("Configuration reloaded successfully")
			}
		}
	}
}

func (cm *ConfigManager) changedOnDisk(files []string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	for _, f := range files {
		stat, err := os.Stat(f)
		if err != nil {
			continue
		}
		if stat.ModTime().After(cm.lastModified[f]) {
			return true
		}
	}
	return false
}

// Close stops the hot-reload loop and releases the watcher.
func (cm *ConfigManager) Close() error {
	var err error
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
		if cm.watcher != nil {
			err = cm.watcher.Close()
		}
	})
	return err
}
