package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aleister1102/dealnotifier/internal/common"
	"github.com/magiconair/properties"
	"github.com/rs/zerolog"
)

// Properties is a typed, fail-soft view over a flat string-keyed property store.
// Blank values fall back to the caller's default; malformed values are logged and
// also fall back. The underlying store can be swapped at runtime with Replace.
type Properties struct {
	store  atomic.Pointer[properties.Properties]
	logger atomic.Pointer[zerolog.Logger]
}

// NewProperties wraps an already loaded store.
func NewProperties(store *properties.Properties, logger zerolog.Logger) *Properties {
	p := &Properties{}
	p.SetLogger(logger)
	if store == nil {
		store = properties.NewProperties()
	}
	p.store.Store(store)
	return p
}

// NewPropertiesFromMap builds Properties from plain key/value pairs.
func NewPropertiesFromMap(values map[string]string, logger zerolog.Logger) *Properties {
	return NewProperties(properties.LoadMap(values), logger)
}

// LoadProperties assembles the property store from, in increasing priority:
// the properties file, the inline properties map, <PREFIX>_* environment variables
// and the given overrides.
func LoadProperties(cfg PropertiesConfig, overrides map[string]string, logger zerolog.Logger) (*properties.Properties, error) {
	store := properties.NewProperties()

	if cfg.PropertiesFile != "" {
		if fileExists(cfg.PropertiesFile) {
			fromFile, err := properties.LoadFile(cfg.PropertiesFile, properties.UTF8)
			if err != nil {
				return nil, common.WrapErrorf(err, "failed to load properties file '%s'", cfg.PropertiesFile)
			}
			store.Merge(fromFile)
			logger.Debug().Str("path", cfg.PropertiesFile).Int("keys", fromFile.Len()).Msg("Properties file loaded")
		} else if cfg.PropertiesFile != DefaultPropertiesFile {
			return nil, common.NewValidationError("properties_file", cfg.PropertiesFile, "properties file does not exist")
		}
	}

	if err := setAll(store, cfg.Properties); err != nil {
		return nil, common.WrapError(err, "invalid inline property")
	}

	if err := setAll(store, environmentProperties(cfg.EnvPrefix, os.Environ())); err != nil {
		return nil, common.WrapError(err, "invalid environment property")
	}

	if err := setAll(store, overrides); err != nil {
		return nil, common.WrapError(err, "invalid property override")
	}

	return store, nil
}

func setAll(store *properties.Properties, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, _, err := store.Set(k, values[k]); err != nil {
			return common.WrapErrorf(err, "key '%s'", k)
		}
	}
	return nil
}

// environmentProperties maps PREFIX_GET_READ_TIMEOUT=5000 to get.read.timeout=5000.
func environmentProperties(prefix string, environ []string) map[string]string {
	values := make(map[string]string)
	if prefix == "" {
		return values
	}
	marker := strings.ToUpper(prefix) + "_"
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, marker) || name == ConfigPathEnv {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, marker), "_", "."))
		if key != "" {
			values[key] = value
		}
	}
	return values
}

// SetLogger redirects warnings about malformed values.
func (p *Properties) SetLogger(logger zerolog.Logger) {
	l := logger.With().Str("component", "Properties").Logger()
	p.logger.Store(&l)
}

// Replace swaps the underlying store.
func (p *Properties) Replace(store *properties.Properties) {
	if store == nil {
		return
	}
	p.store.Store(store)
}

// Keys returns all keys in load order.
func (p *Properties) Keys() []string {
	return p.store.Load().Keys()
}

func (p *Properties) lookup(key string) (string, bool) {
	value, ok := p.store.Load().Get(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// GetString returns the trimmed value for key or defaultValue when it is missing or blank.
func (p *Properties) GetString(key, defaultValue string) string {
	if value, ok := p.lookup(key); ok {
		return value
	}
	return defaultValue
}

// GetInt returns the value parsed as int.
func (p *Properties) GetInt(key string, defaultValue int) int {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		p.warnInvalid(key, value, defaultValue, err)
		return defaultValue
	}
	return parsed
}

// GetInt64 returns the value parsed as int64.
func (p *Properties) GetInt64(key string, defaultValue int64) int64 {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		p.warnInvalid(key, value, defaultValue, err)
		return defaultValue
	}
	return parsed
}

// GetBool returns the value parsed with strconv.ParseBool.
func (p *Properties) GetBool(key string, defaultValue bool) bool {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		p.warnInvalid(key, value, defaultValue, err)
		return defaultValue
	}
	return parsed
}

// GetMillis reads an integer number of milliseconds. Negative values are rejected.
func (p *Properties) GetMillis(key string, defaultValue time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err == nil && ms < 0 {
		err = strconv.ErrRange
	}
	if err != nil {
		p.warnInvalid(key, value, defaultValue, err)
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}

func (p *Properties) warnInvalid(key, value string, defaultValue interface{}, err error) {
	p.logger.Load().Warn().
		Err(err).
		Str("key", key).
		Str("value", value).
		Interface("default", defaultValue).
		Msg("Invalid property value, using default")
}
