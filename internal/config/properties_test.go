package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_Getters(t *testing.T) {
	props := NewPropertiesFromMap(map[string]string{
		KeyProductsFilename:  "  deals.txt  ",
		KeyGetConnectTimeout: "1500",
		KeyGetReadTimeout:    "   ",
		KeyGetInterval:       "abc",
		KeyGetConcurrency:    "4",
		"flag":               "true",
		"negative":           "-10",
	}, zerolog.Nop())

	assert.Equal(t, "deals.txt", props.GetString(KeyProductsFilename, "products.txt"))
	assert.Equal(t, "fallback", props.GetString("missing", "fallback"))
	assert.Equal(t, 1500*time.Millisecond, props.GetMillis(KeyGetConnectTimeout, time.Second))
	assert.Equal(t, 4, props.GetInt(KeyGetConcurrency, 1))
	assert.Equal(t, int64(1500), props.GetInt64(KeyGetConnectTimeout, 0))
	assert.True(t, props.GetBool("flag", false))

	t.Run("blank value falls back", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, props.GetMillis(KeyGetReadTimeout, 30*time.Second))
	})
	t.Run("malformed value falls back", func(t *testing.T) {
		assert.Equal(t, 2500*time.Millisecond, props.GetMillis(KeyGetInterval, 2500*time.Millisecond))
		assert.Equal(t, 7, props.GetInt(KeyGetInterval, 7))
		assert.False(t, props.GetBool(KeyGetInterval, false))
	})
	t.Run("negative millis fall back", func(t *testing.T) {
		assert.Equal(t, time.Second, props.GetMillis("negative", time.Second))
		assert.Equal(t, -10, props.GetInt("negative", 0))
	})
	t.Run("zero millis is allowed", func(t *testing.T) {
		zero := NewPropertiesFromMap(map[string]string{KeyGetInterval: "0"}, zerolog.Nop())
		assert.Equal(t, time.Duration(0), zero.GetMillis(KeyGetInterval, 2500*time.Millisecond))
	})
}

func TestProperties_Replace(t *testing.T) {
	props := NewPropertiesFromMap(map[string]string{KeyGetInterval: "10"}, zerolog.Nop())
	store, err := LoadProperties(PropertiesConfig{Properties: map[string]string{KeyGetInterval: "20"}}, nil, zerolog.Nop())
	require.NoError(t, err)

	props.Replace(store)
	props.Replace(nil)

	assert.Equal(t, 20*time.Millisecond, props.GetMillis(KeyGetInterval, 0))
	assert.Equal(t, []string{KeyGetInterval}, props.Keys())
}

func TestEnvironmentProperties(t *testing.T) {
	environ := []string{
		"DEALNOTIFIER_GET_READ_TIMEOUT=5000",
		"DEALNOTIFIER_PRODUCTS_FILENAME=list.txt",
		"DEALNOTIFIER_CONFIG_PATH=/etc/dealnotifier.yaml",
		"DEALNOTIFIER_=ignored",
		"OTHER_GET_INTERVAL=1",
		"PATH=/usr/bin",
	}

	values := environmentProperties("dealnotifier", environ)

	assert.Equal(t, map[string]string{
		KeyGetReadTimeout:    "5000",
		KeyProductsFilename: "list.txt",
	}, values)
	assert.Empty(t, environmentProperties("", environ))
}

func TestLoadProperties_Layering(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "notifier.properties", `# job settings
products.filename = from-file.txt
get.interval = 100
get.read.timeout = 200
get.connect.timeout = 300
`)
	t.Setenv("LAYERTEST_GET_READ_TIMEOUT", "400")
	t.Setenv("LAYERTEST_GET_CONNECT_TIMEOUT", "500")

	store, err := LoadProperties(PropertiesConfig{
		EnvPrefix:      "LAYERTEST",
		PropertiesFile: file,
		Properties: map[string]string{
			KeyGetInterval:    "150",
			KeyGetReadTimeout: "250",
		},
	}, map[string]string{KeyGetConnectTimeout: "600"}, zerolog.Nop())
	require.NoError(t, err)

	props := NewProperties(store, zerolog.Nop())
	assert.Equal(t, "from-file.txt", props.GetString(KeyProductsFilename, ""))
	assert.Equal(t, int64(150), props.GetInt64(KeyGetInterval, 0))
	assert.Equal(t, int64(400), props.GetInt64(KeyGetReadTimeout, 0))
	assert.Equal(t, int64(600), props.GetInt64(KeyGetConnectTimeout, 0))
}

func TestLoadProperties_MissingFile(t *testing.T) {
	t.Run("missing default file is fine", func(t *testing.T) {
		t.Chdir(t.TempDir())
		store, err := LoadProperties(NewDefaultPropertiesConfig(), nil, zerolog.Nop())
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		cfg := PropertiesConfig{PropertiesFile: filepath.Join(t.TempDir(), "nope.properties")}
		_, err := LoadProperties(cfg, nil, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "properties file does not exist")
	})
}
