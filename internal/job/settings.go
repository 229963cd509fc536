package job

import (
	"time"

	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/rs/zerolog"
)

// Defaults applied when a property is missing, blank or malformed.
const (
	DefaultProductsFilename = "products.txt"
	DefaultConnectTimeout   = 30000 * time.Millisecond
	DefaultReadTimeout      = 30000 * time.Millisecond
	DefaultInterval         = 2500 * time.Millisecond
	DefaultDealMarker       = "priceblock_dealprice"
	DefaultConcurrency      = 1
)

// PropertyReader is the typed property lookup the job reads its settings from.
// *config.Properties satisfies it.
type PropertyReader interface {
	GetString(key, defaultValue string) string
	GetInt(key string, defaultValue int) int
	GetMillis(key string, defaultValue time.Duration) time.Duration
}

// Settings is the snapshot of properties used by one run.
type Settings struct {
	ProductsFile   string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Interval       time.Duration
	Marker         string
	Concurrency    int
}

// ReadSettings reads every job property, applying defaults.
func ReadSettings(props PropertyReader, logger zerolog.Logger) Settings {
	s := Settings{
		ProductsFile:   props.GetString(config.KeyProductsFilename, DefaultProductsFilename),
		ConnectTimeout: props.GetMillis(config.KeyGetConnectTimeout, DefaultConnectTimeout),
		ReadTimeout:    props.GetMillis(config.KeyGetReadTimeout, DefaultReadTimeout),
		Interval:       props.GetMillis(config.KeyGetInterval, DefaultInterval),
		Marker:         props.GetString(config.KeyDealMarker, DefaultDealMarker),
		Concurrency:    props.GetInt(config.KeyGetConcurrency, DefaultConcurrency),
	}
	if s.Concurrency < 1 {
		logger.Warn().
			Int("value", s.Concurrency).
			Str("key", config.KeyGetConcurrency).
			Msg("Concurrency must be at least 1, running sequentially")
		s.Concurrency = 1
	}
	return s
}
