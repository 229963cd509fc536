package config

const (
	// Mode values
	ModeOnetime   = "onetime"
	ModeAutomated = "automated"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// HTTP Defaults
	DefaultHTTPUserAgent       = "Mozilla/5.0 (Windows NT 6.1; Win64; x64; rv:50.0) Gecko/20100101 Firefox/50.0"
	DefaultHTTPFollowRedirects = true
	DefaultHTTPMaxRedirects    = 10
	DefaultHTTPEnableHTTP2     = true

	// Notification Defaults
	DefaultEmailPort           = 587
	DefaultEmailTLSPolicy      = "mandatory"
	DefaultEmailTimeoutSeconds = 15
	DefaultLanguage            = "en"

	// Scheduler Defaults
	DefaultSchedulerCronExpression = "0 */30 * * * *"
	DefaultSchedulerSQLiteDBPath   = "database/scheduler/run_history.db"

	// Properties Defaults
	DefaultPropertiesFile = "notifier.properties"
	DefaultEnvPrefix      = "DEALNOTIFIER"

	// ConfigPathEnv overrides the config file location.
	ConfigPathEnv = "DEALNOTIFIER_CONFIG_PATH"
)

// Property keys read by the notify job.
const (
	KeyProductsFilename  = "products.filename"
	KeyGetConnectTimeout = "get.connect.timeout"
	KeyGetReadTimeout    = "get.read.timeout"
	KeyGetInterval       = "get.interval"
	KeyGetConcurrency    = "get.concurrency"
	KeyDealMarker        = "deal.marker"
)
