package httpclient

import (
	"time"

	"github.com/aleister1102/dealnotifier/internal/config"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	ConnectTimeout      time.Duration     // Dial and TLS handshake timeout, 0 = none
	ReadTimeout         time.Duration     // Wait for response headers and between body reads, 0 = none
	Timeout             time.Duration     // Whole request timeout, 0 = none
	InsecureSkipVerify  bool              // Skip TLS verification
	FollowRedirects     bool              // Whether to follow redirects
	MaxRedirects        int               // Maximum number of redirects to follow
	Proxy               string            // Proxy URL (HTTP/SOCKS)
	CustomHeaders       map[string]string // Custom headers to add to all requests
	UserAgent           string            // User-Agent header
	MaxContentSize      int64             // Body bytes kept, 0 = unlimited
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	KeepAlive           time.Duration
	EnableHTTP2         bool
}

// DefaultHTTPClientConfig returns the default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		ConnectTimeout:      30 * time.Second,
		ReadTimeout:         30 * time.Second,
		FollowRedirects:     config.DefaultHTTPFollowRedirects,
		MaxRedirects:        config.DefaultHTTPMaxRedirects,
		UserAgent:           config.DefaultHTTPUserAgent,
		CustomHeaders:       make(map[string]string),
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		KeepAlive:           30 * time.Second,
		EnableHTTP2:         config.DefaultHTTPEnableHTTP2,
	}
}

// NewHTTPClientConfig applies the http_config section over the defaults.
// Timeouts are left at their defaults; callers set them from properties.
func NewHTTPClientConfig(cfg config.HTTPConfig) HTTPClientConfig {
	out := DefaultHTTPClientConfig()
	out.InsecureSkipVerify = cfg.InsecureSkipVerify
	out.FollowRedirects = cfg.FollowRedirects
	out.MaxRedirects = cfg.MaxRedirects
	out.Proxy = cfg.Proxy
	out.EnableHTTP2 = cfg.EnableHTTP2
	out.MaxContentSize = int64(cfg.MaxContentSize)
	if cfg.UserAgent != "" {
		out.UserAgent = cfg.UserAgent
	}
	for k, v := range cfg.CustomHeaders {
		out.CustomHeaders[k] = v
	}
	return out
}
