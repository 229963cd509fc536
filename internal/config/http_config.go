package config

// HTTPConfig holds transport settings for product page fetches.
// Timeouts are not here: they come from the get.* properties on every run.
type HTTPConfig struct {
	CustomHeaders      map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	EnableHTTP2        bool              `json:"enable_http2" yaml:"enable_http2"`
	FollowRedirects    bool              `json:"follow_redirects" yaml:"follow_redirects"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	MaxContentSize     int               `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=0"` // bytes, 0 = unlimited
	MaxRedirects       int               `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0"`
	Proxy              string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	UserAgent          string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// NewDefaultHTTPConfig creates default HTTP configuration
func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		CustomHeaders:   make(map[string]string),
		EnableHTTP2:     DefaultHTTPEnableHTTP2,
		FollowRedirects: DefaultHTTPFollowRedirects,
		MaxRedirects:    DefaultHTTPMaxRedirects,
		UserAgent:       DefaultHTTPUserAgent,
	}
}
