package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPRequest represents an HTTP request
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	// Body is replayed on every attempt.
	Body    []byte
	Context context.Context
}

// HTTPResponse represents an HTTP response with its body fully read and decompressed.
type HTTPResponse struct {
	StatusCode      int
	Headers         map[string]string
	Body            []byte
	ContentEncoding string
	FinalURL        string
	Truncated       bool
}

// HTTPClient wraps net/http.Client with pooled body buffers, transparent gzip and idle read timeouts.
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	logger       zerolog.Logger
	retryHandler *RetryHandler
	bufferPool   sync.Pool
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	logger = logger.With().Str("component", "HTTPClient").Logger()

	transport := &http.Transport{
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ReadTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.ConnectTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", config.Proxy).Msg("HTTP client configured with proxy")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("connect_timeout", config.ConnectTimeout).
		Dur("read_timeout", config.ReadTimeout).
		Bool("follow_redirects", config.FollowRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 32*1024))
			},
		},
	}, nil
}

// Config returns the configuration the client was built with.
func (c *HTTPClient) Config() HTTPClientConfig {
	return c.config
}

// CloseIdleConnections releases pooled keep-alive connections.
func (c *HTTPClient) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

// Do performs an HTTP request, with retries if a retry handler is configured.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	if c.retryHandler != nil {
		ctx := req.Context
		if ctx == nil {
			ctx = context.Background()
		}
		return c.retryHandler.DoWithRetry(ctx, c.do, req)
	}
	return c.do(req)
}

func (c *HTTPClient) do(req *HTTPRequest) (*HTTPResponse, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	// Cancelled by the idle reader when the body stalls.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var reqBody io.Reader
	if req.Body != nil {
		reqBody = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, reqBody)
	if err != nil {
		return nil, WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if c.config.UserAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, truncated, err := c.readBody(req.URL, resp, cancel)
	if err != nil {
		return nil, err
	}

	httpResp := &HTTPResponse{
		StatusCode:      resp.StatusCode,
		Headers:         make(map[string]string, len(resp.Header)),
		Body:            body,
		ContentEncoding: resp.Header.Get("Content-Encoding"),
		FinalURL:        resp.Request.URL.String(),
		Truncated:       truncated,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			httpResp.Headers[key] = values[0]
		}
	}
	return httpResp, nil
}

// readBody reads the whole body through the idle timeout, gunzipping when the
// server says so, and bounded by MaxContentSize.
func (c *HTTPClient) readBody(rawURL string, resp *http.Response, cancel context.CancelFunc) ([]byte, bool, error) {
	idle := newIdleTimeoutReader(resp.Body, c.config.ReadTimeout, cancel)
	defer idle.stop()

	var src io.Reader = idle
	encoding := resp.Header.Get("Content-Encoding")
	gzipped := IsGzipEncoded(encoding)
	if gzipped {
		gz, err := gzip.NewReader(idle)
		if err != nil {
			return nil, false, c.classifyReadError(rawURL, idle, true, err)
		}
		defer func() { _ = gz.Close() }()
		src = gz
	}

	if c.config.MaxContentSize > 0 {
		src = io.LimitReader(src, c.config.MaxContentSize+1)
	}

	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.bufferPool.Put(buf)

	if _, err := io.Copy(buf, src); err != nil {
		return nil, false, c.classifyReadError(rawURL, idle, gzipped, err)
	}

	truncated := false
	if c.config.MaxContentSize > 0 && int64(buf.Len()) > c.config.MaxContentSize {
		c.logger.Warn().
			Str("url", rawURL).
			Int64("max_content_size", c.config.MaxContentSize).
			Msg("Content size exceeds limit, truncating")
		buf.Truncate(int(c.config.MaxContentSize))
		truncated = true
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, truncated, nil
}

func (c *HTTPClient) classifyReadError(rawURL string, idle *idleTimeoutReader, gzipped bool, err error) error {
	switch {
	case errors.Is(err, ErrReadTimeout) || idle.fired.Load():
		return NewNetworkError(rawURL, "response body stalled", ErrReadTimeout)
	case idle.srcErr != nil:
		return NewNetworkError(rawURL, "failed to read response body", err)
	case gzipped:
		return &DecodeError{URL: rawURL, Encoding: "gzip", Err: err}
	default:
		return NewNetworkError(rawURL, "failed to read response body", err)
	}
}

// IsGzipEncoded reports whether a Content-Encoding value mentions gzip, ignoring case.
func IsGzipEncoded(contentEncoding string) bool {
	return strings.Contains(strings.ToLower(contentEncoding), "gzip")
}
