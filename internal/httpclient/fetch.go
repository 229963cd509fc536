package httpclient

import (
	"context"
	"net/http"

	"golang.org/x/text/encoding/unicode"
)

// PageResult is a fetched page decoded to text. It is not retained across entries.
type PageResult struct {
	URL             string
	FinalURL        string
	StatusCode      int
	ContentType     string
	ContentEncoding string
	// Size is the decompressed body size in bytes.
	Size      int
	Body      string
	Truncated bool
}

// FetchPage GETs targetURL with the browser-like headers product pages expect,
// gunzips when asked to, and decodes the body as UTF-8, replacing invalid
// sequences with U+FFFD. A status >= 400 is returned as *HTTPError.
func (c *HTTPClient) FetchPage(ctx context.Context, targetURL string) (*PageResult, error) {
	resp, err := c.Do(&HTTPRequest{
		URL:    targetURL,
		Method: http.MethodGet,
		Headers: map[string]string{
			"Accept":          "*/*",
			"Accept-Encoding": "gzip",
		},
		Context: ctx,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		snippet := resp.Body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, NewHTTPErrorWithURL(resp.StatusCode, string(snippet), targetURL)
	}

	text, err := unicode.UTF8BOM.NewDecoder().Bytes(resp.Body)
	if err != nil {
		return nil, &DecodeError{URL: targetURL, Encoding: "utf-8", Err: err}
	}

	c.logger.Debug().
		Str("url", targetURL).
		Int("status_code", resp.StatusCode).
		Int("bytes", len(resp.Body)).
		Msg("Page fetched")

	return &PageResult{
		URL:             targetURL,
		FinalURL:        resp.FinalURL,
		StatusCode:      resp.StatusCode,
		ContentType:     resp.Headers["Content-Type"],
		ContentEncoding: resp.ContentEncoding,
		Size:            len(resp.Body),
		Body:            string(text),
		Truncated:       resp.Truncated,
	}, nil
}
