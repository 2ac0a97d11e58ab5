package valet

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=valet_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client dispatches GET requests against a Valet base URL.
type Client struct {
	// baseURL is the API root, e.g. https://www.bankofcanada.ca/valet.
	baseURL string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// Option is a configuration option for the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: baseURL, Err: errUnsupportedScheme}
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: NewHTTPClient(30 * time.Second),
		header:     http.Header{"User-Agent": []string{"valetcheck/1.0"}},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Observations performs GET {baseURL}/observations/{series}?{query}.
func (c *Client) Observations(ctx context.Context, q Query) (*Response, error) {
	return c.Get(ctx, q.Path(), q.Values())
}

// Get performs GET {baseURL}{path}?{query}. Non-2xx statuses are returned,
// not raised.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	u := c.baseURL + path
	if enc := query.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: u, Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Op: "read body", URL: u, Err: err}
	}
	slog.Debug("valet request", "url", u, "status", res.StatusCode, "elapsed", time.Since(started))

	r := &Response{Status: res.StatusCode, Header: res.Header, Raw: raw}
	decodeResponse(r)
	return r, nil
}

// NewHTTPClient returns an http.Client with an explicit transport and an
// overall request timeout; http.DefaultClient has none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
