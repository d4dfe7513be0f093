// Package apiclient talks to a running nginx-manager server. Every request
// path is resolved against the server's deployment base path, so the same
// client works for subdomain and subfolder deployments.
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vm75/nginx-manager/internal/basepath"
)

// Config configures a Client.
type Config struct {
	// ServerURL is the scheme and host of the server, e.g. http://localhost:8080.
	ServerURL string
	// BasePath is the prefix the server is deployed under ("" or e.g. "/app").
	BasePath string
	Timeout  time.Duration
}

// Options is forwarded verbatim to the HTTP request issued by Fetch.
// The zero value is a plain GET.
type Options struct {
	Method   string
	Header   http.Header
	Query    url.Values
	Body     any
	Username string
	Password string
	Cookies  []*http.Cookie
}

// Client issues requests to the nginx-manager API.
type Client struct {
	http     *resty.Client
	resolver *basepath.Resolver
}

// New returns a Client for cfg. An empty ServerURL defaults to
// http://localhost:8080 and a non-positive Timeout to 15s.
func New(cfg Config) *Client {
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ServerURL, "/")).
		SetTimeout(cfg.Timeout)

	return NewWithResty(cli, basepath.New(cfg.BasePath))
}

// NewWithResty wraps an already configured resty client.
func NewWithResty(cli *resty.Client, resolver *basepath.Resolver) *Client {
	return &Client{http: cli, resolver: resolver}
}

// BasePath returns the deployment prefix requests are resolved against.
func (c *Client) BasePath() string {
	return c.resolver.BasePath()
}

// URL returns the server-relative URL for path.
func (c *Client) URL(path string) string {
	return c.resolver.URL(path)
}

// Fetch sends one request for path with opts and returns whatever the
// transport returned. Non-2xx responses are not errors here and transport
// errors are passed through as is.
func (c *Client) Fetch(ctx context.Context, path string, opts Options) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)

	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if len(opts.Query) > 0 {
		req.SetQueryParamsFromValues(opts.Query)
	}
	if opts.Body != nil {
		req.SetBody(opts.Body)
	}
	if opts.Username != "" || opts.Password != "" {
		req.SetBasicAuth(opts.Username, opts.Password)
	}
	if len(opts.Cookies) > 0 {
		req.SetCookies(opts.Cookies)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	return req.Execute(method, c.URL(path))
}
