// Package fdp crawls FAIR Data Points and assembles the RDF of individual
// records.
package fdp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/c360studio/fdpharvest/rdfgraph"
)

// Client defaults.
const (
	DefaultTimeout        = 100 * time.Second
	DefaultUserAgent      = "fdpharvest/1.0"
	DefaultMaxContentSize = 50 * 1024 * 1024
)

// FetchResult contains the body of a successful fetch.
type FetchResult struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client fetches remote RDF. GetGraph is best effort: remote endpoints are
// outside the harvester's control, so failures are logged and yield an empty
// graph.
type Client struct {
	client         *http.Client
	accept         string
	userAgent      string
	maxContentSize int64
	logger         *slog.Logger
	contexts       *rdfgraph.ContextLoader
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAccept overrides the Accept header sent by GetGraph.
func WithAccept(accept string) ClientOption {
	return func(c *Client) { c.accept = accept }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxContentSize bounds response bodies.
func WithMaxContentSize(n int64) ClientOption {
	return func(c *Client) { c.maxContentSize = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a client whose requests time out after timeout. A
// non-positive timeout selects DefaultTimeout.
func NewClient(timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	c := &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects (max 10)")
				}
				return nil
			},
		},
		accept:         rdfgraph.AcceptTurtle,
		userAgent:      DefaultUserAgent,
		maxContentSize: DefaultMaxContentSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	contextClient := *c.client
	contextClient.Transport = &userAgentTransport{base: c.client.Transport, userAgent: c.userAgent}
	c.contexts = rdfgraph.NewContextLoader(&contextClient)
	return c
}

// userAgentTransport sets the User-Agent on requests it did not build,
// such as JSON-LD context fetches.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return base.RoundTrip(req)
}

// ContextLoader returns the loader used for remote JSON-LD contexts. It
// shares the client's HTTP timeouts.
func (c *Client) ContextLoader() *rdfgraph.ContextLoader {
	return c.contexts
}

// Fetch retrieves url with the given Accept header and extra headers.
func (c *Client) Fetch(ctx context.Context, url, accept string, header http.Header) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	// Read body with size limit
	limitReader := io.LimitReader(resp.Body, c.maxContentSize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxContentSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", c.maxContentSize)
	}

	// Bodies are always decoded as UTF-8, whatever the server claims.
	return &FetchResult{
		Body:        bytes.ToValidUTF8(body, []byte("\uFFFD")),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// GetGraph fetches and parses url. It never returns nil: transport and
// parse failures are logged and produce an empty graph.
func (c *Client) GetGraph(ctx context.Context, url string) *rdfgraph.Graph {
	res, err := c.Fetch(ctx, url, c.accept, nil)
	if err != nil {
		c.logger.Error("FDP query was not successful", "url", url, "error", err)
		return rdfgraph.New()
	}
	if len(bytes.TrimSpace(res.Body)) == 0 {
		c.logger.Warn("No data received from FDP", "url", url)
		return rdfgraph.New()
	}

	g, err := rdfgraph.ParseAuto(res.Body, res.ContentType, url, rdfgraph.WithDocumentLoader(c.contexts))
	if err != nil {
		c.logger.Error("Record could not be parsed", "url", url, "error", err)
		return rdfgraph.New()
	}
	return g
}

// GetJSON fetches url and decodes its JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	res, err := c.Fetch(ctx, url, "application/json", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
