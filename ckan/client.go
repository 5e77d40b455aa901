// Package ckan talks to the action API of a CKAN catalog. It provides the
// translation store and package sink the harvester writes into.
package ckan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single action call.
const DefaultTimeout = 30 * time.Second

// ErrNotFound is matched by action errors of type "Not Found Error".
var ErrNotFound = errors.New("not found")

// ActionError is an unsuccessful action response.
type ActionError struct {
	Action  string
	Status  int
	Type    string
	Message string
}

func (e *ActionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("action %s: HTTP %d: %s: %s", e.Action, e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("action %s: HTTP %d: %s", e.Action, e.Status, e.Type)
}

// Is makes errors.Is(err, ErrNotFound) work for missing objects.
func (e *ActionError) Is(target error) bool {
	return target == ErrNotFound && (e.Type == "Not Found Error" || e.Status == http.StatusNotFound)
}

// Client calls actions at <baseURL>/api/3/action/<name>.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key in the Authorization header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the catalog at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

type actionResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Type    string `json:"__type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Action posts params as JSON and decodes the result into result, which may
// be nil.
func (c *Client) Action(ctx context.Context, name string, params, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal %s params: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/3/action/"+name, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("action %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", name, err)
	}

	var ar actionResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		if resp.StatusCode >= 300 {
			return &ActionError{Action: name, Status: resp.StatusCode, Type: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	if !ar.Success || resp.StatusCode >= 300 {
		aerr := &ActionError{Action: name, Status: resp.StatusCode}
		if ar.Error != nil {
			aerr.Type, aerr.Message = ar.Error.Type, ar.Error.Message
		}
		return aerr
	}

	c.logger.Debug("CKAN action succeeded", "action", name)
	if result == nil || len(ar.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(ar.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", name, err)
	}
	return nil
}
