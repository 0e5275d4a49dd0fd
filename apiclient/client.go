// Package apiclient is the HTTP client for the document-extraction platform
// API: config file storage, NDJSON build/validation/run streams, document
// listings and tenant administration.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. https://ade.example.com.
	BaseURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Timeout bounds non-streaming requests. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Streaming requests always use it
	// without the Timeout applied.
	HTTPClient *http.Client
	Logger     pslog.Logger
}

// Client talks to the extraction platform API. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	apiKey    string
	client    *http.Client
	streaming *http.Client
	log       pslog.Logger
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("api base url must include scheme and host")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timed := *httpClient
	timed.Timeout = opts.Timeout
	streaming := *httpClient
	streaming.Timeout = 0
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Client{
		base:      base,
		apiKey:    opts.APIKey,
		client:    &timed,
		streaming: &streaming,
		log:       logger,
	}, nil
}

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// Unwrap maps well-known statuses onto schema sentinel errors so callers can
// use errors.Is without knowing HTTP.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return schema.ErrUnauthorized
	case http.StatusForbidden:
		if e.Code == "safe_mode_enabled" {
			return schema.ErrSafeMode
		}
		return schema.ErrForbidden
	case http.StatusNotFound:
		return schema.ErrFileNotFound
	case http.StatusPreconditionFailed, http.StatusConflict:
		return schema.ErrVersionConflict
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) url(parts ...string) string {
	u := *c.base
	segments := []string{strings.TrimRight(u.Path, "/")}
	for _, part := range parts {
		segments = append(segments, url.PathEscape(part))
	}
	u.Path = strings.Join(segments, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// doJSON performs a request with optional JSON body and decodes a JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeJSONBody(resp *http.Response, out any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<24))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(data, out)
}

// checkStatus converts a non-2xx response into an APIError, consuming the
// body.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var envelope errorEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if len(apiErr.Message) > 200 {
			apiErr.Message = apiErr.Message[:200]
		}
	}
	c.log.Debug("api error", "method", resp.Request.Method, "url", resp.Request.URL.Path, "status", resp.StatusCode, "code", apiErr.Code)
	return apiErr
}
