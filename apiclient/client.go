// Package apiclient provides the generic JSON REST client shared by the
// console's service clients. It attaches the current session's bearer token
// to every request, tags requests with a correlation ID, and maps HTTP
// failures onto the SDK's typed error kinds.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/consoleops/go-admin-client/apierror"
	"github.com/consoleops/go-admin-client/session"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// SessionSource supplies the current session, or nil when unauthenticated.
// *session.Manager satisfies it.
type SessionSource interface {
	Current() *session.Session
}

// problemDetail is the error body the console's APIs return on failures.
type problemDetail struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func (p problemDetail) text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Detail
}

// Client issues JSON requests against a single API family's base URL.
type Client struct {
	baseURL    string
	sessions   SessionSource
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the given base URL. sessions may be nil for
// unauthenticated APIs.
func New(baseURL string, sessions SessionSource, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response, if
// any, into out. out may be nil for operations without a response body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &apierror.InvalidArgumentError{Message: "encoding request body", Cause: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &apierror.InvalidArgumentError{Message: "building request", Cause: err}
	}

	requestID := uuid.New().String()
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if c.sessions != nil {
		if s := c.sessions.Current(); s != nil {
			req.Header.Set(headerAuthorization, "Bearer "+s.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apierror.CommunicationError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := errorFromResponse(resp)
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Err(err).
			Msg("API request failed")
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apierror.CommunicationError{Cause: err}
	}
	return nil
}

func errorFromResponse(resp *http.Response) error {
	var problem problemDetail
	// Best effort: failure bodies are JSON problem details, but a proxy in
	// the path may answer with anything.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&problem)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &apierror.InvalidArgumentError{Message: problem.text()}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &apierror.AccessDeniedError{Message: problem.text()}
	case http.StatusNotFound:
		return apierror.ErrNotFound
	case http.StatusConflict:
		return apierror.ErrConflict
	default:
		message := problem.text()
		if message == "" {
			message = resp.Status
		}
		return &apierror.ServiceUnavailableError{Message: message}
	}
}
