// Package oauthclient exchanges credentials and refresh tokens for access
// tokens at the console's OAuth2 token endpoint, translating every failure
// into one of the SDK's typed error kinds.
package oauthclient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/consoleops/go-admin-client/apierror"
)

// ErrRefreshTokenRejected indicates the authorization server rejected the
// refresh token (HTTP 400 or 401): it is invalid, expired or revoked, and
// the only recovery is re-authentication.
var ErrRefreshTokenRejected = errors.New("refresh token rejected")

// Client issues token requests against a single OAuth2 token endpoint.
type Client struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for token requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client for the given token endpoint URL.
func New(tokenURL, clientID string, options ...Option) *Client {
	c := &Client{
		conf: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL: tokenURL,
				// Grant parameters travel in the form body, not a basic
				// auth header - this is what the console's endpoint expects.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// NewFromIssuer discovers the token endpoint from the issuer's OIDC
// discovery document and creates a Client for it.
func NewFromIssuer(ctx context.Context, issuer, clientID string, options ...Option) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, &apierror.CommunicationError{Cause: err}
	}
	return New(provider.Endpoint().TokenURL, clientID, options...), nil
}

// PasswordGrant performs a resource-owner password grant
// (grant_type=password) and returns the issued token.
func (c *Client) PasswordGrant(ctx context.Context, username, password string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return nil, mapPasswordGrantError(err)
	}
	return token, nil
}

// RefreshGrant performs a refresh-token grant (grant_type=refresh_token)
// and returns the replacement token. The returned token carries forward the
// supplied refresh token when the server does not issue a new one.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	source := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, mapRefreshGrantError(err)
	}
	return token, nil
}

// mapPasswordGrantError translates a password grant failure into the typed
// error taxonomy. The token endpoint signals the specific credential problem
// through the error_description of an invalid_grant response.
func mapPasswordGrantError(err error) error {
	var retrieve *oauth2.RetrieveError
	if !errors.As(err, &retrieve) {
		return &apierror.CommunicationError{Cause: err}
	}

	status := statusCode(retrieve)
	switch {
	case status == http.StatusBadRequest:
		description := retrieve.ErrorDescription
		if retrieve.ErrorCode == "invalid_grant" {
			switch {
			case strings.Contains(description, "User locked"):
				return &apierror.UserLockedError{Cause: err}
			case strings.Contains(description, "Credentials expired"):
				return &apierror.PasswordExpiredError{Cause: err}
			default:
				// Includes "Bad credentials" and any unrecognised
				// invalid_grant description.
				return &apierror.LoginError{Message: description, Cause: err}
			}
		}
		if retrieve.ErrorCode == "invalid_request" {
			return &apierror.InvalidArgumentError{Message: description, Cause: err}
		}
		return &apierror.LoginError{Message: description, Cause: err}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &apierror.AccessDeniedError{Cause: err}
	default:
		return &apierror.ServiceUnavailableError{
			Message: "token endpoint rejected the password grant",
			Cause:   err,
		}
	}
}

// mapRefreshGrantError translates a refresh grant failure. A 400 or 401
// means the refresh token itself is no longer usable and the caller must
// treat the session as lost; anything else is a retryable failure.
func mapRefreshGrantError(err error) error {
	var retrieve *oauth2.RetrieveError
	if !errors.As(err, &retrieve) {
		return &apierror.CommunicationError{Cause: err}
	}

	switch statusCode(retrieve) {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return errors.Join(ErrRefreshTokenRejected, err)
	default:
		return &apierror.ServiceUnavailableError{
			Message: "token endpoint rejected the refresh grant",
			Cause:   err,
		}
	}
}

func statusCode(retrieve *oauth2.RetrieveError) int {
	if retrieve.Response == nil {
		return 0
	}
	return retrieve.Response.StatusCode
}
