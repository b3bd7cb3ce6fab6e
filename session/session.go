// Package session maintains the authenticated session for the administration
// console: it performs the OAuth2 password grant, silently renews the access
// token before expiry using the refresh token, and broadcasts every session
// change to subscribers (navigation filtering, authority-gated UI, bearer
// token attachment).
package session

import (
	"time"

	"github.com/consoleops/go-admin-client/internal/utils"
)

// Session is an immutable snapshot of an authenticated principal. It is
// replaced wholesale on every state change (login, refresh, tenant
// selection) - never mutated in place - so consumers can hold a *Session
// without synchronisation.
type Session struct {
	// Subject is the stable identifier of the authenticated principal.
	// Defaults to "" rather than being absent, to simplify consumers.
	Subject string

	// UserDirectoryID identifies the directory the principal was
	// authenticated against.
	UserDirectoryID string

	// DisplayName is the human-readable name of the principal. May be empty.
	DisplayName string

	// Scopes holds the granted OAuth2 scopes. Order is irrelevant.
	Scopes []string

	// Roles holds the role identifiers assigned to the principal.
	Roles []string

	// Functions holds the fine-grained permission identifiers used for
	// authority checks, distinct from roles.
	Functions []string

	// TenantIDs holds the tenants the principal may act within.
	TenantIDs []string

	// ActiveTenantID is the tenant currently selected by the caller. It is
	// not part of the token claims and is carried forward verbatim across
	// silent refreshes.
	ActiveTenantID string

	// AccessToken is the opaque bearer credential. Always present on a
	// published session.
	AccessToken string

	// AccessTokenExpiry is the absolute time after which the access token
	// is no longer valid. The zero value means the token never expires and
	// is never silently refreshed.
	AccessTokenExpiry time.Time

	// RefreshToken is the credential used to obtain a new access token
	// without re-authentication. May be empty, in which case no silent
	// refresh takes place.
	RefreshToken string
}

// HasRole reports whether the session carries the given role.
func (s *Session) HasRole(role string) bool {
	return utils.ContainsString(s.Roles, role)
}

// HasFunction reports whether the session carries the given function
// (fine-grained permission) identifier.
func (s *Session) HasFunction(function string) bool {
	return utils.ContainsString(s.Functions, function)
}

// HasTenant reports whether the principal may act within the given tenant.
func (s *Session) HasTenant(tenantID string) bool {
	return utils.ContainsString(s.TenantIDs, tenantID)
}

// HasScope reports whether the given OAuth2 scope was granted.
func (s *Session) HasScope(scope string) bool {
	return utils.ContainsString(s.Scopes, scope)
}

// ExpiresWithin reports whether the access token expires within margin of
// now. Sessions without an expiry never expire.
func (s *Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if s.AccessTokenExpiry.IsZero() {
		return false
	}
	return now.After(s.AccessTokenExpiry.Add(-margin))
}

// clone returns a copy of the session suitable for publishing as a
// replacement. Slice fields are shared: sessions are treated as immutable.
func (s *Session) clone() *Session {
	copied := *s
	return &copied
}
