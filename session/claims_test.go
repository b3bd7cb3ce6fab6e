package session_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/consoleops/go-admin-client/session"
)

const testSigningKey = "test-signing-key"

// signedToken mints an HS256 token with the given claims. The session
// package never verifies signatures, but a properly signed token keeps the
// fixture realistic.
func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return token
}

func TestFromAccessTokenMapsAllClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwtlib.MapClaims{
		"sub":               "alice",
		"user_directory_id": "internal",
		"name":              "Alice Anderson",
		"scope":             "openid profile email",
		"roles":             []string{"Administrator", "TenantAdmin"},
		"functions":         []string{"Codes.CodeAdministration", "Scheduler.SchedulerAdministration"},
		"tenants":           []string{"T1", "T2"},
		"exp":               expiry.Unix(),
	})

	s, err := session.FromAccessToken(raw)
	require.NoError(t, err)

	require.Equal(t, "alice", s.Subject)
	require.Equal(t, "internal", s.UserDirectoryID)
	require.Equal(t, "Alice Anderson", s.DisplayName)
	require.ElementsMatch(t, []string{"openid", "profile", "email"}, s.Scopes)
	require.ElementsMatch(t, []string{"Administrator", "TenantAdmin"}, s.Roles)
	require.ElementsMatch(t, []string{"Codes.CodeAdministration", "Scheduler.SchedulerAdministration"}, s.Functions)
	require.ElementsMatch(t, []string{"T1", "T2"}, s.TenantIDs)
	require.Equal(t, raw, s.AccessToken)
	require.True(t, s.AccessTokenExpiry.Equal(expiry))
	require.Empty(t, s.RefreshToken)
	require.Empty(t, s.ActiveTenantID)
}

func TestFromAccessTokenDefaultsMissingClaims(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{})

	s, err := session.FromAccessToken(raw)
	require.NoError(t, err)

	require.Empty(t, s.Subject)
	require.Empty(t, s.UserDirectoryID)
	require.Empty(t, s.DisplayName)
	require.Empty(t, s.Scopes)
	require.Empty(t, s.Roles)
	require.Empty(t, s.Functions)
	require.Empty(t, s.TenantIDs)
	require.True(t, s.AccessTokenExpiry.IsZero(), "missing exp claim must leave the expiry unset")
}

func TestFromAccessTokenRejectsMalformedToken(t *testing.T) {
	_, err := session.FromAccessToken("not-a-jwt")
	require.Error(t, err)
}

func TestSessionAuthorityChecks(t *testing.T) {
	s := &session.Session{
		Scopes:    []string{"openid"},
		Roles:     []string{"Administrator"},
		Functions: []string{"Mail.MailTemplateAdministration"},
		TenantIDs: []string{"T1"},
	}

	require.True(t, s.HasRole("Administrator"))
	require.False(t, s.HasRole("PasswordResetter"))
	require.True(t, s.HasFunction("Mail.MailTemplateAdministration"))
	require.False(t, s.HasFunction("Reporting.ReportingAdministration"))
	require.True(t, s.HasTenant("T1"))
	require.False(t, s.HasTenant("T2"))
	require.True(t, s.HasScope("openid"))
	require.False(t, s.HasScope("email"))
}

func TestSessionExpiresWithin(t *testing.T) {
	now := time.Now()

	soon := &session.Session{AccessTokenExpiry: now.Add(10 * time.Second)}
	require.True(t, soon.ExpiresWithin(now, 30*time.Second))

	later := &session.Session{AccessTokenExpiry: now.Add(60 * time.Second)}
	require.False(t, later.ExpiresWithin(now, 30*time.Second))

	nonExpiring := &session.Session{}
	require.False(t, nonExpiring.ExpiresWithin(now, 30*time.Second))
}
