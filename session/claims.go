package session

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/consoleops/go-admin-client/internal/utils"
)

// Claim names embedded in access tokens issued by the console's token
// endpoint, beyond the registered JWT claims.
const (
	claimUserDirectoryID = "user_directory_id"
	claimName            = "name"
	claimScope           = "scope"
	claimRoles           = "roles"
	claimFunctions       = "functions"
	claimTenants         = "tenants"
)

// FromAccessToken builds a Session from the claims of an access token.
//
// The token's signature is deliberately not verified: trust in the token is
// established by the server that issued it over a secure channel, and the
// claims are only read for UI and authority-gating purposes. This is a
// documented trust boundary, not a security control - resource servers
// perform their own verification.
//
// Missing claims default rather than fail: subject, directory and name to
// the empty string, scope/roles/functions/tenants to empty sets. The expiry
// is taken from the registered "exp" claim; when absent the session carries
// no expiry and is never silently refreshed.
func FromAccessToken(accessToken string) (*Session, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(accessToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[FromAccessToken] parsing access token")
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[FromAccessToken] error extracting claims from token")
	}

	sub, _ := claims["sub"].(string)
	directoryID, _ := claims[claimUserDirectoryID].(string)
	name, _ := claims[claimName].(string)

	s := &Session{
		Subject:         sub,
		UserDirectoryID: directoryID,
		DisplayName:     name,
		Scopes:          scopeSet(claims),
		Roles:           claimStringSet(claims, claimRoles),
		Functions:       claimStringSet(claims, claimFunctions),
		TenantIDs:       claimStringSet(claims, claimTenants),
		AccessToken:     accessToken,
	}

	if exp, ok := claims["exp"].(float64); ok {
		s.AccessTokenExpiry = time.Unix(int64(exp), 0)
	}

	return s, nil
}

// scopeSet splits the space-delimited scope claim into a set.
func scopeSet(claims jwtlib.MapClaims) []string {
	raw, _ := claims[claimScope].(string)
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return strings.Fields(raw)
}

func claimStringSet(claims jwtlib.MapClaims, name string) []string {
	if values, ok := claims[name].([]any); ok {
		return utils.ToStringSlice(values)
	}
	return []string{}
}
