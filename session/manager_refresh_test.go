package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/consoleops/go-admin-client/oauthclient"
)

// refreshFixture drives refreshTick directly against a fake token endpoint
// with a controllable clock, so the 30-second window and retry behaviour can
// be tested without waiting on real timers.
type refreshFixture struct {
	manager *Manager
	now     time.Time
	calls   int
	form    map[string]string // last form seen by the endpoint
}

func setupRefreshFixture(t *testing.T, respond http.HandlerFunc) *refreshFixture {
	t.Helper()

	f := &refreshFixture{now: time.Now().Truncate(time.Second)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.calls++
		f.form = map[string]string{}
		for key := range r.PostForm {
			f.form[key] = r.PostForm.Get(key)
		}
		respond(w, r)
	}))
	t.Cleanup(server.Close)

	tokens := oauthclient.New(server.URL, "admin-console", oauthclient.WithHTTPClient(server.Client()))
	manager, err := NewManager(tokens, WithNowFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.manager = manager
	return f
}

func mintToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()

	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("refresh-test-key"))
	require.NoError(t, err)
	return raw
}

func tokenResponse(t *testing.T, accessToken, refreshToken string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"access_token": accessToken, "token_type": "bearer"}
		if refreshToken != "" {
			body["refresh_token"] = refreshToken
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}
}

func oauthError(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	}
}

func TestRefreshTickIdleWithoutSession(t *testing.T) {
	f := setupRefreshFixture(t, tokenResponse(t, "unused", ""))

	f.manager.refreshTick(context.Background())

	require.Zero(t, f.calls)
}

func TestRefreshTickIdleWithoutRefreshToken(t *testing.T) {
	f := setupRefreshFixture(t, tokenResponse(t, "unused", ""))
	f.manager.feed.Publish(&Session{
		AccessToken:       "A1",
		AccessTokenExpiry: f.now.Add(5 * time.Second),
	})

	f.manager.refreshTick(context.Background())

	require.Zero(t, f.calls)
}

func TestRefreshTickIdleForNonExpiringToken(t *testing.T) {
	f := setupRefreshFixture(t, tokenResponse(t, "unused", ""))
	f.manager.feed.Publish(&Session{
		AccessToken:  "A1",
		RefreshToken: "R1",
	})

	f.manager.refreshTick(context.Background())

	require.Zero(t, f.calls)
}

func TestRefreshTickOutsideWindowDoesNotRefresh(t *testing.T) {
	f := setupRefreshFixture(t, tokenResponse(t, "unused", ""))
	current := &Session{
		AccessToken:       "A1",
		RefreshToken:      "R1",
		AccessTokenExpiry: f.now.Add(60 * time.Second),
	}
	f.manager.feed.Publish(current)

	f.manager.refreshTick(context.Background())

	require.Zero(t, f.calls)
	require.Same(t, current, f.manager.Current())
}

func TestRefreshTickWithinWindowRefreshes(t *testing.T) {
	newExpiry := time.Now().Add(time.Hour).Truncate(time.Second)
	newToken := mintToken(t, jwtlib.MapClaims{"sub": "alice", "exp": newExpiry.Unix()})
	f := setupRefreshFixture(t, tokenResponse(t, newToken, "R2"))

	f.manager.feed.Publish(&Session{
		Subject:           "alice",
		AccessToken:       "A1",
		RefreshToken:      "R1",
		AccessTokenExpiry: f.now.Add(10 * time.Second),
	})

	f.manager.refreshTick(context.Background())

	require.Equal(t, 1, f.calls)
	require.Equal(t, "refresh_token", f.form["grant_type"])
	require.Equal(t, "R1", f.form["refresh_token"])

	replacement := f.manager.Current()
	require.Equal(t, newToken, replacement.AccessToken)
	require.Equal(t, "R2", replacement.RefreshToken)
	require.True(t, replacement.AccessTokenExpiry.Equal(newExpiry))

	// The refreshed token is outside the window; the next tick stays idle.
	f.manager.refreshTick(context.Background())
	require.Equal(t, 1, f.calls)
}

func TestRefreshCarriesForwardTenantAndRefreshToken(t *testing.T) {
	newToken := mintToken(t, jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	// The endpoint reissues no refresh token.
	f := setupRefreshFixture(t, tokenResponse(t, newToken, ""))

	f.manager.feed.Publish(&Session{
		Subject:           "alice",
		ActiveTenantID:    "T1",
		AccessToken:       "A1",
		RefreshToken:      "R1",
		AccessTokenExpiry: f.now.Add(10 * time.Second),
	})

	f.manager.refreshTick(context.Background())

	replacement := f.manager.Current()
	require.Equal(t, "T1", replacement.ActiveTenantID, "the selected tenant must survive a silent refresh")
	require.Equal(t, "R1", replacement.RefreshToken, "the old refresh token must be carried forward when none is reissued")
}

func TestRefreshRejectionForcesLogout(t *testing.T) {
	f := setupRefreshFixture(t, oauthError(http.StatusUnauthorized))

	f.manager.feed.Publish(&Session{
		AccessToken:       "A1",
		RefreshToken:      "R1",
		AccessTokenExpiry: f.now.Add(10 * time.Second),
	})

	f.manager.refreshTick(context.Background())

	require.Equal(t, 1, f.calls)
	require.Nil(t, f.manager.Current(), "a rejected refresh token must force a logout")
}

func TestRefreshTransientFailureKeepsSessionAndRetries(t *testing.T) {
	f := setupRefreshFixture(t, oauthError(http.StatusInternalServerError))

	current := &Session{
		AccessToken:       "A1",
		RefreshToken:      "R1",
		AccessTokenExpiry: f.now.Add(10 * time.Second),
	}
	f.manager.feed.Publish(current)

	f.manager.refreshTick(context.Background())
	require.Equal(t, 1, f.calls)
	require.Same(t, current, f.manager.Current(), "a transient failure must leave the session untouched")

	// The next tick is inside the backoff window and must not hit the
	// endpoint again.
	f.manager.refreshTick(context.Background())
	require.Equal(t, 1, f.calls)

	// Once the backoff window has passed, the refresh is retried.
	f.now = f.now.Add(5 * time.Minute)
	f.manager.refreshTick(context.Background())
	require.Equal(t, 2, f.calls)
}

func TestRefreshNetworkFailureKeepsSession(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	tokens := oauthclient.New(server.URL, "admin-console")
	now := time.Now()
	manager, err := NewManager(tokens, WithNowFunc(func() time.Time { return now }))
	require.NoError(t, err)

	current := &Session{
		AccessToken:       "A1",
		RefreshToken:      "R1",
		AccessTokenExpiry: now.Add(10 * time.Second),
	}
	manager.feed.Publish(current)

	manager.refreshTick(context.Background())

	require.Same(t, current, manager.Current())
}

func TestStartStopsOnContextCancel(t *testing.T) {
	f := setupRefreshFixture(t, tokenResponse(t, "unused", ""))

	ctx, cancel := context.WithCancel(context.Background())
	f.manager.Start(ctx)
	cancel()

	select {
	case <-f.manager.Done():
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not stop on context cancellation")
	}
}
