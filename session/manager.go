package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/consoleops/go-admin-client/apierror"
	"github.com/consoleops/go-admin-client/oauthclient"
)

const (
	// defaultRefreshInterval is how often the background loop checks
	// whether the access token needs renewing.
	defaultRefreshInterval = 10 * time.Second

	// defaultRefreshMargin is how long before expiry a renewal is
	// attempted, tolerating clock skew between client and server.
	defaultRefreshMargin = 30 * time.Second
)

// Manager owns the authoritative current session. It authenticates,
// refreshes and logs out, guaranteeing at most one in-flight refresh and
// broadcasting every change through its Feed.
type Manager struct {
	tokens *oauthclient.Client
	feed   *Feed
	logger zerolog.Logger

	refreshInterval time.Duration
	refreshMargin   time.Duration
	nowFunc         func() time.Time

	// retryBackoff spaces out retries after transient refresh failures so
	// a degraded token endpoint is not polled at full tick rate. Reset on
	// every successful refresh.
	retryBackoff *backoff.ExponentialBackOff
	retryAt      time.Time

	startOnce sync.Once
	done      chan struct{}
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for refresh diagnostics.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNowFunc sets the now time function (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithRefreshInterval sets the interval between background refresh checks.
func WithRefreshInterval(interval time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshInterval = interval
	}
}

// WithRefreshMargin sets how long before expiry a silent refresh is
// attempted.
func WithRefreshMargin(margin time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshMargin = margin
	}
}

// NewManager creates a Manager publishing to a fresh Feed. The background
// refresh loop is not started until Start is called, so the lifecycle is
// explicit and testable.
func NewManager(tokens *oauthclient.Client, options ...ManagerOption) (*Manager, error) {
	if tokens == nil {
		return nil, errors.New("[NewManager] token client is required")
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = defaultRefreshInterval
	bo.MaxInterval = 2 * time.Minute
	bo.MaxElapsedTime = 0 // never give up; the session stays until logout

	m := &Manager{
		tokens:          tokens,
		feed:            NewFeed(),
		logger:          zerolog.Nop(),
		refreshInterval: defaultRefreshInterval,
		refreshMargin:   defaultRefreshMargin,
		nowFunc:         time.Now,
		retryBackoff:    bo,
		done:            make(chan struct{}),
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Current returns the latest published session, or nil when unauthenticated.
func (m *Manager) Current() *Session {
	return m.feed.Latest()
}

// Subscribe registers a subscriber on the session feed. The subscriber
// immediately receives the latest value (nil when unauthenticated) and every
// subsequent change in publish order.
func (m *Manager) Subscribe() (<-chan *Session, func()) {
	return m.feed.Subscribe()
}

// Login authenticates with a password grant, publishes the resulting session
// and returns it. Failures are returned as one of the typed error kinds in
// the apierror package.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	token, err := m.tokens.PasswordGrant(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s, err := m.sessionFromToken(token)
	if err != nil {
		return nil, &apierror.ServiceUnavailableError{
			Message: "token endpoint returned an undecodable access token",
			Cause:   err,
		}
	}

	m.feed.Publish(s)
	return s, nil
}

// Logout publishes the absence of a session. It is idempotent and performs
// no remote call; token revocation, if desired, is the caller's concern.
func (m *Manager) Logout() {
	m.feed.Publish(nil)
}

// SetActiveTenant publishes a replacement session with the given tenant
// selected. The tenant must be one the principal may act within.
func (m *Manager) SetActiveTenant(tenantID string) error {
	current := m.feed.Latest()
	if current == nil {
		return &apierror.InvalidArgumentError{Message: "no active session"}
	}
	if tenantID != "" && !current.HasTenant(tenantID) {
		return &apierror.InvalidArgumentError{Message: "tenant " + tenantID + " not available to this session"}
	}

	replacement := current.clone()
	replacement.ActiveTenantID = tenantID
	m.feed.Publish(replacement)
	return nil
}

// Start runs the background refresh loop until ctx is cancelled. The first
// check fires immediately, then on a fixed interval. Start may only be
// called once; Done is closed when the loop exits.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		go m.run(ctx)
	})
}

// Done is closed once the background refresh loop has exited.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	m.refreshTick(ctx)

	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.refreshTick(ctx)
		}
	}
}

// refreshTick performs one refresh check against the latest published
// session. Ticks are serialized by the loop goroutine, so at most one
// refresh is ever in flight; each tick re-reads the latest snapshot, so a
// login racing a pending refresh resolves to whichever publish happens last.
func (m *Manager) refreshTick(ctx context.Context) {
	now := m.nowFunc()
	if now.Before(m.retryAt) {
		return
	}

	current := m.feed.Latest()
	if current == nil {
		return
	}
	if current.RefreshToken == "" || current.AccessTokenExpiry.IsZero() {
		// Nothing to refresh with, or a non-expiring token.
		return
	}
	if !current.ExpiresWithin(now, m.refreshMargin) {
		return
	}

	token, err := m.tokens.RefreshGrant(ctx, current.RefreshToken)
	if err != nil {
		m.handleRefreshFailure(err)
		return
	}

	replacement, err := m.sessionFromToken(token)
	if err != nil {
		// The endpoint answered but the token is unusable; keep the
		// current session and retry on a later tick.
		m.logger.Error().Err(err).Msg("Silent refresh returned an undecodable access token")
		m.retryAt = m.nowFunc().Add(m.retryBackoff.NextBackOff())
		return
	}

	// Carry forward the previous refresh token when the server did not
	// reissue one, and the caller-selected tenant verbatim.
	if replacement.RefreshToken == "" {
		replacement.RefreshToken = current.RefreshToken
	}
	replacement.ActiveTenantID = current.ActiveTenantID

	m.retryBackoff.Reset()
	m.retryAt = time.Time{}
	m.feed.Publish(replacement)
	m.logger.Debug().
		Str("subject", replacement.Subject).
		Time("expiry", replacement.AccessTokenExpiry).
		Msg("Silently refreshed access token")
}

func (m *Manager) handleRefreshFailure(err error) {
	if errors.Is(err, oauthclient.ErrRefreshTokenRejected) {
		// The refresh token is invalid, expired or revoked. Force a
		// logout; subscribers observing the nil session are expected to
		// redirect to a login view.
		m.logger.Warn().Err(err).Msg("Refresh token rejected, logging out")
		m.retryBackoff.Reset()
		m.retryAt = time.Time{}
		m.feed.Publish(nil)
		return
	}

	// Transient failure: leave the current session untouched and retry on
	// a later tick, backed off so a degraded endpoint is not hammered.
	wait := m.retryBackoff.NextBackOff()
	m.retryAt = m.nowFunc().Add(wait)
	m.logger.Warn().Err(err).Dur("retry_in", wait).Msg("Silent refresh failed, will retry")
}

func (m *Manager) sessionFromToken(token *oauth2.Token) (*Session, error) {
	s, err := FromAccessToken(token.AccessToken)
	if err != nil {
		return nil, err
	}
	s.RefreshToken = token.RefreshToken
	return s, nil
}
