package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrProviderNotConfigured = errors.New("identity provider is not configured")

type Status int

const (
	Unauthenticated Status = iota
	Authenticated
	Failed
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unauthenticated"
	}
}

// Result is the outcome of a login attempt or a session lookup.
type Result struct {
	Status    Status
	Principal *Principal
	Reason    string
	// ExpiresAt is set for authenticated session lookups.
	ExpiresAt time.Time
}

func (r Result) IsAuthenticated() bool {
	return r.Status == Authenticated && r.Principal != nil
}

func authenticated(p Principal, exp time.Time) Result {
	return Result{Status: Authenticated, Principal: &p, ExpiresAt: exp}
}

func unauthenticated(reason string) Result {
	return Result{Status: Unauthenticated, Reason: reason}
}

func failed(reason string) Result {
	return Result{Status: Failed, Reason: reason}
}

type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventLoggedOut      EventType = "logged_out"
)

type Event struct {
	Type      EventType
	Principal Principal
	Reason    string
}

// Manager owns the identity session state for the application. It is built
// once in main and handed to whoever needs it.
type Manager struct {
	provider Provider
	codec    *sessionCodec

	mu      sync.RWMutex
	subs    map[int]func(Event)
	nextSub int
	revoked map[string]time.Time // jti -> token expiry
}

func NewManager(provider Provider, secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		provider: provider,
		codec:    &sessionCodec{secret: secret, ttl: ttl, now: time.Now},
		subs:     make(map[int]func(Event)),
		revoked:  make(map[string]time.Time),
	}
}

// Enabled reports whether logins can be started at all.
func (m *Manager) Enabled() bool {
	return m.provider != nil
}

// Subscribe registers fn for every state change and returns a function that
// removes it again.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// BeginLogin starts a new attempt. The returned state identifies it; any
// earlier attempt by the same browser is superseded once the caller stores
// the new state.
func (m *Manager) BeginLogin() (state, redirectURL string, err error) {
	if m.provider == nil {
		return "", "", ErrProviderNotConfigured
	}
	state = uuid.NewString()
	return state, m.provider.AuthCodeURL(state), nil
}

// CompleteLogin finishes the attempt identified by expectedState. A
// response for any other attempt is stale and is dropped without contacting
// the provider.
func (m *Manager) CompleteLogin(ctx context.Context, expectedState, returnedState, code, providerError string) Result {
	if m.provider == nil {
		return failed(ErrProviderNotConfigured.Error())
	}
	if expectedState == "" || returnedState != expectedState {
		return unauthenticated("stale or unknown login attempt")
	}
	if providerError != "" {
		m.publish(Event{Type: EventLoginFailed, Reason: providerError})
		return failed(providerError)
	}
	if code == "" {
		return failed("missing authorization code")
	}

	tok, err := m.provider.Exchange(ctx, code)
	if err != nil {
		m.publish(Event{Type: EventLoginFailed, Reason: err.Error()})
		return failed("token exchange failed")
	}

	principal, err := m.provider.FetchProfile(ctx, tok)
	if err != nil {
		m.publish(Event{Type: EventLoginFailed, Reason: err.Error()})
		return failed("profile lookup failed")
	}
	if ctx.Err() != nil {
		// caller went away; nobody is waiting for this response
		return unauthenticated("login attempt abandoned")
	}

	m.publish(Event{Type: EventLoginSucceeded, Principal: principal})
	return authenticated(principal, time.Time{})
}

// IssueSession mints the session token stored in the browser cookie.
func (m *Manager) IssueSession(p Principal) (string, time.Time, error) {
	token, claims, err := m.codec.issue(p)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// Resolve maps a session token to the active principal, if any.
func (m *Manager) Resolve(token string) Result {
	if token == "" {
		return unauthenticated("no session")
	}
	claims, err := m.codec.parse(token)
	if err != nil {
		return unauthenticated(err.Error())
	}
	if m.isRevoked(claims.ID) {
		return unauthenticated("session signed out")
	}
	return authenticated(Principal{
		ID:          claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}, claims.ExpiresAt.Time)
}

// Logout revokes the session token until it would have expired anyway.
func (m *Manager) Logout(token string) {
	claims, err := m.codec.parse(token)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.revoked[claims.ID] = claims.ExpiresAt.Time
	m.pruneLocked()
	m.mu.Unlock()

	m.publish(Event{Type: EventLoggedOut, Principal: Principal{
		ID:          claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}})
}

func (m *Manager) isRevoked(jti string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.revoked[jti]
	return ok
}

// pruneLocked drops revocations for tokens that have expired on their own.
func (m *Manager) pruneLocked() {
	now := m.codec.now()
	for jti, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, jti)
		}
	}
}
