package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeProvider struct {
	mu          sync.Mutex
	exchanges   int
	exchangeErr error
	profileErr  error
	principal   Principal
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://login.example.test/authorize?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.mu.Lock()
	f.exchanges++
	f.mu.Unlock()
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "token-for-" + code}, nil
}

func (f *fakeProvider) FetchProfile(context.Context, *oauth2.Token) (Principal, error) {
	if f.profileErr != nil {
		return Principal{}, f.profileErr
	}
	return f.principal, nil
}

func newTestManager(p Provider) *Manager {
	return NewManager(p, []byte("test-secret"), time.Hour)
}

var alice = Principal{ID: "oid-1", DisplayName: "Alice Host", Email: "alice@example.com"}

func TestLoginFlowAuthenticates(t *testing.T) {
	p := &fakeProvider{principal: alice}
	m := newTestManager(p)

	state, url, err := m.BeginLogin()
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.Contains(t, url, state)

	result := m.CompleteLogin(context.Background(), state, state, "code-123", "")
	require.True(t, result.IsAuthenticated())
	assert.Equal(t, Authenticated, result.Status)
	assert.Equal(t, alice, *result.Principal)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	p := &fakeProvider{principal: alice}
	m := newTestManager(p)

	first, _, err := m.BeginLogin()
	require.NoError(t, err)
	second, _, err := m.BeginLogin()
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// browser now expects the second attempt; the first one answers late
	result := m.CompleteLogin(context.Background(), second, first, "late-code", "")
	assert.Equal(t, Unauthenticated, result.Status)
	assert.Nil(t, result.Principal)
	assert.Zero(t, p.exchanges)
}

func TestCompleteLoginWithoutStateIsUnauthenticated(t *testing.T) {
	m := newTestManager(&fakeProvider{principal: alice})

	result := m.CompleteLogin(context.Background(), "", "", "code", "")
	assert.Equal(t, Unauthenticated, result.Status)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		code     string
		provErr  string
		reason   string
	}{
		{"provider error", &fakeProvider{}, "", "access_denied", "access_denied"},
		{"missing code", &fakeProvider{}, "", "", "missing authorization code"},
		{"exchange", &fakeProvider{exchangeErr: errors.New("bad code")}, "c", "", "token exchange failed"},
		{"profile", &fakeProvider{profileErr: errors.New("403")}, "c", "", "profile lookup failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(tt.provider)
			state, _, err := m.BeginLogin()
			require.NoError(t, err)

			result := m.CompleteLogin(context.Background(), state, state, tt.code, tt.provErr)
			assert.Equal(t, Failed, result.Status)
			assert.Equal(t, tt.reason, result.Reason)
			assert.False(t, result.IsAuthenticated())
		})
	}
}

func TestAbandonedLoginIsDiscarded(t *testing.T) {
	m := newTestManager(&fakeProvider{principal: alice})
	state, _, err := m.BeginLogin()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := m.CompleteLogin(ctx, state, state, "code", "")
	assert.Equal(t, Unauthenticated, result.Status)
}

func TestProviderNotConfigured(t *testing.T) {
	m := newTestManager(nil)
	assert.False(t, m.Enabled())

	_, _, err := m.BeginLogin()
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	result := m.CompleteLogin(context.Background(), "s", "s", "c", "")
	assert.Equal(t, Failed, result.Status)
}

func TestSessionRoundTrip(t *testing.T) {
	m := newTestManager(&fakeProvider{})

	token, exp, err := m.IssueSession(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	result := m.Resolve(token)
	require.True(t, result.IsAuthenticated())
	assert.Equal(t, alice, *result.Principal)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	m := newTestManager(&fakeProvider{})
	other := NewManager(nil, []byte("another-secret"), time.Hour)

	foreign, _, err := other.IssueSession(alice)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong secret": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Unauthenticated, m.Resolve(token).Status)
		})
	}
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	m := newTestManager(&fakeProvider{})
	issuedAt := time.Now().Add(-2 * time.Hour)
	m.codec.now = func() time.Time { return issuedAt }

	token, _, err := m.IssueSession(alice)
	require.NoError(t, err)

	m.codec.now = time.Now
	result := m.Resolve(token)
	assert.Equal(t, Unauthenticated, result.Status)
	assert.Contains(t, result.Reason, "expired")
}

func TestLogoutRevokesSession(t *testing.T) {
	m := newTestManager(&fakeProvider{})

	token, _, err := m.IssueSession(alice)
	require.NoError(t, err)
	require.True(t, m.Resolve(token).IsAuthenticated())

	m.Logout(token)
	assert.Equal(t, Unauthenticated, m.Resolve(token).Status)

	// a fresh session for the same principal is unaffected
	again, _, err := m.IssueSession(alice)
	require.NoError(t, err)
	assert.True(t, m.Resolve(again).IsAuthenticated())
}

func TestSubscribersObserveStateChanges(t *testing.T) {
	m := newTestManager(&fakeProvider{principal: alice})

	var events []Event
	unsubscribe := m.Subscribe(func(e Event) { events = append(events, e) })

	state, _, err := m.BeginLogin()
	require.NoError(t, err)
	m.CompleteLogin(context.Background(), state, state, "code", "")

	token, _, err := m.IssueSession(alice)
	require.NoError(t, err)
	m.Logout(token)

	require.Len(t, events, 2)
	assert.Equal(t, EventLoginSucceeded, events[0].Type)
	assert.Equal(t, alice, events[0].Principal)
	assert.Equal(t, EventLoggedOut, events[1].Type)

	unsubscribe()
	m.CompleteLogin(context.Background(), state, state, "code", "")
	assert.Len(t, events, 2)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "failed", Failed.String())
}
