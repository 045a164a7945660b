package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAzureProviderAuthCodeURL(t *testing.T) {
	p := NewAzureProvider("client-id", "secret", "my-tenant", "http://localhost:8080/auth/callback")

	raw := p.AuthCodeURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "login.microsoftonline.com", u.Host)
	assert.Contains(t, u.Path, "my-tenant")
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "http://localhost:8080/auth/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "User.Read")
}

func TestAzureProviderExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	p := NewAzureProvider("client-id", "secret", "tenant", "http://localhost/cb")
	p.oauth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token"}

	tok, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "graph-token", tok.AccessToken)
}

func TestAzureProviderFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"oid-9","displayName":"Bob Manager","mail":null,"userPrincipalName":"bob@contoso.test"}`))
	}))
	defer srv.Close()

	p := NewAzureProvider("client-id", "secret", "tenant", "http://localhost/cb")
	p.profileURL = srv.URL

	principal, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "graph-token", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "oid-9", DisplayName: "Bob Manager", Email: "bob@contoso.test"}, principal)
}

func TestAzureProviderFetchProfileError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"InvalidAuthenticationToken"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewAzureProvider("client-id", "secret", "tenant", "http://localhost/cb")
	p.profileURL = srv.URL

	_, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "expired"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
