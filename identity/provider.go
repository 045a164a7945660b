package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const graphMeEndpoint = "https://graph.microsoft.com/v1.0/me"

// Principal is the authenticated identity returned by the provider.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Provider is the external OAuth2 identity collaborator.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (Principal, error)
}

// AzureProvider talks to the Microsoft identity platform and Graph.
type AzureProvider struct {
	oauth      *oauth2.Config
	profileURL string
}

func NewAzureProvider(clientID, clientSecret, tenantID, redirectURL string) *AzureProvider {
	return &AzureProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     microsoft.AzureADEndpoint(tenantID),
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "User.Read"},
		},
		profileURL: graphMeEndpoint,
	}
}

func (p *AzureProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *AzureProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

type graphProfile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// FetchProfile looks the signed-in user up with the bearer token.
func (p *AzureProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return Principal{}, err
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Principal{}, fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, body)
	}

	var profile graphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Principal{}, fmt.Errorf("decode profile: %w", err)
	}

	email := profile.Mail
	if email == "" {
		email = profile.UserPrincipalName
	}
	return Principal{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       email,
	}, nil
}
