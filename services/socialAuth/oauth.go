package socialAuth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lefri/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// OAuthProvider drives the browser redirect flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.GoogleProfile, error)
}

// GoogleOAuth implements the authorization code flow against Google.
type GoogleOAuth struct {
	cfg *oauth2.Config
}

// NewGoogleOAuth returns nil when the client credentials are incomplete.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}
	return &GoogleOAuth{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"openid",
			googleoauth.UserinfoEmailScope,
			googleoauth.UserinfoProfileScope,
		},
	}}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the code for a token and reads the userinfo endpoint.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*models.GoogleProfile, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read Google userinfo: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, errors.New("google userinfo is missing id or email")
	}
	return &models.GoogleProfile{
		Subject: info.Id,
		Email:   strings.ToLower(info.Email),
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
