package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/utpal74/ai-task-scheduler/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Identity is the result of a completed consent flow.
type Identity struct {
	GoogleID     string
	Email        string
	Name         string
	RefreshToken string
}

// Provider runs the browser-based authorization code flow.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// NewConfig builds the OAuth client configuration shared by the login flow
// and the calendar gateway.
func NewConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			calendar.CalendarScope,
			oauth2api.UserinfoEmailScope,
			oauth2api.UserinfoProfileScope,
		},
	}
}

// GoogleProvider handles Google OAuth
type GoogleProvider struct {
	config *oauth2.Config
	// extra options for the userinfo service, e.g. a test endpoint
	opts []option.ClientOption
}

func NewGoogleProvider(config *oauth2.Config, opts ...option.ClientOption) *GoogleProvider {
	return &GoogleProvider{config: config, opts: opts}
}

// AuthURL returns the consent page URL. prompt=consent makes Google return a
// refresh token even when the user has granted access before.
func (g *GoogleProvider) AuthURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the authorization code for tokens and fetches the profile.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	opts := append([]option.ClientOption{option.WithTokenSource(g.config.TokenSource(ctx, token))}, g.opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	profile, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	return &Identity{
		GoogleID:     profile.Id,
		Email:        profile.Email,
		Name:         profile.Name,
		RefreshToken: token.RefreshToken,
	}, nil
}
