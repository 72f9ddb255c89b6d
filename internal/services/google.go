package services

import (
	"context"
	"fmt"

	"blogpress/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// OAuthProvider внешний провайдер входа (сейчас только Google).
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (models.OAuthProfile, error)
}

type GoogleProvider struct {
	oauth2Config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange меняет code на токен и запрашивает профиль пользователя.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (models.OAuthProfile, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := googleOAuth2.NewService(ctx, option.WithTokenSource(p.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}

	return models.OAuthProfile{
		ExternalID:  info.Id,
		Email:       info.Email,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
	}, nil
}
