package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bugghost-client/models"
)

type AuthService struct {
	client ClientInterface
}

func NewAuthService(client ClientInterface) *AuthService {
	return &AuthService{
		client: client,
	}
}

// ExchangeGitHubCode trades an OAuth authorization code for the logged-in
// user. The backend answers either {"user": {...}} or the user object itself.
func (s *AuthService) ExchangeGitHubCode(ctx context.Context, code string) (*models.AuthenticatedUser, error) {
	path := fmt.Sprintf("/api/auth/github/callback?code=%s", url.QueryEscape(code))

	var raw json.RawMessage
	if err := doJSON(ctx, s.client, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		User *models.AuthenticatedUser `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var user models.AuthenticatedUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// LoginURL is the backend route that redirects to GitHub's authorize page
func (s *AuthService) LoginURL() string {
	return s.client.GetBaseURL() + "/api/auth/github/login"
}
