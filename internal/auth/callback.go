package auth

import (
	"context"

	"bugghost-client/apperrors"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// Messages for a failed login
const (
	MissingCodeMessage = "Missing GitHub code"
	LoginFailedMessage = "Login failed"
)

// Exchanger trades a GitHub authorization code for the user
type Exchanger interface {
	ExchangeGitHubCode(ctx context.Context, code string) (*models.AuthenticatedUser, error)
}

// Callback completes a GitHub login into a Store.
type Callback struct {
	exchanger Exchanger
	store     *Store
}

func NewCallback(exchanger Exchanger, store *Store) *Callback {
	return &Callback{exchanger: exchanger, store: store}
}

// Complete exchanges code once and stores the returned user. Every failure is
// an *apperrors.AuthError carrying the message to show.
func (c *Callback) Complete(ctx context.Context, code string) (*models.AuthenticatedUser, error) {
	if code == "" {
		return nil, &apperrors.AuthError{Message: MissingCodeMessage}
	}

	user, err := c.exchanger.ExchangeGitHubCode(ctx, code)
	if err != nil {
		utils.LogDebug("github code exchange failed: %v", err)
		return nil, &apperrors.AuthError{Message: apperrors.Message(err, LoginFailedMessage), Err: err}
	}

	if err := c.store.SetUser(*user); err != nil {
		return nil, &apperrors.AuthError{Message: err.Error(), Err: err}
	}

	utils.LogDebug("logged in as %s", user.Username)
	return user, nil
}
