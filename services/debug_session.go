// Package services provides the debug-session service for Bug Ghost API operations.
//
// This file implements the DebugSessionService which creates a debug session
// from an error report and reads back prior sessions, either as a list of
// reduced projections or one full record by identifier.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bugghost-client/apperrors"
	"bugghost-client/models"
)

type DebugSessionService struct {
	client ClientInterface
}

func NewDebugSessionService(client ClientInterface) *DebugSessionService {
	return &DebugSessionService{
		client: client,
	}
}

// Create submits an error report and returns the session the server created
func (s *DebugSessionService) Create(ctx context.Context, req *models.DebugSessionCreate) (*models.DebugSession, error) {
	var session models.DebugSession
	if err := doJSON(ctx, s.client, http.MethodPost, "/api/debug-sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// List retrieves all prior sessions
func (s *DebugSessionService) List(ctx context.Context) ([]models.DebugSessionListItem, error) {
	var items []models.DebugSessionListItem
	if err := doJSON(ctx, s.client, http.MethodGet, "/api/debug-sessions", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.DebugSessionListItem{}
	}
	return items, nil
}

// Get retrieves one session. A 404 is reported as *errors.NotFoundError.
func (s *DebugSessionService) Get(ctx context.Context, id string) (*models.DebugSession, error) {
	path := fmt.Sprintf("/api/debug-sessions/%s", url.PathEscape(id))

	var session models.DebugSession
	if err := doJSON(ctx, s.client, http.MethodGet, path, nil, &session); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, &apperrors.NotFoundError{Resource: "session", ID: id}
		}
		return nil, err
	}
	return &session, nil
}
