package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bugghost-client/models"
)

type TeamService struct {
	client ClientInterface
}

func NewTeamService(client ClientInterface) *TeamService {
	return &TeamService{
		client: client,
	}
}

// List retrieves the teams visible to the caller. The backend answers with
// either a bare array or a {"teams": [...]} envelope.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	var raw json.RawMessage
	if err := doJSON(ctx, s.client, http.MethodGet, "/api/teams", nil, &raw); err != nil {
		return nil, err
	}

	var teams []models.Team
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &teams); err != nil {
			return nil, fmt.Errorf("failed to decode teams: %w", err)
		}
	} else {
		var resp models.TeamsResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode teams: %w", err)
		}
		teams = resp.Teams
	}

	if teams == nil {
		teams = []models.Team{}
	}
	return teams, nil
}

// Create creates a team with the given name
func (s *TeamService) Create(ctx context.Context, name string) error {
	return doJSON(ctx, s.client, http.MethodPost, "/api/teams", &models.TeamCreate{Name: name}, nil)
}

// AddMember adds a user to a team with the given role
func (s *TeamService) AddMember(ctx context.Context, teamID, userID, role string) error {
	path := fmt.Sprintf("/api/teams/%s/members", url.PathEscape(teamID))
	return doJSON(ctx, s.client, http.MethodPost, path, &models.TeamMemberAdd{UserID: userID, Role: role}, nil)
}
