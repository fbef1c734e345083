package services

import (
	"context"
	"net/http"

	"bugghost-client/models"
)

type RunService struct {
	client ClientInterface
}

func NewRunService(client ClientInterface) *RunService {
	return &RunService{
		client: client,
	}
}

// Submit executes code in a sandbox container and waits for the captured output.
// TimeoutSec is passed through verbatim; the server enforces it.
func (s *RunService) Submit(ctx context.Context, req *models.RunCreate) (*models.SandboxRun, error) {
	var run models.SandboxRun
	if err := doJSON(ctx, s.client, http.MethodPost, "/api/runs", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
