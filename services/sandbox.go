// Package services provides the sandbox image service for Bug Ghost API operations.
//
// This file implements the SandboxService which reports which per-language
// container images are present on the executor and requests builds for them.
package services

import (
	"context"
	"net/http"

	"bugghost-client/models"
)

type SandboxService struct {
	client ClientInterface
}

func NewSandboxService(client ClientInterface) *SandboxService {
	return &SandboxService{
		client: client,
	}
}

// Images retrieves the presence map of sandbox image tags
func (s *SandboxService) Images(ctx context.Context) (models.ImageStatus, error) {
	var resp models.ImagesResponse
	if err := doJSON(ctx, s.client, http.MethodGet, "/api/sandbox/images", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Images == nil {
		resp.Images = models.ImageStatus{}
	}
	return resp.Images, nil
}

// BuildImages builds the images for the given languages and returns the
// per-language results keyed by the language name the server normalized to
func (s *SandboxService) BuildImages(ctx context.Context, languages []string) (map[string]models.BuildResult, error) {
	var resp models.BuildImagesResponse
	req := &models.BuildImagesRequest{Languages: languages}
	if err := doJSON(ctx, s.client, http.MethodPost, "/api/sandbox/images/build", req, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = map[string]models.BuildResult{}
	}
	return resp.Results, nil
}
