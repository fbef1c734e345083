// Package models provides data structures for sandbox image management.
//
// The executor keeps one container image per supported language. The client
// asks which of them exist and can request a build of the missing ones.
package models

// ImageStatus maps an image tag to whether it is present on the executor
type ImageStatus map[string]bool

type ImagesResponse struct {
	Images ImageStatus `json:"images"`
}

type BuildImagesRequest struct {
	Languages []string `json:"languages"`
}

// BuildResult is the outcome of building the image for one language
type BuildResult struct {
	Built bool     `json:"built"`
	Image string   `json:"image"`
	Logs  []string `json:"logs"`
	Error string   `json:"error,omitempty"`
}

type BuildImagesResponse struct {
	Results map[string]BuildResult `json:"results"`
}
