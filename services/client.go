// Package services groups the Bug Ghost API operations by resource.
//
// Each service holds a ClientInterface and issues one HTTP request per call.
// Non-success responses are converted to *apperrors.APIError carrying the
// server's detail message; transport failures surface as *apperrors.NetworkError.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bugghost-client/apperrors"
	"bugghost-client/internal/utils"
)

// ClientInterface defines the methods needed from bugghost.Client
type ClientInterface interface {
	NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
	GetBaseURL() string
}

// doJSON sends payload (if any) as JSON and decodes a 2xx response into out
// (if non-nil). Any other status becomes an *apperrors.APIError.
func doJSON(ctx context.Context, client ClientInterface, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := client.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	utils.LogDebug("%s %s (request_id: %s)", method, path, req.Header.Get("X-Request-ID"))

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apperrors.FromResponse(resp)
		utils.LogDebug("%s %s failed: %v", method, path, apiErr)
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
