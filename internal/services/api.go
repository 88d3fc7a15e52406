package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/artistpage/internal/shared"
)

// APIResponse is a backend response read in full, with status and headers left untouched.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v. A body that does not match v is [shared.ErrUnknown].
func (r *APIResponse) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("%w: empty response body", shared.ErrUnknown)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUnknown, err)
	}
	return nil
}

// readResponse drains resp into an [APIResponse], noting whether the body parsed as JSON.
func readResponse(resp *http.Response) (*APIResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrConnection, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
