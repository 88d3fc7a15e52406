package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/desertthunder/artistpage/internal/shared"
)

// APIError is a non-2xx backend response converted into the client's error taxonomy.
//
// Kind is one of the shared sentinels, so callers match with [errors.Is].
type APIError struct {
	Kind    error
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// errorBody is the shape the backend's exception handler produces.
type errorBody struct {
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors"`
	Error   string         `json:"error"`
}

// kindForStatus maps a status code to a sentinel.
// The second value reports whether the status alone settles the kind, regardless of body.
func kindForStatus(status int) (error, bool) {
	switch status {
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated, true
	case http.StatusForbidden:
		return shared.ErrForbidden, true
	case http.StatusNotFound:
		return shared.ErrNotFound, true
	case http.StatusBadRequest:
		return shared.ErrBackendValidation, false
	case http.StatusConflict:
		return shared.ErrConflict, false
	default:
		return shared.ErrAPIRequest, false
	}
}

// ParseAPIError builds an [APIError] from a failed response.
//
// The message comes from "message", then the first entry of "errors" (lowest key), then "error",
// then fallback. A body that is not JSON yields [shared.ErrUnknown] with the fallback message, except for
// 401, 403 and 404, whose meaning does not depend on the body.
func ParseAPIError(resp *APIResponse, fallback string) *APIError {
	kind, fixed := kindForStatus(resp.StatusCode)
	apiErr := &APIError{Kind: kind, Status: resp.StatusCode, Message: fallback}

	if !resp.IsJSON {
		if !fixed {
			apiErr.Kind = shared.ErrUnknown
		}
		return apiErr
	}

	if s, ok := resp.JSONData.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			apiErr.Message = s
		}
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		if !fixed {
			apiErr.Kind = shared.ErrUnknown
		}
		return apiErr
	}

	if len(body.Errors) > 0 {
		apiErr.Fields = make(map[string]string, len(body.Errors))
		for k, v := range body.Errors {
			apiErr.Fields[k] = fmt.Sprint(v)
		}
	}

	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case len(apiErr.Fields) > 0:
		keys := make([]string, 0, len(apiErr.Fields))
		for k := range apiErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		apiErr.Message = apiErr.Fields[keys[0]]
	case body.Error != "":
		apiErr.Message = body.Error
	}

	return apiErr
}

// UserMessage renders err as the single line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		err = apiErr.Kind
	}

	switch {
	case errors.Is(err, shared.ErrConnection):
		return "Unable to reach the server. Check that the backend is running."
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Your session has ended. Log in again."
	default:
		return err.Error()
	}
}
