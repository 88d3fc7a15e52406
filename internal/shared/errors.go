package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated   = fmt.Errorf("not authorized")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNoSession          = fmt.Errorf("no stored session")

	// Backend errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrConnection        = fmt.Errorf("unable to reach server")
	ErrConflict          = fmt.Errorf("conflict")
	ErrBackendValidation = fmt.Errorf("rejected by server validation")
	ErrForbidden         = fmt.Errorf("access denied")
	ErrNotFound          = fmt.Errorf("not found")
	ErrPageNotFound      = fmt.Errorf("page not found")
	ErrUnknown           = fmt.Errorf("unexpected server response")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
