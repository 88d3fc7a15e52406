// Package services talks to the artist pages backend.
//
// # Gateway
//
// [Gateway] is the only holder of credential material. Every request goes through [Gateway.IssueRequest], which
// attaches the Authorization header through the configured [CredentialScheme] and strips any Authorization a
// caller tried to set. Requests marked Anonymous, and requests to another origin, are sent without it.
//
// A 401 on any request ends the session:
//   - the in-memory session and the [SessionStore] record are cleared
//   - GatewayOpts.OnUnauthorized is called
//   - the caller gets an [*APIError] wrapping [shared.ErrNotAuthenticated]
//
// Other statuses are returned unmodified in an [APIResponse].
//
// # Credential Schemes
//
// [BasicScheme] stores Base64(email:password), which is what the backend currently checks.
// [BearerScheme] stores the token from the auth response and applies it with [oauth2.Token.SetAuthHeader].
//
// # Pages
//
// [PageService] wraps the /user-page endpoints and image upload. Page payloads are sanitized before sending.
//
// # Error Handling
//
// Non-2xx responses become [*APIError] through [ParseAPIError]. Its Kind is one of:
//   - [shared.ErrBackendValidation] : 400
//   - [shared.ErrNotAuthenticated] : 401
//   - [shared.ErrForbidden] : 403
//   - [shared.ErrNotFound], [shared.ErrPageNotFound] : 404
//   - [shared.ErrConflict] : 409
//   - [shared.ErrAPIRequest] : anything else
//   - [shared.ErrUnknown] : a body that could not be read as JSON
//
// Transport failures wrap [shared.ErrConnection] and leave the session alone.
package services
