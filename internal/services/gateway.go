package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/desertthunder/artistpage/internal/validation"
)

const defaultTimeout = 15 * time.Second

// Request describes one call through the [Gateway].
//
// Body is encoded as JSON; a []byte or [json.RawMessage] body is sent as-is once it is confirmed to be JSON.
// Multipart takes precedence over Body. An Authorization entry in Header is always dropped.
type Request struct {
	Method    string
	Endpoint  string
	Body      any
	Multipart *Multipart
	Header    http.Header
	Anonymous bool
}

// Multipart is a form-data body.
type Multipart struct {
	Fields map[string]string
	Files  []MultipartFile
}

// MultipartFile is one file part of a [Multipart] body.
type MultipartFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// GatewayOpts configures [NewGateway]. Only BaseURL is required.
type GatewayOpts struct {
	BaseURL        string
	HTTPClient     *http.Client
	Store          SessionStore
	Scheme         CredentialScheme
	Logger         *log.Logger
	OnUnauthorized func()
}

// Gateway owns the client session and attaches its credential to every outbound request.
//
// A 401 from any request ends the session: memory and store are cleared and OnUnauthorized fires.
// It is safe for concurrent use.
type Gateway struct {
	base           *url.URL
	client         *http.Client
	store          SessionStore
	scheme         CredentialScheme
	logger         *log.Logger
	onUnauthorized func()

	mu      sync.RWMutex
	session *models.Session
}

// NewGateway validates opts and returns an anonymous [Gateway]. Call [Gateway.Restore] to pick up a stored session.
func NewGateway(opts GatewayOpts) (*Gateway, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: backend base URL %q must be an absolute http(s) URL", shared.ErrInvalidConfig, opts.BaseURL)
	}

	g := &Gateway{
		base:           base,
		client:         opts.HTTPClient,
		store:          opts.Store,
		scheme:         opts.Scheme,
		logger:         opts.Logger,
		onUnauthorized: opts.OnUnauthorized,
	}
	if g.client == nil {
		g.client = NewHTTPClient(defaultTimeout)
	}
	if g.scheme == nil {
		g.scheme = BasicScheme{}
	}
	if g.logger == nil {
		g.logger = shared.NewLogger(io.Discard)
	}

	return g, nil
}

// IssueRequest sends req, authenticated unless it is anonymous or leaves the backend's origin.
//
// Non-2xx responses other than 401 come back unmodified; the caller decides what they mean.
func (g *Gateway) IssueRequest(ctx context.Context, req Request) (*APIResponse, error) {
	target, err := g.resolve(req.Endpoint)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrInvalidInput, err)
	}

	for k, vs := range req.Header {
		if http.CanonicalHeaderKey(k) == "Authorization" {
			continue
		}
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Multipart != nil || httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", shared.GenerateID())

	if !req.Anonymous && g.sameOrigin(target) {
		g.mu.RLock()
		if g.session != nil {
			g.scheme.Apply(httpReq, g.session.Credential())
		}
		g.mu.RUnlock()
	}

	logger := g.logger.With("method", method, "path", target.Path)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrConnection, err)
	}
	defer resp.Body.Close()

	apiResp, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	logger.Debug("response", "status", apiResp.StatusCode)

	if apiResp.StatusCode == http.StatusUnauthorized {
		logger.Warn("backend rejected credentials, ending session")
		g.invalidate(ctx)
		return nil, ParseAPIError(apiResp, "")
	}

	return apiResp, nil
}

// Login exchanges an email and password for a session.
//
// The backend's 400, 401 and 403 answers all surface as [shared.ErrInvalidCredentials].
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	if err := validation.ValidateLogin(email, password); err != nil {
		return nil, err
	}

	resp, err := g.IssueRequest(ctx, Request{
		Method:    http.MethodPost,
		Endpoint:  "/auth/login",
		Body:      map[string]string{"email": email, "password": password},
		Anonymous: true,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, loginError(apiErr)
		}
		return nil, err
	}
	if !resp.OK() {
		return nil, loginError(ParseAPIError(resp, ""))
	}

	return g.establish(ctx, resp, email, password)
}

func loginError(apiErr *APIError) error {
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		msg := apiErr.Message
		if msg == "" {
			msg = "Invalid email or password"
		}
		return &APIError{Kind: shared.ErrInvalidCredentials, Status: apiErr.Status, Message: msg, Fields: apiErr.Fields}
	default:
		if apiErr.Message == "" {
			apiErr.Message = "Login failed"
		}
		return apiErr
	}
}

// Register creates an account and starts a session for it.
//
// Input is checked locally first; nothing is sent when it fails.
func (g *Gateway) Register(ctx context.Context, username, email, password string) (*models.Identity, error) {
	if err := validation.ValidateRegistration(username, email, password); err != nil {
		return nil, err
	}

	resp, err := g.IssueRequest(ctx, Request{
		Method:    http.MethodPost,
		Endpoint:  "/auth/register",
		Body:      map[string]string{"username": username, "email": email, "password": password},
		Anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, ParseAPIError(resp, "Registration failed")
	}

	return g.establish(ctx, resp, email, password)
}

// establish derives the credential from a successful auth response and stores the new session.
func (g *Gateway) establish(ctx context.Context, resp *APIResponse, email, password string) (*models.Identity, error) {
	var auth AuthResponse
	if err := resp.Decode(&auth); err != nil {
		return nil, err
	}
	if auth.Email == "" {
		auth.Email = email
	}

	credential, err := g.scheme.Derive(email, password, auth)
	if err != nil {
		return nil, err
	}

	session := models.NewSession(shared.GenerateID(), auth.Identity, g.scheme.Name(), credential)
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnknown, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store != nil {
		if err := g.store.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}
	g.session = session
	g.logger.Info("authenticated", "username", auth.Username)

	identity := auth.Identity
	return &identity, nil
}

// Verify asks the backend who the current credential belongs to.
func (g *Gateway) Verify(ctx context.Context) (*models.Identity, error) {
	if !g.IsAuthenticated() {
		return nil, fmt.Errorf("%w: log in first", shared.ErrNotAuthenticated)
	}

	resp, err := g.IssueRequest(ctx, Request{Method: http.MethodGet, Endpoint: "/auth/me"})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, ParseAPIError(resp, "Failed to verify session")
	}

	var identity models.Identity
	if err := resp.Decode(&identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout discards the session. Memory is always cleared; the error reports a store failure.
func (g *Gateway) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.session = nil
	if g.store != nil {
		if err := g.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear stored session: %w", err)
		}
	}
	return nil
}

// IsAuthenticated reports whether both identity and credential are held.
func (g *Gateway) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session != nil && g.session.Validate() == nil
}

// Session returns a copy of the current session, or nil when anonymous.
func (g *Gateway) Session() *models.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

// Restore loads the stored session. A stored record that is incomplete or
// was issued under another credential scheme is cleared instead.
func (g *Gateway) Restore(ctx context.Context) (bool, error) {
	if g.store == nil {
		return false, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	session, err := g.store.Load(ctx)
	if errors.Is(err, shared.ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load stored session: %w", err)
	}

	if err := session.Validate(); err != nil || session.Scheme() != g.scheme.Name() {
		g.logger.Warn("discarding unusable stored session", "scheme", session.Scheme(), "error", err)
		if err := g.store.Clear(ctx); err != nil {
			return false, fmt.Errorf("failed to clear stored session: %w", err)
		}
		return false, nil
	}

	g.session = session
	return true, nil
}

// invalidate ends the session after a 401. The store is cleared even if ctx was cancelled.
// OnUnauthorized fires only when a session was held, so a failed login is not reported as an expiry.
func (g *Gateway) invalidate(ctx context.Context) {
	g.mu.Lock()
	held := g.session != nil
	g.session = nil
	if g.store != nil {
		if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
			g.logger.Error("failed to clear stored session", "error", err)
		}
	}
	g.mu.Unlock()

	if held && g.onUnauthorized != nil {
		g.onUnauthorized()
	}
}

func (g *Gateway) resolve(endpoint string) (*url.URL, error) {
	endpoint = strings.TrimSpace(endpoint)
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return u, nil
	}

	raw := strings.TrimRight(g.base.String(), "/") + "/" + strings.TrimLeft(endpoint, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint %q: %v", shared.ErrInvalidInput, endpoint, err)
	}
	return u, nil
}

func (g *Gateway) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, g.base.Scheme) && strings.EqualFold(u.Host, g.base.Host)
}

// encodeBody returns the request body and the Content-Type it needs.
func encodeBody(req Request) (io.Reader, string, error) {
	if req.Multipart != nil {
		return encodeMultipart(req.Multipart)
	}

	const jsonType = "application/json"
	switch b := req.Body.(type) {
	case nil:
		return nil, jsonType, nil
	case []byte:
		if err := shared.ValidateJSON(b); err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), jsonType, nil
	case json.RawMessage:
		if err := shared.ValidateJSON(b); err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), jsonType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("%w: failed to encode body: %v", shared.ErrInvalidInput, err)
		}
		return bytes.NewReader(data), jsonType, nil
	}
}

func encodeMultipart(m *Multipart) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("%w: failed to write form field %q: %v", shared.ErrInvalidInput, k, err)
		}
	}

	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("%w: failed to create form file: %v", shared.ErrInvalidInput, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("%w: failed to read %s: %v", shared.ErrInvalidInput, f.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: failed to finish form: %v", shared.ErrInvalidInput, err)
	}
	return &buf, w.FormDataContentType(), nil
}
