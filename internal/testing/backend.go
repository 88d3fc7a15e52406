package testing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
)

const maxUploadBytes = 5 << 20

// RecordedRequest is what [Backend] saw for one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

type backendUser struct {
	models.Identity
	password string
}

type override struct {
	status int
	body   string
}

type userKey struct{}

// Backend is an in-memory artist pages backend served over [httptest.Server].
//
// Protected routes accept Basic email:password or a Bearer token issued at login.
type Backend struct {
	URL string

	mu          sync.Mutex
	users       []*backendUser
	pages       map[int64]models.UserPage
	tokens      map[string]int64
	requests    []RecordedRequest
	overrides   map[string]override
	revoked     bool
	issueTokens bool
}

// NewBackend starts a [Backend] that is shut down when t ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		pages:     map[int64]models.UserPage{},
		tokens:    map[string]int64{},
		overrides: map[string]override{},
	}

	r := NewRouter()
	r.Use(b.record, b.override)

	r.HandleFunc(http.MethodPost, "/auth/register", b.register)
	r.HandleFunc(http.MethodPost, "/auth/login", b.login)
	r.Handle(http.MethodGet, "/auth/me", b.authenticated(b.me))
	r.Handle(http.MethodGet, "/user-page/me", b.authenticated(b.myPage))
	r.Handle(http.MethodPost, "/user-page/create", b.authenticated(b.createPage))
	r.Handle(http.MethodPut, "/user-page/update", b.authenticated(b.updatePage))
	r.Handle(http.MethodDelete, "/user-page/delete", b.authenticated(b.deletePage))
	r.HandleFunc(http.MethodGet, "/user-page/public/", b.publicPage)
	r.Handle(http.MethodPost, "/api/upload/image", b.authenticated(b.upload))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	b.URL = srv.URL

	return b
}

// AddUser registers a user directly.
func (b *Backend) AddUser(username, email, password string) models.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUser(username, email, password)
}

func (b *Backend) addUser(username, email, password string) models.Identity {
	u := &backendUser{
		Identity: models.Identity{ID: int64(len(b.users) + 1), Username: username, Email: email},
		password: password,
	}
	b.users = append(b.users, u)
	return u.Identity
}

// SetPage stores page for the user with email.
func (b *Backend) SetPage(email string, page models.UserPage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u := b.findUser(func(u *backendUser) bool { return u.Email == email }); u != nil {
		b.pages[u.ID] = page
	}
}

// Page returns the stored page for the user with email.
func (b *Backend) Page(email string) (models.UserPage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.findUser(func(u *backendUser) bool { return u.Email == email })
	if u == nil {
		return models.UserPage{}, false
	}
	p, ok := b.pages[u.ID]
	return p, ok
}

// IssueTokens makes login and register return a bearer token.
func (b *Backend) IssueTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issueTokens = true
}

// Revoke makes every protected route answer 401 from now on.
func (b *Backend) Revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
}

// Override answers every method+path request with status and a raw body.
func (b *Backend) Override(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = override{status: status, body: body}
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request, or the zero value.
func (b *Backend) LastRequest() RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) override(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		o, ok := b.overrides[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if json.Valid([]byte(o.body)) {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(o.status)
		_, _ = io.WriteString(w, o.body)
	})
}

func (b *Backend) authenticated(fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		u := b.authorize(r.Header.Get("Authorization"))
		b.mu.Unlock()

		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Authentication required"})
			return
		}
		fn(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

func (b *Backend) authorize(header string) *backendUser {
	if b.revoked {
		return nil
	}

	scheme, value, _ := strings.Cut(header, " ")
	switch strings.ToLower(scheme) {
	case "basic":
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil
		}
		email, password, _ := strings.Cut(string(raw), ":")
		return b.findUser(func(u *backendUser) bool { return u.Email == email && u.password == password })
	case "bearer":
		id, ok := b.tokens[value]
		if !ok {
			return nil
		}
		return b.findUser(func(u *backendUser) bool { return u.ID == id })
	default:
		return nil
	}
}

func (b *Backend) findUser(match func(*backendUser) bool) *backendUser {
	for _, u := range b.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (b *Backend) authBody(u *backendUser) map[string]any {
	body := map[string]any{"id": u.ID, "username": u.Username, "email": u.Email}
	if b.issueTokens {
		token := shared.GenerateID()
		b.tokens[token] = u.ID
		body["token"] = token
	}
	return body
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Malformed request"})
		return
	}

	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "username is required"
	}
	if in.Email == "" {
		fields["email"] = "email is required"
	}
	if in.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "errors": fields})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findUser(func(u *backendUser) bool { return u.Email == in.Email }) != nil {
		writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "message": "Email already registered"})
		return
	}
	if b.findUser(func(u *backendUser) bool { return u.Username == in.Username }) != nil {
		writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "message": "Username already taken"})
		return
	}

	id := b.addUser(in.Username, in.Email, in.Password)
	writeJSON(w, http.StatusCreated, b.authBody(b.users[id.ID-1]))
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	u := b.findUser(func(u *backendUser) bool { return u.Email == in.Email && u.password == in.Password })
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, b.authBody(u))
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r).Identity)
}

func (b *Backend) myPage(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	page, ok := b.pages[currentUser(r).ID]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User page not found"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) createPage(w http.ResponseWriter, r *http.Request) {
	var page models.UserPage
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Malformed page"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := currentUser(r).ID
	if _, ok := b.pages[id]; ok {
		writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "message": "Page already exists"})
		return
	}
	b.pages[id] = page
	writeJSON(w, http.StatusCreated, page)
}

func (b *Backend) updatePage(w http.ResponseWriter, r *http.Request) {
	var page models.UserPage
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Malformed page"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := currentUser(r).ID
	if _, ok := b.pages[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User page not found"})
		return
	}
	b.pages[id] = page
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) deletePage(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := currentUser(r).ID
	if _, ok := b.pages[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User page not found"})
		return
	}
	delete(b.pages, id)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "User page deleted")
}

func (b *Backend) publicPage(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(r.URL.Path, "/user-page/public/")

	b.mu.Lock()
	defer b.mu.Unlock()

	u := b.findUser(func(u *backendUser) bool { return u.Username == username })
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}
	page, ok := b.pages[u.ID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User page not found"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected multipart form data"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file exceeds 5MB"})
		return
	}

	kind := r.FormValue("type")
	if kind == "" {
		kind = string(models.ImageGeneral)
	}

	url := b.URL + "/uploads/" + kind + "/" + shared.GenerateID() + strings.ToLower(filepath.Ext(header.Filename))
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "message": "Upload complete"})
}

func currentUser(r *http.Request) *backendUser {
	return r.Context().Value(userKey{}).(*backendUser)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
