package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/desertthunder/artistpage/internal/validation"
)

// PageService is the typed client for the /user-page and /api/upload endpoints.
type PageService struct {
	requester Requester
	maxUpload int64
	logger    *log.Logger
}

// NewPageService wraps r. A maxUpload of zero uses [validation.DefaultMaxImageBytes].
func NewPageService(r Requester, maxUpload int64, logger *log.Logger) *PageService {
	if maxUpload <= 0 {
		maxUpload = validation.DefaultMaxImageBytes
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &PageService{requester: r, maxUpload: maxUpload, logger: logger}
}

// Me fetches the authenticated user's page. A missing or empty page is [shared.ErrPageNotFound].
func (s *PageService) Me(ctx context.Context) (*models.UserPage, error) {
	resp, err := s.requester.IssueRequest(ctx, Request{Method: http.MethodGet, Endpoint: "/user-page/me"})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, pageNotFound(resp, "You have not created a page yet")
	}
	if !resp.OK() {
		return nil, ParseAPIError(resp, "Failed to load your page")
	}

	var page models.UserPage
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	if page.IsEmpty() {
		return nil, &APIError{Kind: shared.ErrPageNotFound, Status: resp.StatusCode, Message: "You have not created a page yet"}
	}
	return &page, nil
}

// Create sanitizes page and creates it.
func (s *PageService) Create(ctx context.Context, page models.UserPage) (*models.UserPage, error) {
	return s.write(ctx, http.MethodPost, "/user-page/create", page, "Failed to create page")
}

// Update sanitizes page and replaces the existing one.
func (s *PageService) Update(ctx context.Context, page models.UserPage) (*models.UserPage, error) {
	return s.write(ctx, http.MethodPut, "/user-page/update", page, "Failed to update page")
}

// Save updates the page when one exists and creates it otherwise.
func (s *PageService) Save(ctx context.Context, page models.UserPage) (*models.UserPage, error) {
	_, err := s.Me(ctx)
	switch {
	case err == nil:
		return s.Update(ctx, page)
	case errors.Is(err, shared.ErrPageNotFound):
		return s.Create(ctx, page)
	default:
		return nil, err
	}
}

func (s *PageService) write(ctx context.Context, method, endpoint string, page models.UserPage, fallback string) (*models.UserPage, error) {
	clean := validation.SanitizePage(page)

	resp, err := s.requester.IssueRequest(ctx, Request{Method: method, Endpoint: endpoint, Body: clean})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		if resp.StatusCode == http.StatusNotFound {
			return nil, pageNotFound(resp, fallback)
		}
		return nil, ParseAPIError(resp, fallback)
	}

	var saved models.UserPage
	if resp.IsJSON && resp.Decode(&saved) == nil && !saved.IsEmpty() {
		return &saved, nil
	}
	return &clean, nil
}

// Delete removes the authenticated user's page.
func (s *PageService) Delete(ctx context.Context) error {
	resp, err := s.requester.IssueRequest(ctx, Request{Method: http.MethodDelete, Endpoint: "/user-page/delete"})
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return pageNotFound(resp, "There is no page to delete")
	}
	if !resp.OK() {
		return ParseAPIError(resp, "Failed to delete page")
	}
	return nil
}

// Public fetches username's page without credentials.
func (s *PageService) Public(ctx context.Context, username string) (*models.UserPage, error) {
	if err := validation.ValidateUsername(username).Err(); err != nil {
		return nil, err
	}

	resp, err := s.requester.IssueRequest(ctx, Request{
		Method:    http.MethodGet,
		Endpoint:  "/user-page/public/" + url.PathEscape(username),
		Anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, pageNotFound(resp, fmt.Sprintf("No page found for %s", username))
	}
	if !resp.OK() {
		return nil, ParseAPIError(resp, "Failed to load page")
	}

	var page models.UserPage
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

type uploadResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// UploadImage sends an image as multipart form data and returns its sanitized URL.
func (s *PageService) UploadImage(ctx context.Context, filename string, content io.Reader, size int64, kind models.ImageKind) (string, error) {
	if kind == "" {
		kind = models.ImageGeneral
	}
	if err := validation.ValidateImageUpload(filename, size, s.maxUpload, kind).Err(); err != nil {
		return "", err
	}

	resp, err := s.requester.IssueRequest(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: "/api/upload/image",
		Multipart: &Multipart{
			Fields: map[string]string{"type": string(kind)},
			Files:  []MultipartFile{{Field: "file", Filename: filename, Content: io.LimitReader(content, size)}},
		},
	})
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", ParseAPIError(resp, "Failed to upload image")
	}

	var out uploadResponse
	if err := resp.Decode(&out); err != nil {
		return "", err
	}

	u := validation.SanitizeURL(out.URL)
	if u == "" {
		return "", fmt.Errorf("%w: upload returned no usable URL", shared.ErrUnknown)
	}
	s.logger.Debug("image uploaded", "kind", kind, "url", u)
	return u, nil
}

// pageNotFound narrows a 404 to [shared.ErrPageNotFound], keeping any backend message.
func pageNotFound(resp *APIResponse, fallback string) *APIError {
	apiErr := ParseAPIError(resp, fallback)
	apiErr.Kind = shared.ErrPageNotFound
	return apiErr
}
