package services

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	"golang.org/x/oauth2"
)

// AuthResponse is the body returned by /auth/login and /auth/register.
type AuthResponse struct {
	models.Identity
	Token       string `json:"token,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// CredentialScheme derives the stored credential from a successful login and attaches it to outgoing requests.
type CredentialScheme interface {
	Name() string
	Derive(identifier, secret string, auth AuthResponse) (string, error)
	Apply(req *http.Request, credential string)
}

// NewCredentialScheme returns the scheme registered under name.
func NewCredentialScheme(name string) (CredentialScheme, error) {
	switch name {
	case shared.SchemeBasic, "":
		return BasicScheme{}, nil
	case shared.SchemeBearer:
		return BearerScheme{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown credential scheme %q", shared.ErrInvalidConfig, name)
	}
}

// BasicScheme caches Base64("identifier:secret") and sends it as HTTP Basic auth.
//
// This is what the current backend accepts. The encoded value is the password in all but name,
// so it is only a compatibility shim until the backend issues tokens.
type BasicScheme struct{}

func (BasicScheme) Name() string { return shared.SchemeBasic }

func (BasicScheme) Derive(identifier, secret string, _ AuthResponse) (string, error) {
	if identifier == "" || secret == "" {
		return "", fmt.Errorf("%w: identifier and secret are required", shared.ErrInvalidCredentials)
	}
	return base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret)), nil
}

func (BasicScheme) Apply(req *http.Request, credential string) {
	req.Header.Set("Authorization", "Basic "+credential)
}

// BearerScheme stores the token returned by the auth endpoint and never keeps the password.
type BearerScheme struct{}

func (BearerScheme) Name() string { return shared.SchemeBearer }

func (BearerScheme) Derive(_, _ string, auth AuthResponse) (string, error) {
	token := auth.AccessToken
	if token == "" {
		token = auth.Token
	}
	if token == "" {
		return "", fmt.Errorf("%w: auth response carried no token", shared.ErrUnknown)
	}
	return token, nil
}

func (BearerScheme) Apply(req *http.Request, credential string) {
	tok := &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}
	tok.SetAuthHeader(req)
}
