package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/service"
)

// Claims are the access token claims issued by the identity provider. The
// principal id is user_id, falling back to the standard subject.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

type remoteIdentity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// AuthorizationService resolves bearer tokens to principals. Tokens are
// verified locally when a signing secret is set; the remote authorization
// service, when configured, is asked as well so revoked tokens are refused.
type AuthorizationService struct {
	AuthorizationServiceURL string
	secretKey               []byte
	algorithm               string
	client                  *http.Client
}

func InitAuthorizationService(cfg *config.EnvConfig) *AuthorizationService {
	if cfg.JWT.SecretKey == "" && cfg.ExternalService.AuthorizationServiceURL == "" {
		panic("Neither JWT secret key nor authorization service URL is configured")
	}

	return NewAuthorizationService(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.ExternalService.AuthorizationServiceURL,
		&http.Client{Timeout: 5 * time.Second},
	)
}

func NewAuthorizationService(secretKey, algorithm, serviceURL string, client *http.Client) *AuthorizationService {
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AuthorizationService{
		AuthorizationServiceURL: strings.TrimRight(serviceURL, "/"),
		secretKey:               []byte(secretKey),
		algorithm:               algorithm,
		client:                  client,
	}
}

// VerifyToken returns *service.AuthError when the token is refused. Any other
// error means the provider could not be asked.
func (s *AuthorizationService) VerifyToken(ctx context.Context, token string) (*entity.Principal, error) {
	if token == "" {
		return nil, service.NewAuthError("Invalid token", service.ErrMissingToken)
	}

	var principal *entity.Principal
	if len(s.secretKey) > 0 {
		p, err := s.parseToken(token)
		if err != nil {
			return nil, err
		}
		principal = p
	}

	if s.AuthorizationServiceURL != "" {
		remote, err := s.CheckAccessToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if principal == nil {
			principal = remote
		}
	}

	return principal, nil
}

func (s *AuthorizationService) parseToken(token string) (*entity.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{s.algorithm}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, service.NewAuthError(err.Error(), err)
	}
	if !parsed.Valid {
		return nil, service.NewAuthError("Invalid token", nil)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return nil, service.NewAuthError("Invalid token claims", nil)
	}

	return &entity.Principal{
		ID:    id,
		Email: claims.Email,
		Role:  claims.Role,
		Claims: map[string]any{
			"sub":   claims.Subject,
			"email": claims.Email,
			"role":  claims.Role,
		},
	}, nil
}

// CheckAccessToken asks the authorization service whether token is still valid.
func (s *AuthorizationService) CheckAccessToken(ctx context.Context, token string) (*entity.Principal, error) {
	endpoint := fmt.Sprintf("%s/api/v2/authorization/token/validate?token=%s", s.AuthorizationServiceURL, url.QueryEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, service.NewAuthError("Invalid or expired token", errors.New(strings.TrimSpace(string(raw))))
	default:
		return nil, fmt.Errorf("authorization service returned %d: %s", resp.StatusCode, string(raw))
	}

	var identity remoteIdentity
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &identity); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	if identity.UserID == "" {
		return nil, nil
	}
	return &entity.Principal{ID: identity.UserID, Email: identity.Email, Role: identity.Role}, nil
}
