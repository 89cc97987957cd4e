package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/service"
	"github.com/notaproblemtosolve/upload-gateway/utils"
	"github.com/stretchr/testify/assert"
)

type countingLogger struct{ errors int }

func (l *countingLogger) InfoWithContextf(context.Context, string, ...interface{})    {}
func (l *countingLogger) WarningWithContextf(context.Context, string, ...interface{}) {}
func (l *countingLogger) ErrorWithContextf(context.Context, error, string, ...interface{}) {
	l.errors++
}

type verifierFunc func(ctx context.Context, token string) (*entity.Principal, error)

func (f verifierFunc) VerifyToken(ctx context.Context, token string) (*entity.Principal, error) {
	return f(ctx, token)
}

func TestRecovererAnswersGenericServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := &countingLogger{}

	r := gin.New()
	r.Use(Recoverer(logger))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Server error"}`, rec.Body.String())
	assert.Equal(t, 1, logger.errors)
}

func TestSecurityHeadersShortCircuitsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reached := false

	r := gin.New()
	r.Use(SecurityHeadersMiddleware(config.DefaultSecurityConfig()))
	r.Any("/x", func(c *gin.Context) { reached = true })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, reached)
	assert.Equal(t, "https://notaproblemtosolve.supabase.co", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none';", rec.Header().Get("Content-Security-Policy"))
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := &countingLogger{}
	verifier := verifierFunc(func(_ context.Context, token string) (*entity.Principal, error) {
		if token == "good" {
			return &entity.Principal{ID: "u1"}, nil
		}
		return nil, service.NewAuthError("token is expired", nil)
	})

	r := gin.New()
	r.GET("/me", AuthMiddleware(verifier, logger), func(c *gin.Context) {
		p, ok := utils.PrincipalFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, p.ID)
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := call("Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	rec = call("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Missing authorization header"}`, rec.Body.String())

	rec = call("Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"token is expired"}`, rec.Body.String())
}
