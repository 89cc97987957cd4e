package infra

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notaproblemtosolve/upload-gateway/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "a@example.test",
	}
}

func TestVerifyTokenLocal(t *testing.T) {
	svc := NewAuthorizationService(testSecret, "HS256", "", nil)

	claims := validClaims()
	principal, err := svc.VerifyToken(context.Background(), signToken(t, claims, jwt.SigningMethodHS256, []byte(testSecret)))
	require.NoError(t, err)
	assert.Equal(t, "sub-123", principal.ID)
	assert.Equal(t, "a@example.test", principal.Email)

	claims.UserID = "user-42"
	principal, err = svc.VerifyToken(context.Background(), signToken(t, claims, jwt.SigningMethodHS256, []byte(testSecret)))
	require.NoError(t, err)
	assert.Equal(t, "user-42", principal.ID)
}

func TestVerifyTokenRejections(t *testing.T) {
	svc := NewAuthorizationService(testSecret, "HS256", "", nil)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := map[string]string{
		"empty":           "",
		"garbage":         "not-a-jwt",
		"wrong secret":    signToken(t, validClaims(), jwt.SigningMethodHS256, []byte("other")),
		"expired":         signToken(t, expired, jwt.SigningMethodHS256, []byte(testSecret)),
		"wrong method":    signToken(t, validClaims(), jwt.SigningMethodHS512, []byte(testSecret)),
		"missing subject": signToken(t, noSubject, jwt.SigningMethodHS256, []byte(testSecret)),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			principal, err := svc.VerifyToken(context.Background(), token)
			require.Error(t, err)
			assert.Nil(t, principal)

			var authErr *service.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, http.StatusUnauthorized, authErr.Status)
			assert.NotEmpty(t, authErr.Message)
		})
	}
}

func TestVerifyTokenRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "revoked" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("token revoked"))
			return
		}
		if r.URL.Query().Get("token") == "flaky" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"user_id":"remote-user","email":"r@example.test"}`))
	}))
	defer srv.Close()

	svc := NewAuthorizationService("", "", srv.URL, srv.Client())

	principal, err := svc.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "remote-user", principal.ID)

	_, err = svc.VerifyToken(context.Background(), "revoked")
	var authErr *service.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Invalid or expired token", authErr.Message)

	_, err = svc.VerifyToken(context.Background(), "flaky")
	require.Error(t, err)
	assert.False(t, errors.As(err, &authErr), "an unreachable provider is not a token rejection")
}
