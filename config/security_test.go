package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 10, cfg.RateLimitMaxRequests())
	assert.Equal(t, 100, cfg.GlobalRateLimit())
	assert.Equal(t, time.Hour, cfg.RateLimitWindow())
	assert.True(t, cfg.AllowsMimeType("image/webp"))
	assert.False(t, cfg.AllowsMimeType("image/svg+xml"))
	assert.True(t, cfg.AllowsExtension("JPEG"))
	assert.False(t, cfg.AllowsExtension("exe"))
}

func TestSecurityConfigIsNotMutatedThroughAccessors(t *testing.T) {
	cfg := DefaultSecurityConfig()

	origins := cfg.AllowedOrigins()
	origins[0] = "https://evil.example"

	assert.Equal(t, "https://notaproblemtosolve.supabase.co", cfg.AllowedOrigins()[0])
}

func TestAllowedOriginFallsBackToFirst(t *testing.T) {
	cfg := NewSecurityConfigFromOptions(SecurityOptions{
		AllowedOrigins: []string{"https://a.example", "http://localhost:3000"},
	})

	assert.Equal(t, "http://localhost:3000", cfg.AllowedOrigin("http://localhost:3000"))
	assert.Equal(t, "https://a.example", cfg.AllowedOrigin("https://other.example"))
	assert.Equal(t, "https://a.example", cfg.AllowedOrigin(""))

	empty := NewSecurityConfigFromOptions(SecurityOptions{})
	assert.Equal(t, "*", empty.AllowedOrigin("https://x.example"))
}

func TestResponseHeaders(t *testing.T) {
	cfg := DefaultSecurityConfig()
	headers := cfg.ResponseHeaders("http://localhost:8080")

	assert.Equal(t, "http://localhost:8080", headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "POST, OPTIONS", headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type, Authorization", headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "86400", headers["Access-Control-Max-Age"])
	assert.Equal(t, "nosniff", headers["X-Content-Type-Options"])
	assert.Equal(t, "DENY", headers["X-Frame-Options"])
	assert.Equal(t, "no-store, max-age=0", headers["Cache-Control"])
	assert.Contains(t, headers, "Strict-Transport-Security")
	assert.Contains(t, headers, "Content-Security-Policy")
	assert.Contains(t, headers, "X-XSS-Protection")
}

func TestResponseHeadersWithRouteMethods(t *testing.T) {
	cfg := DefaultSecurityConfig()
	headers := cfg.ResponseHeaders("http://localhost:3000", GalleryAllowedMethods...)

	assert.Equal(t, "GET, OPTIONS", headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type, Authorization", headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "DENY", headers["X-Frame-Options"])
}

func TestLoadEnvConfigOverrides(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://one.example, https://two.example")
	t.Setenv("UPLOAD_MAX_BYTES", "1048576")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", "PNG,.jpg")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "60000")
	t.Setenv("RATE_LIMIT_GLOBAL", "not-a-number")
	t.Setenv("GRAFANA_OTLP_ENDPOINT", "https://otlp.example:4318")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("STORAGE_PUBLIC_URL", "")

	env := LoadEnvConfig()
	require.Equal(t, []string{"https://one.example", "https://two.example"}, env.CORS.AllowedOrigins)
	assert.Equal(t, "otlp.example:4318", env.Grafana.OTLPEndpoint)
	assert.False(t, env.Grafana.Insecure)
	assert.Equal(t, "http://minio:9000", env.Storage.PublicURL)
	assert.Equal(t, "images", env.Storage.Bucket)
	assert.False(t, env.RabbitMQ.Enabled)

	sec := NewSecurityConfig(env)
	assert.Equal(t, int64(1048576), sec.MaxUploadBytes())
	assert.Equal(t, []string{"png", "jpg"}, sec.AllowedExtensions())
	assert.Equal(t, 3, sec.RateLimitMaxRequests())
	assert.Equal(t, time.Minute, sec.RateLimitWindow())
	assert.Equal(t, 100, sec.GlobalRateLimit())
}

func TestLoadEnvConfigPlainOTLPEndpoint(t *testing.T) {
	t.Setenv("GRAFANA_OTLP_ENDPOINT", "http://collector:4318")

	env := LoadEnvConfig()
	assert.Equal(t, "collector:4318", env.Grafana.OTLPEndpoint)
	assert.True(t, env.Grafana.Insecure)
}
