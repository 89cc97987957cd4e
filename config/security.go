package config

import (
	"slices"
	"strings"
	"time"
)

const (
	RateLimitKeyPrefix = "upload_rate_limit"
	GlobalRateLimitKey = "global_rate_limit"
	CORSMaxAge         = "86400"
)

var (
	CORSAllowedMethods    = []string{"POST", "OPTIONS"}
	GalleryAllowedMethods = []string{"GET", "OPTIONS"}
	CORSAllowedHeaders    = []string{"Content-Type", "Authorization"}

	CSPReportAllowedMethods = []string{"POST", "OPTIONS"}
	CSPReportAllowedHeaders = []string{"Content-Type"}
)

// SecurityHeaders are attached to every response of the upload endpoint.
var SecurityHeaders = map[string]string{
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"X-XSS-Protection":          "1; mode=block",
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none';",
	"Cache-Control":             "no-store, max-age=0",
}

// SecurityConfig holds the fixed limits of the upload endpoint. It is built once
// at startup and never mutated; accessors hand out copies of the slices.
type SecurityConfig struct {
	maxUploadBytes       int64
	allowedMimeTypes     []string
	allowedExtensions    []string
	rateLimitMaxRequests int
	rateLimitWindow      time.Duration
	globalRateLimit      int
	allowedOrigins       []string

	mimeSet map[string]struct{}
	extSet  map[string]struct{}
}

type SecurityOptions struct {
	MaxUploadBytes       int64
	AllowedMimeTypes     []string
	AllowedExtensions    []string
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	GlobalRateLimit      int
	AllowedOrigins       []string
}

func NewSecurityConfig(env *EnvConfig) *SecurityConfig {
	return NewSecurityConfigFromOptions(SecurityOptions{
		MaxUploadBytes:       env.Upload.MaxBytes,
		AllowedMimeTypes:     env.Upload.AllowedMimeTypes,
		AllowedExtensions:    env.Upload.AllowedExtensions,
		RateLimitMaxRequests: env.RateLimit.MaxRequests,
		RateLimitWindow:      time.Duration(env.RateLimit.WindowMS) * time.Millisecond,
		GlobalRateLimit:      env.RateLimit.GlobalLimit,
		AllowedOrigins:       env.CORS.AllowedOrigins,
	})
}

// DefaultSecurityConfig returns the production limits: 5 MiB images,
// 10 uploads per user and IP per hour, 100 uploads per hour overall.
func DefaultSecurityConfig() *SecurityConfig {
	return NewSecurityConfigFromOptions(SecurityOptions{
		MaxUploadBytes:       5 * 1024 * 1024,
		AllowedMimeTypes:     defaultMimeTypes,
		AllowedExtensions:    defaultExtensions,
		RateLimitMaxRequests: 10,
		RateLimitWindow:      time.Hour,
		GlobalRateLimit:      100,
		AllowedOrigins:       defaultAllowedOrigins,
	})
}

func NewSecurityConfigFromOptions(opts SecurityOptions) *SecurityConfig {
	cfg := &SecurityConfig{
		maxUploadBytes:       opts.MaxUploadBytes,
		allowedMimeTypes:     slices.Clone(opts.AllowedMimeTypes),
		allowedExtensions:    make([]string, 0, len(opts.AllowedExtensions)),
		rateLimitMaxRequests: opts.RateLimitMaxRequests,
		rateLimitWindow:      opts.RateLimitWindow,
		globalRateLimit:      opts.GlobalRateLimit,
		allowedOrigins:       slices.Clone(opts.AllowedOrigins),
		mimeSet:              make(map[string]struct{}, len(opts.AllowedMimeTypes)),
		extSet:               make(map[string]struct{}, len(opts.AllowedExtensions)),
	}
	for _, m := range opts.AllowedMimeTypes {
		cfg.mimeSet[m] = struct{}{}
	}
	for _, e := range opts.AllowedExtensions {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		cfg.allowedExtensions = append(cfg.allowedExtensions, e)
		cfg.extSet[e] = struct{}{}
	}
	return cfg
}

func (c *SecurityConfig) MaxUploadBytes() int64 { return c.maxUploadBytes }

func (c *SecurityConfig) AllowedMimeTypes() []string { return slices.Clone(c.allowedMimeTypes) }

func (c *SecurityConfig) AllowedExtensions() []string { return slices.Clone(c.allowedExtensions) }

func (c *SecurityConfig) RateLimitMaxRequests() int { return c.rateLimitMaxRequests }

func (c *SecurityConfig) RateLimitWindow() time.Duration { return c.rateLimitWindow }

func (c *SecurityConfig) GlobalRateLimit() int { return c.globalRateLimit }

func (c *SecurityConfig) AllowedOrigins() []string { return slices.Clone(c.allowedOrigins) }

func (c *SecurityConfig) AllowsMimeType(mime string) bool {
	_, ok := c.mimeSet[mime]
	return ok
}

func (c *SecurityConfig) AllowsExtension(ext string) bool {
	_, ok := c.extSet[strings.ToLower(ext)]
	return ok
}

// AllowedOrigin echoes origin when it is on the allow-list and otherwise
// answers with the first configured origin. An empty list yields "*".
func (c *SecurityConfig) AllowedOrigin(origin string) string {
	if origin != "" && slices.Contains(c.allowedOrigins, origin) {
		return origin
	}
	if len(c.allowedOrigins) > 0 {
		return c.allowedOrigins[0]
	}
	return "*"
}

// ResponseHeaders is the fixed CORS plus security header set for a request
// carrying the given Origin header. methods defaults to CORSAllowedMethods.
func (c *SecurityConfig) ResponseHeaders(origin string, methods ...string) map[string]string {
	if len(methods) == 0 {
		methods = CORSAllowedMethods
	}
	headers := map[string]string{
		"Access-Control-Allow-Origin":  c.AllowedOrigin(origin),
		"Access-Control-Allow-Methods": strings.Join(methods, ", "),
		"Access-Control-Allow-Headers": strings.Join(CORSAllowedHeaders, ", "),
		"Access-Control-Max-Age":       CORSMaxAge,
	}
	for k, v := range SecurityHeaders {
		headers[k] = v
	}
	return headers
}
