package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/notaproblemtosolve/upload-gateway/service"
	uploadResourceID    = "file-upload"
)

// ErrNoFile is returned by an UploadRequest file reader when the form has no
// file field.
var ErrNoFile = errors.New("no file provided")

type UploadRequest struct {
	Method        string
	Authorization string
	ClientIP      string
	UserAgent     string
	// ReadFile is called only after auth and rate limiting pass.
	ReadFile func() (*entity.UploadCandidate, error)
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
	URL     string `json:"url,omitempty"`
}

type UploadResult struct {
	Status int
	Body   UploadResponse
}

func failure(status int, message string) *UploadResult {
	return &UploadResult{Status: status, Body: UploadResponse{Success: false, Message: message}}
}

type UploadHandlerDeps struct {
	Security  *config.SecurityConfig
	Verifier  IdentityVerifier
	Limiter   *RateLimiter
	Store     BlobStore
	Prober    DirectoryProber
	Auditor   *Auditor
	Publisher EventPublisher
	Logger    Logger
}

// UploadHandler runs the upload pipeline: method check, authentication, rate
// limiting, validation, naming, storage write and audit.
type UploadHandler struct {
	security  *config.SecurityConfig
	verifier  IdentityVerifier
	limiter   *RateLimiter
	validator *FileValidator
	store     BlobStore
	prober    DirectoryProber
	auditor   *Auditor
	publisher EventPublisher
	logger    Logger
	now       func() time.Time

	tracer  trace.Tracer
	uploads metric.Int64Counter
	bytes   metric.Int64Counter
}

func NewUploadHandler(deps UploadHandlerDeps) *UploadHandler {
	meter := otel.Meter(instrumentationName)
	uploads, _ := meter.Int64Counter("upload.requests",
		metric.WithDescription("Upload requests by outcome"))
	bytes, _ := meter.Int64Counter("upload.bytes",
		metric.WithDescription("Bytes written to the blob store"),
		metric.WithUnit("By"))

	return &UploadHandler{
		security:  deps.Security,
		verifier:  deps.Verifier,
		limiter:   deps.Limiter,
		validator: NewFileValidator(deps.Security),
		store:     deps.Store,
		prober:    deps.Prober,
		auditor:   deps.Auditor,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       time.Now,
		tracer:    otel.Tracer(instrumentationName),
		uploads:   uploads,
		bytes:     bytes,
	}
}

// Handle never returns an error: every failure is mapped to a status code and
// a body that carries no internal detail.
func (h *UploadHandler) Handle(ctx context.Context, req *UploadRequest) (result *UploadResult) {
	ctx, span := h.tracer.Start(ctx, "upload.handle")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			result = h.serverError(ctx, req, fmt.Errorf("panic: %v", rec))
		}
		span.SetAttributes(attribute.Int("http.status_code", result.Status))
		if result.Status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, result.Body.Message)
		}
		h.uploads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(result.Status))))
	}()

	if req.Method != http.MethodPost {
		return failure(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", req.Method))
	}

	principal, authResult := h.authenticate(ctx, req.Authorization)
	if authResult != nil {
		return authResult
	}
	span.SetAttributes(attribute.String("user.id", principal.ID))

	allowed, err := h.limiter.Allow(ctx, req.ClientIP, principal.ID)
	if err != nil {
		return h.serverError(ctx, req, err)
	}
	if !allowed {
		h.auditor.Record(ctx, AuditEvent{
			PrincipalID: principal.ID,
			Action:      entity.AuditRateLimitExceeded,
			Details: map[string]any{
				"endpoint":  uploadResourceID,
				"ip":        req.ClientIP,
				"userAgent": req.UserAgent,
			},
			IPAddress:    req.ClientIP,
			UserAgent:    req.UserAgent,
			ResourceType: entity.ResourceTypeEdgeFunction,
			ResourceID:   uploadResourceID,
		})
		return failure(http.StatusTooManyRequests, "Too many upload requests. Please try again later.")
	}

	file, err := req.ReadFile()
	if errors.Is(err, ErrNoFile) || (err == nil && file == nil) {
		return failure(http.StatusBadRequest, "No file provided")
	}
	if err != nil {
		return h.serverError(ctx, req, fmt.Errorf("failed to read multipart file: %w", err))
	}

	if msg := h.validator.Validate(file); msg != "" {
		h.auditor.Record(ctx, AuditEvent{
			PrincipalID: principal.ID,
			Action:      entity.AuditFileValidationFailed,
			Details: map[string]any{
				"fileName":        file.OriginalFileName,
				"fileSize":        file.SizeBytes,
				"fileType":        file.DeclaredMimeType,
				"validationError": msg,
			},
			IPAddress:    req.ClientIP,
			UserAgent:    req.UserAgent,
			ResourceType: entity.ResourceTypeStorage,
		})
		return failure(http.StatusBadRequest, msg)
	}

	return h.persist(ctx, req, principal, file)
}

func (h *UploadHandler) authenticate(ctx context.Context, header string) (*entity.Principal, *UploadResult) {
	if header == "" {
		return nil, failure(http.StatusUnauthorized, "Missing authorization header")
	}

	principal, err := h.verifier.VerifyToken(ctx, strings.TrimPrefix(header, "Bearer "))
	if err == nil && principal != nil {
		return principal, nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		status := authErr.Status
		if status == 0 {
			status = http.StatusUnauthorized
		}
		message := authErr.Message
		if message == "" {
			message = "Authentication required"
		}
		return nil, failure(status, message)
	}
	if err == nil {
		return nil, failure(http.StatusUnauthorized, "Authentication required")
	}

	h.logger.ErrorWithContextf(ctx, err, "[Upload] Auth verification exception")
	return nil, failure(http.StatusInternalServerError, "Server error during authentication")
}

func (h *UploadHandler) persist(ctx context.Context, req *UploadRequest, principal *entity.Principal, file *entity.UploadCandidate) *UploadResult {
	prefix := UserUploadPrefix(principal.ID)
	path := UploadPath(principal.ID, GenerateSecureFileName(file.OriginalFileName, h.now()))

	if h.prober != nil {
		if err := h.prober.EnsureDirectory(ctx, prefix); err != nil {
			h.logger.ErrorWithContextf(ctx, err, "[Upload] Error checking/creating directory %s", prefix)
		}
	}

	stored, err := h.store.PutObjectIfAbsent(ctx, path, file.Data, file.DeclaredMimeType)
	if err != nil {
		h.logger.ErrorWithContextf(ctx, err, "[Upload] Upload error for %s", path)
		h.auditor.Record(ctx, AuditEvent{
			PrincipalID: principal.ID,
			Action:      entity.AuditFileUploadFailed,
			Details: map[string]any{
				"fileName": file.OriginalFileName,
				"fileSize": file.SizeBytes,
				"fileType": file.DeclaredMimeType,
				"error":    err.Error(),
			},
			IPAddress:    req.ClientIP,
			UserAgent:    req.UserAgent,
			ResourceType: entity.ResourceTypeStorage,
			ResourceID:   path,
		})
		return failure(http.StatusInternalServerError, "Upload failed")
	}

	url := h.store.PublicURL(stored.Path)
	h.bytes.Add(ctx, stored.Size)

	h.auditor.Record(ctx, AuditEvent{
		PrincipalID: principal.ID,
		Action:      entity.AuditFileUploadSuccess,
		Details: map[string]any{
			"fileName": file.OriginalFileName,
			"fileSize": file.SizeBytes,
			"fileType": file.DeclaredMimeType,
			"filePath": stored.Path,
		},
		IPAddress:    req.ClientIP,
		UserAgent:    req.UserAgent,
		ResourceType: entity.ResourceTypeStorage,
		ResourceID:   stored.Path,
	})

	if h.publisher != nil {
		event := entity.ImageUploadedEvent{
			UserID:       principal.ID,
			Path:         stored.Path,
			URL:          url,
			ContentType:  file.DeclaredMimeType,
			Size:         file.SizeBytes,
			OriginalName: file.OriginalFileName,
			Timestamp:    h.now().UnixMilli(),
		}
		if err := h.publisher.PublishImageUploaded(ctx, event); err != nil {
			h.logger.ErrorWithContextf(ctx, err, "[Upload] Failed to publish upload event for %s", stored.Path)
		}
	}

	h.logger.InfoWithContextf(ctx, "[Upload] Stored %s (%d bytes) for user %s", stored.Path, stored.Size, principal.ID)
	return &UploadResult{
		Status: http.StatusOK,
		Body:   UploadResponse{Success: true, Path: stored.Path, URL: url},
	}
}

// serverError logs err, tries to audit it against a freshly resolved identity
// and answers with a generic 500.
func (h *UploadHandler) serverError(ctx context.Context, req *UploadRequest, cause error) *UploadResult {
	h.logger.ErrorWithContextf(ctx, cause, "[Upload] Server error")

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.WarningWithContextf(ctx, "[Upload] Server error audit skipped: %v", rec)
			}
		}()
		if req.Authorization == "" {
			return
		}
		principal, err := h.verifier.VerifyToken(ctx, strings.TrimPrefix(req.Authorization, "Bearer "))
		if err != nil || principal == nil {
			return
		}
		h.auditor.Record(ctx, AuditEvent{
			PrincipalID: principal.ID,
			Action:      entity.AuditServerError,
			Details: map[string]any{
				"endpoint": uploadResourceID,
				"error":    cause.Error(),
			},
			IPAddress:    req.ClientIP,
			UserAgent:    req.UserAgent,
			ResourceType: entity.ResourceTypeEdgeFunction,
			ResourceID:   uploadResourceID,
		})
	}()

	return failure(http.StatusInternalServerError, "Server error")
}

func outcome(status int) string {
	switch {
	case status == http.StatusOK:
		return "stored"
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "unauthenticated"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status >= http.StatusInternalServerError:
		return "error"
	default:
		return "rejected"
	}
}
