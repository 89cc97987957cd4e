package service

import (
	"context"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/entity"
)

// IdentityVerifier resolves a bearer token to a principal. Rejections are
// reported as *AuthError.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entity.Principal, error)
}

// BlobStore writes objects without ever overwriting an existing path.
type BlobStore interface {
	PutObjectIfAbsent(ctx context.Context, path string, data []byte, contentType string) (*entity.StoredObject, error)
	PublicURL(path string) string
}

// DirectoryProber makes sure a per-user prefix exists before the first write.
type DirectoryProber interface {
	EnsureDirectory(ctx context.Context, prefix string) error
}

// ObjectLister lists stored objects under a prefix.
type ObjectLister interface {
	ListObjects(ctx context.Context, prefix string, limit int) ([]entity.StoredObject, error)
}

// RateCounterStore keeps the timestamp list of a sliding window per key.
type RateCounterStore interface {
	GetTimestamps(ctx context.Context, key string) ([]int64, error)
	SetTimestamps(ctx context.Context, key string, timestamps []int64, ttl time.Duration) error
}

type AuditSink interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}

type EventPublisher interface {
	PublishImageUploaded(ctx context.Context, event entity.ImageUploadedEvent) error
}

// Logger is the side channel for failures that must never reach the caller.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}
