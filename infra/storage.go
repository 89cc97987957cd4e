package infra

import (
	"context"
	"sort"
	"strings"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
)

const (
	objectCacheControl  = "max-age=3600"
	directoryMarkerName = ".directory"
	directoryMarkerType = "application/x-directory"
)

// ObjectStorage is the blob store surface the upload and gallery flows need.
type ObjectStorage interface {
	PutObjectIfAbsent(ctx context.Context, path string, data []byte, contentType string) (*entity.StoredObject, error)
	PublicURL(path string) string
	EnsureDirectory(ctx context.Context, prefix string) error
	ListObjects(ctx context.Context, prefix string, limit int) ([]entity.StoredObject, error)
	Ping(ctx context.Context) error
}

func InitObjectStorage(cfg *config.EnvConfig) ObjectStorage {
	switch cfg.Storage.Backend {
	case "s3":
		return InitS3Client(cfg)
	default:
		return InitMinioClient(cfg)
	}
}

func publicObjectURL(base, bucket, path string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}

func directoryMarkerPath(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/" + directoryMarkerName
}

// newestFirst sorts objects by creation time, newest first, and keeps at most limit.
func newestFirst(objects []entity.StoredObject, limit int) []entity.StoredObject {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].CreatedAt.After(objects[j].CreatedAt)
	})
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}
	return objects
}
