package infra

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/service"
)

type MinioClient struct {
	Client    *minio.Client
	Endpoint  string
	Bucket    string
	publicURL string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	if rootUser == "" {
		panic("MinIO root user is not configured")
	}

	rootPassword := cfg.Minio.RootPassword
	if rootPassword == "" {
		panic("MinIO root password is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	client := &MinioClient{
		Client:    minioClient,
		Endpoint:  endpoint,
		Bucket:    cfg.Storage.Bucket,
		publicURL: cfg.Storage.PublicURL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		panic(fmt.Sprintf("Failed to prepare MinIO bucket %s: %v", client.Bucket, err))
	}

	log.Println("Connected to MinIO:", endpoint+" bucket "+client.Bucket)

	return client
}

// EnsureBucket creates the bucket if it doesn't exist
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// PutObjectIfAbsent refuses to replace an existing key. The stat and the put
// are two calls, so two writers racing on one key can both pass the check;
// generated upload paths make that practically impossible.
func (m *MinioClient) PutObjectIfAbsent(ctx context.Context, path string, data []byte, contentType string) (*entity.StoredObject, error) {
	_, err := m.Client.StatObject(ctx, m.Bucket, path, minio.StatObjectOptions{})
	if err == nil {
		return nil, fmt.Errorf("object %s: %w", path, service.ErrObjectExists)
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	info, err := m.Client.PutObject(ctx, m.Bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: objectCacheControl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	return &entity.StoredObject{
		Path:        info.Key,
		ContentType: contentType,
		Size:        info.Size,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (m *MinioClient) PublicURL(path string) string {
	return publicObjectURL(m.publicURL, m.Bucket, path)
}

// EnsureDirectory writes an empty marker under prefix when nothing is stored there yet.
func (m *MinioClient) EnsureDirectory(ctx context.Context, prefix string) error {
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range m.Client.ListObjects(listCtx, m.Bucket, minio.ListObjectsOptions{
		Prefix:  strings.TrimRight(prefix, "/") + "/",
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return fmt.Errorf("failed to list %s: %w", prefix, object.Err)
		}
		return nil
	}

	_, err := m.Client.PutObject(ctx, m.Bucket, directoryMarkerPath(prefix), bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType: directoryMarkerType,
	})
	if err != nil {
		return fmt.Errorf("failed to create directory marker: %w", err)
	}
	return nil
}

func (m *MinioClient) ListObjects(ctx context.Context, prefix string, limit int) ([]entity.StoredObject, error) {
	var objects []entity.StoredObject
	for object := range m.Client.ListObjects(ctx, m.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		objects = append(objects, entity.StoredObject{
			Path:        object.Key,
			ContentType: object.ContentType,
			Size:        object.Size,
			CreatedAt:   object.LastModified,
		})
	}
	return newestFirst(objects, limit), nil
}

func (m *MinioClient) Ping(ctx context.Context) error {
	_, err := m.Client.BucketExists(ctx, m.Bucket)
	return err
}
