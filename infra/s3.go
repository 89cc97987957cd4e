package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/service"
)

// S3Client stores uploads in any S3-compatible bucket. Writes carry
// If-None-Match: * so the store itself rejects overwrites.
type S3Client struct {
	Client    *s3.Client
	Bucket    string
	publicURL string
}

func InitS3Client(cfg *config.EnvConfig) *S3Client {
	if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" {
		panic("S3 credentials are not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
			"",
		)),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to load S3 config: %v", err))
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.Storage.PublicURL
	if publicURL == "" {
		publicURL = cfg.S3.Endpoint
	}

	log.Println("Using S3 bucket:", cfg.Storage.Bucket+" in "+cfg.S3.Region)

	return &S3Client{
		Client:    client,
		Bucket:    cfg.Storage.Bucket,
		publicURL: publicURL,
	}
}

func (s *S3Client) PutObjectIfAbsent(ctx context.Context, path string, data []byte, contentType string) (*entity.StoredObject, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(objectCacheControl),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailure(err) {
			return nil, fmt.Errorf("object %s: %w", path, service.ErrObjectExists)
		}
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	return &entity.StoredObject{
		Path:        path,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func isPreconditionFailure(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}

func (s *S3Client) PublicURL(path string) string {
	return publicObjectURL(s.publicURL, s.Bucket, path)
}

func (s *S3Client) EnsureDirectory(ctx context.Context, prefix string) error {
	out, err := s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.Bucket),
		Prefix:  aws.String(strings.TrimRight(prefix, "/") + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	if aws.ToInt32(out.KeyCount) > 0 {
		return nil
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(directoryMarkerPath(prefix)),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
		ContentType:   aws.String(directoryMarkerType),
	})
	if err != nil {
		return fmt.Errorf("failed to create directory marker: %w", err)
	}
	return nil
}

func (s *S3Client) ListObjects(ctx context.Context, prefix string, limit int) ([]entity.StoredObject, error) {
	var objects []entity.StoredObject

	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, entity.StoredObject{
				Path:      aws.ToString(obj.Key),
				Size:      aws.ToInt64(obj.Size),
				CreatedAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	return newestFirst(objects, limit), nil
}

func (s *S3Client) Ping(ctx context.Context) error {
	_, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.Bucket)})
	return err
}
