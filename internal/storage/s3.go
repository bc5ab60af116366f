package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	// Objects at or above this size go through the multipart uploader.
	multipartThreshold   = 64 * 1024 * 1024
	multipartPartSize    = 16 * 1024 * 1024
	multipartConcurrency = 4
)

// S3Backend stores objects in an S3 or MinIO bucket.
type S3Backend struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	logger   *slog.Logger
}

// S3Config holds S3 settings. Empty keys fall back to AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY, then to the default credential chain.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // e.g. "http://localhost:9000" for MinIO
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// NewS3Backend creates an S3 backend. A bucket that cannot be verified is
// logged, not treated as fatal.
func NewS3Backend(cfg S3Config, logger *slog.Logger) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "s3-storage")

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}

	accessKey, secretKey := cfg.AccessKey, cfg.SecretKey
	if accessKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if secretKey == "" {
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
		log.Info("using static credentials")
	} else {
		log.Info("using default credential chain")
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(endpoint) })
		log.Info("using custom endpoint", "endpoint", endpoint)
	}
	if cfg.PathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = multipartPartSize
		u.Concurrency = multipartConcurrency
	})

	b := &S3Backend{client: client, uploader: uploader, bucket: cfg.Bucket, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		log.Warn("could not verify bucket exists", "bucket", cfg.Bucket, "error", err)
	} else {
		log.Info("connected to S3 bucket", "bucket", cfg.Bucket)
	}
	return b, nil
}

// Write stores data with PutObject, or the multipart uploader for large
// objects.
func (b *S3Backend) Write(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeOf(key)),
	}

	var err error
	multipart := len(data) >= multipartThreshold
	if multipart {
		_, err = b.uploader.Upload(ctx, input)
	} else {
		input.ContentLength = aws.Int64(int64(len(data)))
		_, err = b.client.PutObject(ctx, input)
	}
	if err != nil {
		b.logger.Error("failed to write object", "path", key, "size", len(data), "error", err)
		return fmt.Errorf("failed to write to S3: %w", err)
	}

	b.logger.Debug("wrote object", "path", key, "size", len(data), "multipart", multipart, "duration", time.Since(start))
	return nil
}

// Read downloads the object at key.
func (b *S3Backend) Read(ctx context.Context, key string) ([]byte, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

// List pages through the objects under prefix.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the object at key. S3 reports success for missing keys.
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	b.logger.Debug("deleted object", "path", key)
	return nil
}

// Exists issues a HeadObject for key.
func (b *S3Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check S3 object existence: %w", err)
	}
	return true, nil
}

// Close is a no-op.
func (b *S3Backend) Close() error {
	b.logger.Info("S3 backend closed")
	return nil
}

// Type returns "s3".
func (b *S3Backend) Type() string { return "s3" }

// Bucket returns the bucket name.
func (b *S3Backend) Bucket() string { return b.bucket }

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "NoSuchKey") || strings.Contains(s, "NotFound")
}
