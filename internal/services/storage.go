package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/config"
)

var ErrFileNotFound = errors.New("file not found")

// StorageService keeps uploaded originals. Keys are flat file names.
type StorageService interface {
	Save(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewStorageKey builds a unique key that keeps the original extension.
func NewStorageKey(fileType, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
}

func NewStorageService(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (StorageService, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3Storage(ctx, cfg.S3, log)
	default:
		return NewLocalStorage(cfg.UploadPath)
	}
}

type localStorage struct {
	uploadPath string
}

func NewLocalStorage(uploadPath string) (StorageService, error) {
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{uploadPath: uploadPath}, nil
}

func (s *localStorage) path(key string) string {
	return filepath.Join(s.uploadPath, filepath.Base(key))
}

func (s *localStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (s *localStorage) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *localStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type s3Storage struct {
	client *s3.Client
	bucket string
	log    *zap.Logger
}

// NewS3Storage connects to S3 or any S3-compatible endpoint (R2, MinIO). Static
// keys are used when both are set, otherwise the default AWS credential chain.
func NewS3Storage(ctx context.Context, cfg config.S3Config, log *zap.Logger) (StorageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info("🪣 Using S3 storage", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))

	return &s3Storage{client: client, bucket: cfg.Bucket, log: log}, nil
}

func (s *s3Storage) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (s *s3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
