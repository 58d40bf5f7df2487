// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/javajoker/inventory-admin/internal/config"
	"github.com/javajoker/inventory-admin/internal/models"
)

// StorageService writes objects to S3, or to a local directory when no AWS
// credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	aws      config.AWSConfig
	local    config.StorageConfig
}

type UploadResult struct {
	URL      string      `json:"url"`
	Key      string      `json:"key"`
	Disk     models.Disk `json:"disk"`
	Size     int64       `json:"size"`
	MimeType string      `json:"mime_type"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{aws: cfg.AWS, local: cfg.Storage}

	if cfg.AWS.AccessKeyID == "" {
		// Local disk for development
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

// Disk reports where new objects are written.
func (s *StorageService) Disk() models.Disk {
	if s.s3Client != nil {
		return models.DiskS3
	}
	return models.DiskLocal
}

func (s *StorageService) Put(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if s.s3Client != nil {
		return s.putS3(ctx, key, data, contentType)
	}
	return s.putLocal(key, data, contentType)
}

func (s *StorageService) putS3(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.URL(models.DiskS3, key),
		Key:      key,
		Disk:     models.DiskS3,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) putLocal(key string, data []byte, contentType string) (*UploadResult, error) {
	path, err := s.localPath(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      s.URL(models.DiskLocal, key),
		Key:      key,
		Disk:     models.DiskLocal,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

// Delete removes an object from the disk it was written to. Missing objects are not an error.
func (s *StorageService) Delete(ctx context.Context, disk models.Disk, key string) error {
	if disk == models.DiskS3 {
		if s.s3Client == nil {
			return fmt.Errorf("S3 client not configured")
		}
		_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.aws.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete file from S3: %w", err)
		}
		return nil
	}

	path, err := s.localPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *StorageService) URL(disk models.Disk, key string) string {
	if disk == models.DiskS3 {
		if s.aws.CloudFrontURL != "" {
			return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.aws.S3Bucket, s.aws.Region, key)
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.local.PublicURL, "/"), key)
}

// GenerateKey builds a unique object key under folder, keeping the extension.
func (s *StorageService) GenerateKey(folder, ext string) string {
	id := uuid.New()
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}
	return filename
}

func (s *StorageService) localPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.local.LocalPath, clean), nil
}
