// Package storage keeps coach photos in MinIO (S3 compatible) object storage.
package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MinIOStore implements coach.PhotoStore.
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	basePath  string
	publicURL string
}

// Verify interface implementation at compile time.
var _ coach.PhotoStore = (*MinIOStore)(nil)

// NewMinIOStore creates the client and makes sure the bucket exists.
func NewMinIOStore(ctx context.Context, cfg *config.StorageConfig) (*MinIOStore, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.UseSSL && cfg.InsecureSkipVerify {
		opts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // opted in for self-signed certs
			},
		}
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStore{
		client:    client,
		bucket:    cfg.Bucket,
		basePath:  strings.Trim(cfg.BasePath, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
	if s.publicURL == "" {
		s.publicURL = client.EndpointURL().String()
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	log.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Bool("ssl", cfg.UseSSL).
		Msg("MinIO photo storage initialized")
	return s, nil
}

// ensureBucket creates the bucket with a public read policy when missing.
func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, s.bucket)
	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		log.Warn().Err(err).Str("bucket", s.bucket).Msg("Failed to set public read policy on bucket")
	}
	return nil
}

// UploadCoachPhoto stores the picture as {basePath}/coaches/{id}/{uuid}{ext}
// and returns its public URL.
func (s *MinIOStore) UploadCoachPhoto(ctx context.Context, coachID int64, r io.Reader, size int64, contentType string) (string, error) {
	name := s.objectName(coachID, contentType)
	if _, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("failed to upload coach photo: %w", err)
	}

	url := s.objectURL(name)
	log.Debug().Int64("coach_id", coachID).Str("object", name).Msg("Coach photo uploaded")
	return url, nil
}

// DeleteObject removes the object a URL returned by UploadCoachPhoto points at.
func (s *MinIOStore) DeleteObject(ctx context.Context, url string) error {
	key := s.objectKey(url)
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *MinIOStore) objectName(coachID int64, contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		ext = ".jpg"
	}
	name := fmt.Sprintf("coaches/%d/%s%s", coachID, uuid.NewString(), ext)
	if s.basePath != "" {
		name = s.basePath + "/" + name
	}
	return name
}

func (s *MinIOStore) objectURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, name)
}

// objectKey extracts the key following the bucket segment of url.
func (s *MinIOStore) objectKey(url string) string {
	if url == "" {
		return ""
	}
	prefix := "/" + s.bucket + "/"
	if idx := strings.Index(url, prefix); idx >= 0 {
		return url[idx+len(prefix):]
	}
	if s.basePath != "" {
		if idx := strings.Index(url, s.basePath+"/"); idx >= 0 {
			return url[idx:]
		}
	}
	return url
}
