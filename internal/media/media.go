// Package media talks to the external media host. Posts store only the
// canonical URL the host returns; deletion takes the asset id derived back
// out of that URL.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Service uploads image payloads and deletes stored assets
type Service interface {
	Upload(ctx context.Context, payload string) (string, error)
	Delete(ctx context.Context, assetID string) error
}

// MinioService implements Service on top of a MinIO (S3-compatible) bucket
type MinioService struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// Config holds the connection settings for the media host
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string // public base URL assets are served from
	UseSSL    bool
}

// NewMinioService creates a media service backed by a MinIO bucket
func NewMinioService(cfg Config) (*MinioService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to media host: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}

	return &MinioService{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload stores an image payload (data URI or bare base64) under a fresh
// object name and returns the canonical URL to keep in the post document.
func (s *MinioService) Upload(ctx context.Context, payload string) (string, error) {
	data, contentType, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	objectName := uuid.New().String() + extensionFor(contentType)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.baseURL + "/" + s.bucket + "/" + objectName, nil
}

// Delete removes a stored asset by id (the object name)
func (s *MinioService) Delete(ctx context.Context, assetID string) error {
	return s.client.RemoveObject(ctx, s.bucket, assetID, minio.RemoveObjectOptions{})
}

// AssetIDFromURL derives the asset id (object name) from a canonical media URL
func AssetIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

// decodePayload accepts either a data URI ("data:image/png;base64,...") or a
// bare base64 string and returns the raw bytes and content type.
func decodePayload(payload string) ([]byte, string, error) {
	contentType := "application/octet-stream"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(strings.TrimPrefix(payload, "data:"), ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		if ct, _, _ := strings.Cut(meta, ";"); ct != "" {
			contentType = ct
		}
		encoded = rest
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
