package services

import (
	"aidirectory-backend/config"
	"aidirectory-backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageUploader stores a local file and returns its public URL.
type ImageUploader interface {
	UploadFile(localPath string) (string, error)
}

// STSClientManager uploads files to OSS with temporary STS credentials.
type STSClientManager struct {
	config *config.Config
}

func NewSTSClientManager(cfg *config.Config) *STSClientManager {
	return &STSClientManager{config: cfg}
}

const multipartThreshold = 100 * 1024 * 1024

// UploadFile uploads localPath under content/images/. A failed upload is retried
// once with fresh credentials.
func (m *STSClientManager) UploadFile(localPath string) (string, error) {
	if !m.config.OSSEnabled() {
		return "", ErrUploadsDisabled
	}

	fileInfo, err := os.Stat(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	objectKey := objectKeyFor(localPath, time.Now())

	uploadErr := m.put(objectKey, localPath, fileInfo.Size())
	if uploadErr != nil {
		logger.Log.Warn("Upload failed, retrying once", zap.String("file", localPath), zap.Error(uploadErr))
		uploadErr = m.put(objectKey, localPath, fileInfo.Size())
	}
	if uploadErr != nil {
		return "", fmt.Errorf("upload failed after retry: %w", uploadErr)
	}

	return publicURL(m.config.OSSEndpoint, m.config.OSSBucketName, objectKey), nil
}

func (m *STSClientManager) put(objectKey, localPath string, size int64) error {
	creds, err := GetOSSTSToken()
	if err != nil {
		return fmt.Errorf("failed to get STS token: %w", err)
	}

	client, err := oss.New(
		m.config.OSSEndpoint,
		creds.AccessKeyId,
		creds.AccessKeySecret,
		oss.SecurityToken(creds.SecurityToken),
		oss.Timeout(60, 120),
	)
	if err != nil {
		return fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(m.config.OSSBucketName)
	if err != nil {
		return fmt.Errorf("failed to get bucket: %w", err)
	}

	if size > multipartThreshold {
		return bucket.UploadFile(objectKey, localPath, 1024*1024, oss.Routines(3), oss.Checkpoint(true, ""))
	}
	return bucket.PutObjectFromFile(objectKey, localPath)
}

// objectKeyFor builds content/images/<year>/<month>/<uuid><ext>.
func objectKeyFor(localPath string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("content/images/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)
}

func publicURL(endpoint, bucket, objectKey string) string {
	scheme := "https"
	host := endpoint
	if s, h, ok := strings.Cut(endpoint, "://"); ok {
		scheme, host = s, h
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, bucket, strings.TrimSuffix(host, "/"), objectKey)
}
