// internal/services/storage_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/utils"
)

// StorageService hosts metadata documents. Metadata hosting itself is an
// external concern; this service only implements the upload boundary so the
// administrator can mint against URIs and integrity hashes produced here.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type MetadataUploadResult struct {
	URI  string `json:"uri"`
	Key  string `json:"key"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadMetadataDocument stores a metadata JSON document and returns its URI
// together with the 0x-prefixed sha256 used as the integrity hash in the
// unified token metadata record. The document must be valid JSON.
func (s *StorageService) UploadMetadataDocument(document []byte, kind string) (*MetadataUploadResult, error) {
	if !json.Valid(document) {
		return nil, fmt.Errorf("metadata document is not valid JSON")
	}

	key := s.generateKey(kind)
	hash := utils.MetadataHash(document)

	if s.s3Client != nil {
		uri, err := s.uploadToS3(document, key)
		if err != nil {
			return nil, err
		}
		return &MetadataUploadResult{
			URI:  uri,
			Key:  key,
			Hash: hash,
			Size: int64(len(document)),
		}, nil
	}

	uri, err := s.uploadToLocal(document, key)
	if err != nil {
		return nil, err
	}
	return &MetadataUploadResult{
		URI:  uri,
		Key:  key,
		Hash: hash,
		Size: int64(len(document)),
	}, nil
}

func (s *StorageService) uploadToS3(document []byte, key string) (string, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(document),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(document))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return "", fmt.Errorf("failed to upload metadata to S3: %w", err)
	}

	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key), nil
}

func (s *StorageService) uploadToLocal(document []byte, key string) (string, error) {
	localPath := filepath.Join("./uploads", key)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(localPath, document, 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}
	return "/uploads/" + key, nil
}

func (s *StorageService) generateKey(kind string) string {
	if kind == "" {
		kind = "token"
	}
	return fmt.Sprintf("metadata/%s/%d-%s.json", kind, time.Now().Unix(), uuid.New().String())
}
