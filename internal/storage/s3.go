package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Service hosts image assets in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	region   string
	endpoint string
}

func NewS3Service(client *s3.Client, region, endpoint string) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		region:   region,
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

var extByContentType = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

func (s *S3Service) Upload(ctx context.Context, payload string, opts UploadOptions) (UploadResult, error) {
	if opts.Bucket == "" {
		return UploadResult{}, fmt.Errorf("storage bucket is required")
	}

	data, contentType, err := decodePayload(payload)
	if err != nil {
		return UploadResult{}, fmt.Errorf("decode image payload: %w", err)
	}

	key := uuid.NewString() + extByContentType[contentType]
	if prefix := strings.Trim(opts.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return UploadResult{}, fmt.Errorf("upload object %s: %w", key, err)
	}

	return UploadResult{
		URL: s.objectURL(opts.Bucket, key),
		Key: key,
	}, nil
}

func (s *S3Service) Delete(ctx context.Context, bucket, key string) error {
	if bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("object key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Service) KeyFromURL(rawURL, bucket string) (string, bool) {
	base := s.bucketBaseURL(bucket)
	if base == "" || !strings.HasPrefix(rawURL, base+"/") {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, base+"/")
	if key == "" {
		return "", false
	}
	return key, true
}

func (s *S3Service) objectURL(bucket, key string) string {
	return s.bucketBaseURL(bucket) + "/" + key
}

// bucketBaseURL uses path-style addressing when a custom endpoint is
// configured, virtual-hosted style otherwise.
func (s *S3Service) bucketBaseURL(bucket string) string {
	if bucket == "" {
		return ""
	}
	if s.endpoint != "" {
		return s.endpoint + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, s.region)
}

var _ Service = (*S3Service)(nil)

// decodePayload accepts either a base64 data URI or bare base64 image bytes.
func decodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", fmt.Errorf("payload is empty")
	}

	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		meta := payload[len("data:"):comma]
		payload = payload[comma+1:]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("data URI must be base64 encoded")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("payload is empty")
	}
	return data, contentType, nil
}
