package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the image store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore archives scanned images and returns their public URL.
type S3ImageStore struct {
	client S3API
	bucket string
	cdnURL string
}

func NewS3ImageStore(client S3API, bucket, cdnURL string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, cdnURL: strings.TrimRight(cdnURL, "/")}
}

// NewS3ImageStoreFromEnv loads the default AWS config for region.
func NewS3ImageStoreFromEnv(ctx context.Context, region, bucket, cdnURL string) (*S3ImageStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}
	return NewS3ImageStore(s3.NewFromConfig(cfg), bucket, cdnURL), nil
}

// PutImage uploads data under scans/<name><ext>.
func (s *S3ImageStore) PutImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("scans/%s%s", name, ImageExtension(contentType))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if s.cdnURL == "" {
		return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s", s.cdnURL, key), nil
}

// ImageExtension picks a file extension for an image content type.
func ImageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	// fallback: use subtype
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		return "." + parts[1]
	}
	return ""
}

// DecodeDataURI splits a "data:<mime>;base64,<data>" URI, as produced by a
// browser camera capture, into its content type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	meta, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("invalid data URI")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return contentType, raw, nil
}
