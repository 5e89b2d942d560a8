package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/cookbook-app/backend/config"
)

// decodeImagePayload accepts either a bare base64 string or a data URI
// ("data:image/png;base64,...") and returns the raw bytes plus a file
// extension.
func decodeImagePayload(encoded string) ([]byte, string, error) {
	ext := "png"
	if strings.HasPrefix(encoded, "data:") {
		header, body, found := strings.Cut(encoded, ",")
		if !found {
			return nil, "", invalid("invalid image payload")
		}
		if mediaType, ok := strings.CutPrefix(header, "data:image/"); ok {
			ext = strings.TrimSuffix(mediaType, ";base64")
		}
		encoded = body
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", invalid("invalid image payload")
	}
	if len(data) == 0 {
		return nil, "", invalid("invalid image payload")
	}
	return data, ext, nil
}

// S3ImageStore uploads decoded recipe images to S3 and hands back the
// public object URL.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Store implements ImageStore.
func (s *S3ImageStore) Store(ctx context.Context, encoded string) (string, error) {
	data, ext, err := decodeImagePayload(encoded)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageStore] uploaded recipe image to %s", publicURL)
	return publicURL, nil
}

// LocalImageStore writes decoded images under a media directory. It is
// the fallback when no S3 credentials are configured.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: baseURL}
}

// Store implements ImageStore.
func (s *LocalImageStore) Store(ctx context.Context, encoded string) (string, error) {
	data, ext, err := decodeImagePayload(encoded)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(s.dir, "recipe-images"), 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	path := filepath.Join(s.dir, "recipe-images", name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/recipe-images/%s", strings.TrimRight(s.baseURL, "/"), name), nil
}
