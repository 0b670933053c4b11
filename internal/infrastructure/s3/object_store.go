// Package s3 implements the object store port on top of AWS S3.
package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// ObjectStore stores cover images in a single bucket and serves them
// through presigned GET URLs.
type ObjectStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewObjectStore(client *s3.Client, bucket string) *ObjectStore {
	return &ObjectStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

func (s *ObjectStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (domain.ImageRef, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("put object %s: %w", key, err)
	}
	return domain.ImageRef{Bucket: s.bucket, Key: key}, nil
}

func (s *ObjectStore) PresignGet(ctx context.Context, ref domain.ImageRef, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	return req.URL, nil
}
