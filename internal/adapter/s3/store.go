package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kottageio/kottage/internal/domain"
)

// Compile-time check: ObjectStore implements domain.ObjectStore.
var _ domain.ObjectStore = (*ObjectStore)(nil)

// ObjectStore implements domain.ObjectStore on top of an S3 bucket.
// Uploads at an existing key replace the blob; there is no dedup.
type ObjectStore struct {
	client        *awss3.Client
	bucket        string
	publicBaseURL string
}

// New creates an object store writing to the given bucket. publicBaseURL is
// the prefix under which uploaded keys resolve publicly (a CDN or the
// bucket's website endpoint).
func New(client *awss3.Client, bucket, publicBaseURL string) *ObjectStore {
	return &ObjectStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload writes the blob at key and returns its public URL.
func (s *ObjectStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}
