package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/logging"
)

type S3BlobStoreImpl struct {
	client     *s3.Client
	bucketName string

	logger logging.Logger
}

var _ BlobStore = (*S3BlobStoreImpl)(nil)

func NewS3BlobStoreImpl(client *s3.Client, bucketName string, l logging.Logger) *S3BlobStoreImpl {
	return &S3BlobStoreImpl{
		client:     client,
		bucketName: bucketName,
		logger:     l,
	}
}

func (s *S3BlobStoreImpl) IsReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	return err
}

func (s *S3BlobStoreImpl) Name() string {
	return "BlobStore[s3]"
}

// Put streams body to the given key. The body is never buffered in memory;
// size is the declared content length.
func (s *S3BlobStoreImpl) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if len(metadata) > 0 {
		input.Metadata = metadata
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		s.logger.Error("failed to put object", "key", key, "error", err)
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.logger.Debug("stored object", "key", key, "size", size, "content_type", contentType)
	return nil
}

func (s *S3BlobStoreImpl) Get(ctx context.Context, key string) (*Object, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NoSuchKey", "NotFound":
				s.logger.Debug("object does not exist", "key", key)
				return nil, apperror.ErrBlobNotFound
			}
		}
		s.logger.Error("failed to get object", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	obj := &Object{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Metadata:    out.Metadata,
	}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	return obj, nil
}
