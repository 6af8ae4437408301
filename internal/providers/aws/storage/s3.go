// Package storage copies rendered reports to S3.
package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
)

// PDFContentType is set on every uploaded report object.
const PDFContentType = "application/pdf"

// Uploader copies a local file to object storage.
type Uploader interface {
	// UploadFile uploads the file at path to bucket/key, replacing any
	// existing object. It blocks until S3 acknowledges the write.
	UploadFile(ctx context.Context, path, bucket, key string) error
}

// S3Uploader is the production Uploader.
type S3Uploader struct {
	client common.S3Client
}

// NewS3Uploader returns an uploader backed by client.
func NewS3Uploader(client common.S3Client) *S3Uploader {
	return &S3Uploader{client: client}
}

// UploadFile implements Uploader. The object body is streamed from disk.
func (u *S3Uploader) UploadFile(ctx context.Context, path, bucket, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	_, err = u.client.PutObject(ctx, &s3svc.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(PDFContentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// CheckBucket reports whether bucket exists and the caller may access it.
func (u *S3Uploader) CheckBucket(ctx context.Context, bucket string) error {
	_, err := u.client.HeadBucket(ctx, &s3svc.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", bucket, err)
	}
	return nil
}
