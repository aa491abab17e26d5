// Package storage wraps the S3-compatible object store that holds picture
// binaries, and runs the asynchronous cleanup of orphaned assets.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	sc "github.com/verkhov/picvault/internal/server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// presignExpiry bounds how long generated asset links stay valid.
const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ObjectStore is the S3-backed asset store the picture API delegates binary
// lifecycle to.
type ObjectStore struct {
	config *sc.Config
}

func NewObjectStore(config *sc.Config) *ObjectStore {
	return &ObjectStore{config: config}
}

// RandomStorageKey produces a fresh object key partitioned by date.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("pictures/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (o *ObjectStore) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.config.S3RootUser,
			o.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		opts.BaseEndpoint = aws.String(o.config.S3BaseEndpoint)
		opts.UsePathStyle = true
	}), nil
}

// Upload stores the object body under key.
func (o *ObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	client, err := o.client(ctx)
	if err != nil {
		return err
	}

	bucket := o.config.S3Bucket

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	return err
}

// PresignGetURL returns a time-limited download link for the object.
func (o *ObjectStore) PresignGetURL(ctx context.Context, key string) (string, error) {
	client, err := o.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := o.config.S3Bucket

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Delete removes the object under key.
func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	client, err := o.client(ctx)
	if err != nil {
		return err
	}

	bucket := o.config.S3Bucket

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	return err
}
