package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const defaultContentType = "application/octet-stream"

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	// Prefix is prepended to every key, e.g. the export directory.
	Prefix string
}

// NewDriverS3 talks to AWS S3, or to any S3 compatible endpoint (R2, minio)
// when Endpoint is set. Objects are stored with a content type guessed from
// their extension, so exports are served as application/json.
func NewDriverS3(s3Config S3Config) (Driver, error) {
	if s3Config.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	options := s3.Options{
		Region: s3Config.Region,
		Credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     s3Config.AccessKeyID,
				SecretAccessKey: s3Config.AccessKeySecret,
			}, nil
		}),
	}

	if s3Config.Endpoint != "" {
		options.BaseEndpoint = aws.String(s3Config.Endpoint)
		options.UsePathStyle = true
		if options.Region == "" {
			options.Region = "auto"
		}
	}

	return &driverS3{
		client: s3.New(options),
		bucket: s3Config.Bucket,
		prefix: strings.Trim(s3Config.Prefix, "/"),
	}, nil
}

type driverS3 struct {
	client *s3.Client
	bucket string
	prefix string
}

func (driver *driverS3) key(filePath string) *string {
	return aws.String(path.Join(driver.prefix, strings.TrimPrefix(filePath, "/")))
}

func contentType(filePath string) string {
	if detected := mime.TypeByExtension(path.Ext(filePath)); detected != "" {
		return detected
	}

	return defaultContentType
}

func (driver *driverS3) Get(ctx context.Context, filePath string) (io.Reader, error) {
	result, err := driver.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    driver.key(filePath),
	})
	if err != nil {
		return nil, err
	}

	return result.Body, nil
}

func (driver *driverS3) Put(ctx context.Context, filePath string, payload io.Reader) error {
	_, err := driver.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(driver.bucket),
		Key:         driver.key(filePath),
		Body:        payload,
		ContentType: aws.String(contentType(filePath)),
	})

	return err
}

func (driver *driverS3) Delete(ctx context.Context, filePath string) error {
	_, err := driver.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    driver.key(filePath),
	})

	return err
}

func (driver *driverS3) IsReady(ctx context.Context) error {
	_, err := driver.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(driver.bucket),
	})

	return err
}

func (driver *driverS3) Exists(ctx context.Context, filePath string) (bool, error) {
	if _, err := driver.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    driver.key(filePath),
	}); err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
