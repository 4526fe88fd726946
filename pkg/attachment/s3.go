package attachment

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config carries the blob storage connection settings.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3ConfigFromEnv reads the VAULT_S3_* variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Bucket:    os.Getenv("VAULT_S3_BUCKET"),
		Region:    os.Getenv("VAULT_S3_REGION"),
		Endpoint:  os.Getenv("VAULT_S3_ENDPOINT"),
		AccessKey: os.Getenv("VAULT_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("VAULT_S3_SECRET_KEY"),
	}
}

// S3Resolver presigns transfer URLs against an S3-compatible bucket.
type S3Resolver struct {
	bucket  string
	presign *s3.PresignClient
}

// NewS3Resolver builds a presigning client for the configured bucket.
// A custom Endpoint supports MinIO and other S3-compatible stores.
func NewS3Resolver(ctx context.Context, conf S3Config) (*S3Resolver, error) {
	if conf.Bucket == "" {
		return nil, fmt.Errorf("attachment storage bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if conf.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Resolver{bucket: conf.Bucket, presign: s3.NewPresignClient(client)}, nil
}

func (r *S3Resolver) UploadURL(ctx context.Context, storageKey string, expires time.Duration) (string, error) {
	req, err := r.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("unable to presign upload: %w", err)
	}
	return req.URL, nil
}

func (r *S3Resolver) DownloadURL(ctx context.Context, storageKey string, expires time.Duration) (string, error) {
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("unable to presign download: %w", err)
	}
	return req.URL, nil
}
