package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds settings for the S3-compatible resume bucket.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string

	// Endpoint overrides the AWS endpoint for S3-compatible providers
	// (MinIO, Wasabi); empty means AWS S3.
	Endpoint string
}

// ResumeStore uploads candidate resumes to S3 and hands back the public
// object URL stored on the candidate row.
type ResumeStore struct {
	client *s3.Client
	cfg    Config
}

func NewResumeStore(ctx context.Context, cfg Config) (*ResumeStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // S3-compatible providers require path-style
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &ResumeStore{client: client, cfg: cfg}, nil
}

// IsConfigured reports whether the store has enough configuration to accept
// uploads; unconfigured deployments disable the resume endpoint.
func (s *ResumeStore) IsConfigured() bool {
	return s != nil && s.cfg.Bucket != "" && s.cfg.AccessKeyID != ""
}

// Upload stores the resume under resumes/<candidateID>/ and returns its URL.
func (s *ResumeStore) Upload(ctx context.Context, candidateID int64, filename string, body io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("resumes/%d/%s_%s", candidateID, time.Now().Format("20060102150405"), path.Base(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}

	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.cfg.Endpoint, s.cfg.Bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key), nil
}

// HealthCheck verifies bucket access by listing at most one object.
func (s *ResumeStore) HealthCheck(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.cfg.Bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", s.cfg.Bucket, err)
	}
	return nil
}
