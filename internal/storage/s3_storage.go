package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/pkg/logger"
)

const defaultPresignExpiry = 30 * time.Minute

type S3Storage struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	region    string
	baseURL   string
	keyPrefix string
	expiry    time.Duration
}

// NewS3Storage builds a presigning client. Static keys are used when both are
// set; otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, cfg config.S3Config, keyPrefix string, expiry time.Duration) (*S3Storage, error) {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyPrefix: strings.Trim(keyPrefix, "/"),
		expiry:    expiry,
	}, nil
}

// PrepareUpload returns a presigned PUT URL for a new object under the key prefix
func (s *S3Storage) PrepareUpload(ctx context.Context, filename, contentType, _ string) (*UploadInfo, error) {
	name, err := uniqueName(filename)
	if err != nil {
		return nil, err
	}
	key := name
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + name
	}

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	logger.Debug("Presigned upload URL generated", logger.Fields{
		"key":    key,
		"expiry": s.expiry.String(),
	})

	return &UploadInfo{
		Strategy:  StrategyS3,
		UploadURL: req.URL,
		ImageURL:  s.objectURL(key),
		Key:       key,
	}, nil
}

func (s *S3Storage) objectURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
