package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const (
	uploadExpiry   = 10 * time.Minute
	downloadExpiry = 5 * time.Minute
)

var (
	ErrInvalidKey = errors.New("invalid key")

	// ErrPartTooSmall maps S3's EntityTooSmall rejection of a completion where a
	// non-final part is below the store's minimum part size.
	ErrPartTooSmall = errors.New("part below minimum size")
)

type S3Store struct {
	s3Client    *s3.Client
	s3Presigner *s3.PresignClient
	config      *Config
}

func NewS3Store(s3Client *s3.Client, cfg *Config) *S3Store {
	return &S3Store{
		s3Client:    s3Client,
		s3Presigner: s3.NewPresignClient(s3Client),
		config:      cfg,
	}
}

func NewS3StoreWithConfig(cfg *Config) (*S3Store, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          200,
			MaxIdleConnsPerHost:   100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	awsClient := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.UseAccelerate {
			o.UseAccelerate = true
		}
	})

	return NewS3Store(awsClient, cfg), nil
}

// ===================================================================================================

func (s *S3Store) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResult, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	input := &s3.PutObjectInput{
		Bucket:        &s.config.BucketName,
		Key:           &params.Key,
		Body:          params.Body,
		ContentLength: aws.Int64(params.Size),
	}
	if params.ContentType != "" {
		input.ContentType = &params.ContentType
	}

	resp, err := s.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, err
	}

	// s3.PutObjectOutput does not carry LastModified
	return &PutObjectResult{
		Key:          params.Key,
		Size:         params.Size,
		ETag:         trimETag(aws.ToString(resp.ETag)),
		LastModified: time.Now().UTC(),
	}, nil
}

// ===================================================================================================

func (s *S3Store) CreateMultipart(ctx context.Context, key string) (string, error) {
	if !ValidateKey(key) {
		return "", ErrInvalidKey
	}

	result, err := s.s3Client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(result.UploadId), nil
}

func (s *S3Store) UploadPart(ctx context.Context, params *UploadPartParams) (string, error) {
	resp, err := s.s3Client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        &s.config.BucketName,
		Key:           &params.Key,
		UploadId:      &params.UploadID,
		PartNumber:    aws.Int32(params.PartNumber),
		Body:          params.Body,
		ContentLength: aws.Int64(params.Size),
	})
	if err != nil {
		return "", err
	}

	return trimETag(aws.ToString(resp.ETag)), nil
}

func (s *S3Store) PresignPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = uploadExpiry
	}

	url, err := s.s3Presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     &s.config.BucketName,
		Key:        &key,
		UploadId:   &uploadID,
		PartNumber: aws.Int32(partNumber),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", err
	}
	return url.URL, nil
}

func (s *S3Store) CompleteMultipart(ctx context.Context, params *CompleteMultipartParams) (*PutObjectResult, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	completedParts := make([]types.CompletedPart, len(params.Parts))
	for i, part := range params.Parts {
		completedParts[i] = types.CompletedPart{
			ETag:       &part.ETag,
			PartNumber: aws.Int32(int32(part.PartNumber)),
		}
	}

	res, err := s.s3Client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   &s.config.BucketName,
		Key:      &params.Key,
		UploadId: &params.UploadID,
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completedParts,
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityTooSmall" {
			return nil, fmt.Errorf("%w: %s", ErrPartTooSmall, apiErr.ErrorMessage())
		}
		return nil, err
	}

	return &PutObjectResult{
		Key:          params.Key,
		Size:         params.Size,
		ETag:         trimETag(aws.ToString(res.ETag)),
		LastModified: time.Now().UTC(),
	}, nil
}

func (s *S3Store) AbortMultipart(ctx context.Context, key, uploadID string) error {
	_, err := s.s3Client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   &s.config.BucketName,
		Key:      &key,
		UploadId: &uploadID,
	})
	return err
}

// ===================================================================================================

func (s *S3Store) DeleteObject(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	return err
}

func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	if !ValidateKey(key) {
		return "", ErrInvalidKey
	}

	url, err := s.s3Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = downloadExpiry
	})
	if err != nil {
		return "", err
	}
	return url.URL, nil
}

func (s *S3Store) ObjectURL(key string) string {
	if s.config.PublicBaseURL != "" {
		return strings.TrimSuffix(s.config.PublicBaseURL, "/") + "/" + key
	}
	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.Endpoint, "/"), s.config.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.BucketName, s.config.Region, key)
}

// ETags come back quoted on the wire, strip before storing
func trimETag(etag string) string {
	return strings.ReplaceAll(etag, "\"", "")
}

var _ ObjectStore = (*S3Store)(nil)
