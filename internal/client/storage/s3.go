// Package storage uploads recordings to S3-compatible object storage and
// resolves the URL the analysis service downloads them from.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/filex"
	"github.com/dmitrijs2005/repsphere/internal/netx"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Options configures an S3Store.
type Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	PresignTTL    time.Duration
}

// UploadResult describes a stored object.
type UploadResult struct {
	Key         string
	PublicURL   string
	Size        int64
	ContentType string
}

// S3Store uploads through presigned PUT URLs so progress reflects the bytes
// actually written to the connection.
type S3Store struct {
	opts Options
	http *http.Client
}

// NewS3Store returns a store. A nil client means http.DefaultClient.
func NewS3Store(opts Options, client *http.Client) *S3Store {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &S3Store{opts: opts, http: client}
}

// Configured reports whether the bucket and credentials are set.
func (s *S3Store) Configured() bool {
	return s.opts.Bucket != "" && s.opts.AccessKey != "" && s.opts.SecretKey != ""
}

// ObjectKey builds "<unix millis>-<sanitized name>".
func ObjectKey(now time.Time, name string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), filex.SanitizeFileName(name))
}

func (s *S3Store) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.opts.AccessKey, s.opts.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3PresignClient(client), nil
}

// Upload streams body to key and returns the object's public URL. progress
// receives 0..100.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, progress netx.ProgressFunc) (*UploadResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("storage: %w", common.ErrorNotConfigured)
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(pc, ctx, in, s3.WithPresignExpires(s.opts.PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	if err := netx.PutWithProgress(ctx, s.http, req.URL, body, size, contentType, progress); err != nil {
		return nil, err
	}

	url, err := s.publicURL(ctx, pc, key)
	if err != nil {
		return nil, err
	}

	return &UploadResult{Key: key, PublicURL: url, Size: size, ContentType: contentType}, nil
}

// PublicURL returns a URL the analysis service can fetch key from.
func (s *S3Store) PublicURL(ctx context.Context, key string) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("storage: %w", common.ErrorNotConfigured)
	}
	if s.opts.PublicBaseURL != "" {
		return s.publicURL(ctx, nil, key)
	}
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("storage client: %w", err)
	}
	return s.publicURL(ctx, pc, key)
}

func (s *S3Store) publicURL(ctx context.Context, pc *s3.PresignClient, key string) (string, error) {
	if s.opts.PublicBaseURL != "" {
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + strings.TrimLeft(key, "/"), nil
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.opts.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}
