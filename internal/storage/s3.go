package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage is the shared S3 connection. The client is built lazily on the
// first write and reused by every upload. Credentials and region are applied
// per request, so updating them never rebuilds the client. Until a key pair is
// applied the SDK's default credential chain is used.
type S3Storage struct {
	endpoint string

	mu     sync.Mutex
	client *s3.Client

	credMu sync.RWMutex
	creds  *credentials.StaticCredentialsProvider
	region string
}

// NewS3Storage returns an unconnected store. endpoint is optional and points
// the client at an S3-compatible service.
func NewS3Storage(region, endpoint string) *S3Storage {
	return &S3Storage{
		endpoint: endpoint,
		region:   region,
	}
}

// ApplyCredentials replaces the static key pair used for signing.
func (s *S3Storage) ApplyCredentials(accessKeyID, secretAccessKey string) {
	p := credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")

	s.credMu.Lock()
	s.creds = &p
	s.credMu.Unlock()
}

func (s *S3Storage) ApplyRegion(region string) {
	s.credMu.Lock()
	s.region = region
	s.credMu.Unlock()
}

// Reset drops the shared client. The next write connects again.
func (s *S3Storage) Reset() {
	s.mu.Lock()
	s.client = nil
	s.mu.Unlock()
}

func (s *S3Storage) conn(ctx context.Context) (*s3.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	var opts []func(*config.LoadOptions) error
	s.credMu.RLock()
	if s.region != "" {
		opts = append(opts, config.WithRegion(s.region))
	}
	s.credMu.RUnlock()

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s.client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	})

	return s.client, nil
}

// PutObject uploads in.Body with a public-read ACL.
func (s *S3Storage) PutObject(ctx context.Context, in *PutInput) error {
	client, err := s.conn(ctx)
	if err != nil {
		return err
	}

	s.credMu.RLock()
	creds, region := s.creds, s.region
	s.credMu.RUnlock()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(in.Bucket),
		Key:           aws.String(in.Key),
		Body:          bytes.NewReader(in.Body),
		ContentLength: aws.Int64(int64(len(in.Body))),
		ContentType:   aws.String(in.ContentType),
		ACL:           types.ObjectCannedACLPublicRead,
	}, func(o *s3.Options) {
		if creds != nil {
			o.Credentials = creds
		}
		if region != "" {
			o.Region = region
		}
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}
