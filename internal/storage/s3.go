package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cloo-solutions/askdocs/internal/domain"
)

// S3SourceConfig holds configuration for an S3-backed document source
type S3SourceConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	UsePathStyle    bool
}

// S3Source reads documents from an S3-compatible bucket. Each supported
// object under the prefix becomes one document whose source id is the object
// key relative to the prefix.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// ParseS3URL splits an s3://bucket/prefix URL into bucket and prefix.
func ParseS3URL(url string) (bucket, prefix string, err error) {
	trimmed := strings.TrimPrefix(url, "s3://")
	if trimmed == url || trimmed == "" {
		return "", "", domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("invalid S3 URL: %s", url))
	}
	parts := strings.SplitN(trimmed, "/", 2)
	bucket = parts[0]
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return bucket, prefix, nil
}

// NewS3Source creates an S3 document source with the given configuration
func NewS3Source(ctx context.Context, cfg S3SourceConfig) (*S3Source, error) {
	// Custom resolver for S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Load lists the bucket prefix and fetches every supported object. Objects
// that cannot be fetched are skipped and reported; the rest proceed.
func (s *S3Source) Load(ctx context.Context) ([]domain.Document, []SkippedFile, error) {
	var docs []domain.Document
	var skipped []SkippedFile

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeIngest,
				fmt.Sprintf("failed to list s3://%s/%s", s.bucket, s.prefix), err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}

			source := strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
			if source == "" {
				source = key
			}

			if !SupportedExtensions[strings.ToLower(path.Ext(key))] {
				skipped = append(skipped, SkippedFile{
					Path:   source,
					Reason: fmt.Sprintf("unsupported file type %q, only .txt and .md are supported", path.Ext(key)),
				})
				continue
			}

			text, err := s.fetch(ctx, key)
			if err != nil {
				skipped = append(skipped, SkippedFile{Path: source, Reason: err.Error()})
				continue
			}

			docs = append(docs, domain.Document{Source: source, Text: text})
		}
	}

	if len(docs) == 0 {
		return nil, skipped, domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("no supported files (.txt, .md) found in s3://%s/%s", s.bucket, s.prefix))
	}

	return docs, skipped, nil
}

func (s *S3Source) fetch(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}
	return string(body), nil
}
