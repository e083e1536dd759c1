package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// S3Backend stores the state object in an S3 bucket.
type S3Backend struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Backend constructs the remote state backend. The client is built once
// at startup; construction failure means the remote capability is
// unavailable for the whole process lifetime.
func NewS3Backend(ctx context.Context, bucket, key, region string) (*S3Backend, error) {
	bucket = strings.TrimSpace(bucket)
	key = strings.TrimSpace(key)
	if bucket == "" {
		return nil, errors.New("s3 backend: bucket required")
	}
	if key == "" {
		return nil, errors.New("s3 backend: key required")
	}
	cfg, err := loadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return &S3Backend{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

// Name identifies the backend for log messages.
func (b *S3Backend) Name() string {
	return fmt.Sprintf("s3://%s/%s", b.bucket, b.key)
}

// LoadObject fetches the state object. A missing key is not an error; it is
// reported as ok=false so first runs start from an empty state.
func (b *S3Backend) LoadObject(ctx context.Context) ([]byte, bool, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", b.Name(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", b.Name(), err)
	}
	return data, true, nil
}

// SaveObject overwrites the state object.
func (b *S3Backend) SaveObject(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", b.Name(), err)
	}
	return nil
}

// LoadSecret fetches a JSON object secret and returns its key/value pairs.
func LoadSecret(ctx context.Context, name, region string) (map[string]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("secrets: name required")
	}
	cfg, err := loadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	client := secretsmanager.NewFromConfig(cfg)

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString == nil || strings.TrimSpace(*out.SecretString) == "" {
		return nil, fmt.Errorf("secret %s has an empty string value", name)
	}

	values := map[string]string{}
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object of strings: %w", name, err)
	}
	return values, nil
}
