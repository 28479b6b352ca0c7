// Package blobstore resolves avatar references against the S3-compatible
// object store holding profile pictures. References that are already
// http(s) URLs pass through unchanged; bare storage keys are presigned
// for a short-lived GET.
package blobstore

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/uniboe/messaging/internal/config"
)

const presignExpiry = 15 * time.Minute

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

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

// AvatarResolver turns a stored avatar reference into a fetchable URL.
type AvatarResolver struct {
	config *config.Config
}

// NewAvatarResolver constructs a resolver using the S3 settings in config.
func NewAvatarResolver(config *config.Config) *AvatarResolver {
	return &AvatarResolver{config: config}
}

func (r *AvatarResolver) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(r.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r.config.S3RootUser,
			r.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// ResolveURL maps an avatar reference to a URL. Absolute http(s)
// references are returned as is (legacy rows store public URLs); anything
// else is treated as a storage key and presigned with a 15-minute expiry.
func (r *AvatarResolver) ResolveURL(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}

	presignClient, err := r.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := r.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &ref,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
