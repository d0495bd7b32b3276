package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Snapshots are newline-delimited JSON.
const snapshotContentType = "application/x-ndjson"

// S3Destination uploads event snapshots to a fixed object key in an
// S3-compatible bucket. Each run overwrites the previous snapshot; the
// object always holds the latest export.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Destination builds a destination for the given bucket and object key.
// Credentials come from the default AWS chain. A non-empty endpoint switches
// to path-style addressing, which MinIO and other S3 clones require.
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, clientOpts...),
		bucket: bucket,
		key:    key,
	}, nil
}

// Write uploads the snapshot, replacing the object at the configured key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(snapshotContentType),
	})
	if err != nil {
		return fmt.Errorf("put snapshot s3://%s/%s: %w", d.bucket, d.key, err)
	}
	return nil
}
