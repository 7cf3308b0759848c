package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rksearch/rksearch/internal/compress"
)

// Client archives document blobs in S3, compressed with the configured
// codec. The archive stores documents only; filters are session state
// and never persisted.
type Client struct {
	api    *s3.Client
	bucket string
	codec  compress.Codec
}

// NewWithClient constructs an archive client for the given bucket using
// the provided aws.Config. Path-style addressing is enabled so
// LocalStack will accept the requests.
func NewWithClient(bucket string, codec compress.Codec, awsCfg aws.Config) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name must be set")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &Client{
		api:    client,
		bucket: bucket,
		codec:  codec,
	}, nil
}

// Put compresses the document and uploads it under the given key.
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	packed, err := c.codec.Compress(data)
	if err != nil {
		return fmt.Errorf("compress %q: %w", key, err)
	}
	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
		Body:   bytes.NewReader(packed),
	})
	return err
}

// Get downloads and decompresses the document stored under key.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	packed, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	data, err := c.codec.Decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("decompress %q: %w", key, err)
	}
	return data, nil
}
