/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package seed

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/hypermodeinc/campus/store"
)

const (
	defaultS3Region = "us-east-1"

	// Static credentials, used instead of the default AWS chain when both are set.
	envS3AccessKeyID     = "CAMPUS_S3_ACCESS_KEY_ID"
	envS3SecretAccessKey = "CAMPUS_S3_SECRET_ACCESS_KEY"
)

// S3Options configure the client of s3:// seeds. They are read from the URI
// query, as in s3://bucket/seed.yaml?region=eu-west-1&endpoint=http://minio:9000&path_style=true.
type S3Options struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

func s3Options(q url.Values) S3Options {
	opts := S3Options{
		Region:    q.Get("region"),
		Endpoint:  q.Get("endpoint"),
		PathStyle: cast.ToBool(q.Get("path_style")),
	}
	if opts.Region == "" {
		opts.Region = defaultS3Region
	}
	return opts
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if id, secret := os.Getenv(envS3AccessKeyID), os.Getenv(envS3SecretAccessKey); id != "" &&
		secret != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(id, secret, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "while loading AWS config")
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

func readS3(ctx context.Context, u *url.URL) (*store.Snapshot, error) {
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, errors.Errorf("s3 seed needs a bucket and a key, got %q", u.Redacted())
	}
	client, err := newS3Client(ctx, s3Options(u.Query()))
	if err != nil {
		return nil, err
	}
	return fetchObject(ctx, client, bucket, key)
}

func fetchObject(ctx context.Context, client objectGetter, bucket, key string) (
	*store.Snapshot, error) {

	f, err := formatOf(key)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "while fetching s3://%s/%s", bucket, key)
	}
	defer func() { _ = out.Body.Close() }()
	return Decode(out.Body, f)
}
