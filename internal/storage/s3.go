// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage exports each post's markdown to S3-compatible object
// storage. It wraps the AWS SDK v2 and is configured for path-style access
// so it works with MinIO, CEPH and Supabase Storage as well as AWS.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"seodash/internal/markdown"
	"seodash/internal/models"
)

const markdownContentType = "text/markdown; charset=utf-8"

// Exporter writes post markdown to a single bucket. A nil *Exporter is
// valid and turns every operation into a no-op.
type Exporter struct {
	s3        *s3.Client
	bucket    string
	prefix    string
	endpoint  string
	publicURL string // optional CDN/direct URL for exported files
}

// New creates an exporter with path-style addressing. Returns (nil, nil)
// if endpoint, credentials or bucket are empty, allowing the app to start
// without storage.
func New(endpoint, region, accessKey, secretKey, bucket, prefix, publicURL string) (*Exporter, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}
	if region == "" {
		region = "us-east-1"
	}

	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,

		// S3-compatible stores reject the SDK's default flexible checksums.
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})

	return &Exporter{
		s3:        client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// ObjectKey returns the object key for a post's markdown file.
func ObjectKey(prefix string, id uuid.UUID) string {
	if prefix == "" {
		return id.String() + ".md"
	}
	return prefix + "/" + id.String() + ".md"
}

// Export uploads the post as a markdown document with YAML front matter,
// overwriting any previous export of the same post.
func (e *Exporter) Export(ctx context.Context, p *models.Post) error {
	if e == nil {
		return nil
	}

	doc, err := markdown.Document(markdown.FrontMatter{
		Title:     p.Title,
		Slug:      p.Slug,
		Keywords:  p.Keywords,
		WordCount: p.WordCount,
		Date:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}, p.Content)
	if err != nil {
		return fmt.Errorf("export %s: %w", p.ID, err)
	}

	key := ObjectKey(e.prefix, p.ID)
	_, err = e.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(doc),
		ContentLength: aws.Int64(int64(len(doc))),
		ContentType:   aws.String(markdownContentType),
		Metadata:      map[string]string{"slug": p.Slug},
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", e.bucket, key, err)
	}
	return nil
}

// Remove deletes a post's exported markdown.
func (e *Exporter) Remove(ctx context.Context, id uuid.UUID) error {
	if e == nil {
		return nil
	}

	key := ObjectKey(e.prefix, id)
	_, err := e.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", e.bucket, key, err)
	}
	return nil
}

// FileURL returns the URL of a post's exported markdown, or "" when
// export is disabled. Uses the configured public URL if set, otherwise
// builds a path-style URL.
func (e *Exporter) FileURL(id uuid.UUID) string {
	if e == nil {
		return ""
	}
	key := ObjectKey(e.prefix, id)
	if e.publicURL != "" {
		return e.publicURL + "/" + key
	}
	return e.endpoint + "/" + e.bucket + "/" + key
}
