// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gatherperfdata/perfconv/storage/fs"
	"google.golang.org/api/option"
)

// ContentType is the content type of every object written.
const ContentType = "application/json"

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
	prefix string
}

// ParseURL splits a "gs://bucket/prefix" URL into its bucket and
// object prefix. The prefix may be empty.
func ParseURL(u string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(u, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%q is not a gs:// URL", u)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%q has no bucket", u)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// NewFS constructs an FS that writes to objects under prefix in
// bucket. opts are passed to storage.NewClient.
func NewFS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucket), prefix}, nil
}

// ObjectName returns the object that file name is stored in.
func ObjectName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// NewWriter starts an upload of the object for name. The object is
// created only if the returned Writer's Close succeeds.
func (g *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := g.bucket.Object(ObjectName(g.prefix, name)).NewWriter(ctx)
	w.ContentType = ContentType
	w.Metadata = metadata
	return &wrapper{Writer: w, cancel: cancel}, nil
}

type wrapper struct {
	*storage.Writer
	cancel context.CancelFunc
}

// CloseWithError aborts the upload by canceling its context.
func (w *wrapper) CloseWithError(err error) error {
	w.cancel()
	w.Writer.Close()
	return err
}

func (w *wrapper) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}
