// Package archive keeps a copy of uploaded receipts.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"spendlog/internal/uuid"
)

// Archiver stores a receipt and returns a URL for it. An empty URL means
// the receipt was not kept.
type Archiver interface {
	Store(ctx context.Context, mediaType string, data []byte) (string, error)
}

// Nop discards receipts.
type Nop struct{}

func (Nop) Store(context.Context, string, []byte) (string, error) { return "", nil }

// GCS stores receipts in a Google Cloud Storage bucket.
type GCS struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
	now     func() time.Time
}

// NewGCS connects to Cloud Storage with Application Default Credentials.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, timeout: 2 * time.Minute, now: time.Now}, nil
}

var (
	_ Archiver = Nop{}
	_ Archiver = (*GCS)(nil)
)

// Store uploads data and returns its gs:// URI.
func (g *GCS) Store(ctx context.Context, mediaType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	name := ObjectName(g.now(), uuid.New(), mediaType)
	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = mediaType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write receipt %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize receipt %s: %w", name, err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, name), nil
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// ObjectName lays receipts out by upload date.
func ObjectName(at time.Time, id, mediaType string) string {
	return path.Join("receipts", at.UTC().Format("2006/01/02"), id+extension(mediaType))
}

func extension(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
