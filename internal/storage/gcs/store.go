package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/upkeephq/upkeep/internal/domain"
)

// Store is a GCS-backed attachment store. Attachments live under one prefix
// per asset ("<assetID>/<name>"); content type and size come from object
// attributes, so no metadata sidecar is needed.
type Store struct {
	client *storage.Client
	bucket string
}

// NewStore creates a new GCS store.
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
func NewStore(ctx context.Context, bucketName string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucketName,
	}, nil
}

func objectName(assetID, name string) string {
	return assetID + "/" + name
}

// Put uploads a blob, overwriting any existing object with the same name.
func (s *Store) Put(ctx context.Context, assetID, name, contentType string, r io.Reader) (*domain.Attachment, error) {
	obj := s.client.Bucket(s.bucket).Object(objectName(assetID, name))

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize object: %w", err)
	}

	attrs := w.Attrs()
	return &domain.Attachment{
		Name:        name,
		AssetID:     assetID,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
		UpdatedAt:   attrs.Updated,
	}, nil
}

// Get opens a blob for reading along with its metadata.
func (s *Store) Get(ctx context.Context, assetID, name string) (io.ReadCloser, *domain.Attachment, error) {
	obj := s.client.Bucket(s.bucket).Object(objectName(assetID, name))

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil, domain.ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to read object attributes: %w", err)
	}

	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil, domain.ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to read object: %w", err)
	}

	att := &domain.Attachment{
		Name:        name,
		AssetID:     assetID,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
		UpdatedAt:   attrs.Updated,
	}
	return r, att, nil
}

// List scans the asset's prefix for objects.
func (s *Store) List(ctx context.Context, assetID string) ([]*domain.Attachment, error) {
	prefix := assetID + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var attachments []*domain.Attachment
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		attachments = append(attachments, &domain.Attachment{
			Name:        strings.TrimPrefix(attrs.Name, prefix),
			AssetID:     assetID,
			ContentType: attrs.ContentType,
			Size:        attrs.Size,
			UpdatedAt:   attrs.Updated,
		})
	}

	return attachments, nil
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, assetID, name string) error {
	obj := s.client.Bucket(s.bucket).Object(objectName(assetID, name))

	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domain.ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
