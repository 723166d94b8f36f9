package inventory

import (
	"context"
	"io"

	"github.com/upkeephq/upkeep/internal/domain"
)

// AttachmentStore abstracts the blob backend holding asset attachments
// (manuals, photos, receipts). Implementations live in internal/storage.
type AttachmentStore interface {
	// Put stores a blob under the asset, overwriting any attachment with the
	// same name.
	Put(ctx context.Context, assetID, name, contentType string, r io.Reader) (*domain.Attachment, error)

	// Get opens an attachment for reading. Callers must close the reader.
	// Returns domain.ErrAttachmentNotFound for missing blobs.
	Get(ctx context.Context, assetID, name string) (io.ReadCloser, *domain.Attachment, error)

	// List returns attachment metadata for an asset.
	List(ctx context.Context, assetID string) ([]*domain.Attachment, error)

	// Delete removes an attachment. Deleting a missing attachment returns
	// domain.ErrAttachmentNotFound.
	Delete(ctx context.Context, assetID, name string) error
}

// UploadAttachment stores a blob against an asset after verifying the asset
// belongs to the home.
func (s *Service) UploadAttachment(ctx context.Context, homeID, assetID, name, contentType string, r io.Reader) (*domain.Attachment, error) {
	if s.attachments == nil {
		return nil, domain.ErrAttachmentNotFound
	}

	validName, err := domain.NewName(name)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetAsset(ctx, homeID, assetID); err != nil {
		return nil, err
	}

	return s.attachments.Put(ctx, assetID, validName.String(), contentType, r)
}

// OpenAttachment returns a reader over an attachment's content plus its
// metadata. The caller closes the reader.
func (s *Service) OpenAttachment(ctx context.Context, homeID, assetID, name string) (io.ReadCloser, *domain.Attachment, error) {
	if s.attachments == nil {
		return nil, nil, domain.ErrAttachmentNotFound
	}

	if _, err := s.GetAsset(ctx, homeID, assetID); err != nil {
		return nil, nil, err
	}

	return s.attachments.Get(ctx, assetID, name)
}

// ListAttachments returns attachment metadata for an asset.
func (s *Service) ListAttachments(ctx context.Context, homeID, assetID string) ([]*domain.Attachment, error) {
	if s.attachments == nil {
		return nil, nil
	}

	if _, err := s.GetAsset(ctx, homeID, assetID); err != nil {
		return nil, err
	}

	return s.attachments.List(ctx, assetID)
}

// DeleteAttachment removes an attachment.
func (s *Service) DeleteAttachment(ctx context.Context, homeID, assetID, name string) error {
	if s.attachments == nil {
		return domain.ErrAttachmentNotFound
	}

	if _, err := s.GetAsset(ctx, homeID, assetID); err != nil {
		return err
	}

	return s.attachments.Delete(ctx, assetID, name)
}
