package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/upkeephq/upkeep/internal/domain"
)

const metaSuffix = ".meta.json"

// Store is a filesystem-backed attachment store. Each attachment is a blob
// file plus a JSON metadata sidecar, grouped in one directory per asset.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a new filesystem store rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

type metadata struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Store) blobPath(assetID, name string) string {
	return filepath.Join(s.baseDir, assetID, name)
}

// Put stores a blob and its metadata sidecar, overwriting both on re-upload.
func (s *Store) Put(ctx context.Context, assetID, name, contentType string, r io.Reader) (*domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validName(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, name)
	}

	dir := filepath.Join(s.baseDir, assetID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}

	path := s.blobPath(assetID, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	meta := metadata{
		ContentType: contentType,
		Size:        size,
		UpdatedAt:   time.Now().UTC(),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(path+metaSuffix, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	return &domain.Attachment{
		Name:        name,
		AssetID:     assetID,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		UpdatedAt:   meta.UpdatedAt,
	}, nil
}

// Get opens a blob for reading along with its metadata.
func (s *Store) Get(ctx context.Context, assetID, name string) (io.ReadCloser, *domain.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !validName(name) {
		return nil, nil, domain.ErrAttachmentNotFound
	}

	path := s.blobPath(assetID, name)
	att, err := s.readMeta(assetID, name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, att, nil
}

// List scans the asset directory for metadata sidecars.
func (s *Store) List(ctx context.Context, assetID string) ([]*domain.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.baseDir, assetID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var attachments []*domain.Attachment
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metaSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), metaSuffix)
		att, err := s.readMeta(assetID, name)
		if err != nil {
			// Skip blobs with corrupt or missing sidecars.
			continue
		}
		attachments = append(attachments, att)
	}

	return attachments, nil
}

// Delete removes the blob and its sidecar.
func (s *Store) Delete(ctx context.Context, assetID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validName(name) {
		return domain.ErrAttachmentNotFound
	}

	path := s.blobPath(assetID, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	if err := os.Remove(path + metaSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove metadata: %w", err)
	}

	return nil
}

func (s *Store) readMeta(assetID, name string) (*domain.Attachment, error) {
	data, err := os.ReadFile(s.blobPath(assetID, name) + metaSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &domain.Attachment{
		Name:        name,
		AssetID:     assetID,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		UpdatedAt:   meta.UpdatedAt,
	}, nil
}

// validName rejects names that would escape the asset directory or collide
// with metadata sidecars.
func validName(name string) bool {
	if name == "" || strings.HasSuffix(name, metaSuffix) {
		return false
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name
}
