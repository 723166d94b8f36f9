package config

import "fmt"

// AttachmentsConfig holds configuration for the asset attachment blob store.
type AttachmentsConfig struct {
	// Backend selects the store implementation: "fs" or "gcs".
	Backend string `env:"UPKEEP_ATTACHMENTS_BACKEND"`

	// FSDir is the base directory for the filesystem backend.
	FSDir string `env:"UPKEEP_ATTACHMENTS_FS_DIR"`

	// GCSBucket is the bucket name for the GCS backend. Credentials come from
	// the usual GOOGLE_APPLICATION_CREDENTIALS mechanism.
	GCSBucket string `env:"UPKEEP_ATTACHMENTS_GCS_BUCKET"`
}

// Validate validates the attachments configuration.
func (c *AttachmentsConfig) Validate() error {
	switch c.Backend {
	case "", "fs":
		// FSDir falls back to a default applied by the consumer.
		return nil
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("UPKEEP_ATTACHMENTS_GCS_BUCKET is required when UPKEEP_ATTACHMENTS_BACKEND is 'gcs'")
		}
		return nil
	default:
		return fmt.Errorf("unknown UPKEEP_ATTACHMENTS_BACKEND: %s", c.Backend)
	}
}
