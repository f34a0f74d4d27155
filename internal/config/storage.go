package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"
)

const (
	// EnvStorageBasePath overrides the blob storage base directory.
	EnvStorageBasePath = "STORAGE_BASE_PATH"

	// EnvStoragePublicURL overrides the public base URL for stored blobs.
	EnvStoragePublicURL = "STORAGE_PUBLIC_URL"

	// EnvStorageMaxUploadSize overrides the maximum accepted upload size.
	EnvStorageMaxUploadSize = "STORAGE_MAX_UPLOAD_SIZE"
)

// StorageConfig contains blob storage configuration.
type StorageConfig struct {
	// BasePath is the root directory for filesystem storage.
	BasePath string `toml:"base_path"`

	// PublicURL is the externally reachable base for durable blob URLs,
	// e.g. "http://localhost:8080/storage".
	PublicURL string `toml:"public_url"`

	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed maximum upload size in bytes.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.PublicURL == "" {
		c.PublicURL = "http://localhost:8080/storage"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvStoragePublicURL); v != "" {
		c.PublicURL = v
	}
	if v := os.Getenv(EnvStorageMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *StorageConfig) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	c.maxUploadSizeVal = size

	c.PublicURL = strings.TrimSuffix(c.PublicURL, "/")
	return nil
}
