package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvExportFont overrides the PDF font name.
	EnvExportFont = "EXPORT_FONT"

	// EnvExportFetchTimeout overrides the remote image fetch timeout.
	EnvExportFetchTimeout = "EXPORT_FETCH_TIMEOUT"
)

// ExportConfig contains PDF export configuration.
type ExportConfig struct {
	// Font is the core font used for all text content.
	Font string `toml:"font"`

	// FetchTimeout bounds a single remote image fetch during export.
	FetchTimeout string `toml:"fetch_timeout"`
}

// FetchTimeoutDuration parses and returns the fetch timeout as a time.Duration.
func (c *ExportConfig) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.FetchTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the export configuration.
func (c *ExportConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ExportConfig) Merge(overlay *ExportConfig) {
	if overlay.Font != "" {
		c.Font = overlay.Font
	}
	if overlay.FetchTimeout != "" {
		c.FetchTimeout = overlay.FetchTimeout
	}
}

func (c *ExportConfig) loadDefaults() {
	if c.Font == "" {
		c.Font = "Helvetica"
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = "30s"
	}
}

func (c *ExportConfig) loadEnv() {
	if v := os.Getenv(EnvExportFont); v != "" {
		c.Font = v
	}
	if v := os.Getenv(EnvExportFetchTimeout); v != "" {
		c.FetchTimeout = v
	}
}

func (c *ExportConfig) validate() error {
	if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
		return fmt.Errorf("invalid fetch_timeout: %w", err)
	}
	return nil
}
