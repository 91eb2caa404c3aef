package config

import (
	"time"

	"github.com/kilianp07/induction/core/source"
)

// SourcesConfig locates the CSV files read by local runs.
type SourcesConfig struct {
	// Dir is the data directory.
	Dir string `json:"data_dir"`
	// Files overrides the file name of individual sources, keyed by source
	// name or alias.
	Files map[string]string `json:"files"`
	// PollIntervalSeconds re-ranks the data directory periodically while
	// serving. Zero disables polling.
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *SourcesConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
}

// PollInterval returns the polling period, zero when disabled.
func (c SourcesConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// FileMap merges the overrides onto source.DefaultFiles. Unknown keys are
// ignored.
func (c SourcesConfig) FileMap() map[source.SourceName]string {
	files := source.DefaultFiles()
	for k, v := range c.Files {
		if name, ok := source.ParseSourceName(k); ok {
			files[name] = v
		}
	}
	return files
}
