// Package snapshot provides the file and SQLite backends for snapshot.Store.
package snapshot

import (
	"fmt"
	"slices"

	"github.com/kilianp07/induction/core/factory"
	core "github.com/kilianp07/induction/core/snapshot"
)

// Config selects and configures the snapshot backend.
type Config struct {
	// Backend is "json" or "sqlite".
	Backend string `json:"backend"`
	// Path is the JSON file or SQLite database location.
	Path string `json:"path"`
	// TopN is the default row count served by read endpoints.
	TopN int `json:"top_n"`
	// Retain is how many snapshots the SQLite backend keeps. Defaults to 1.
	Retain int `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "json"
	}
	if c.Path == "" {
		if c.Backend == "sqlite" {
			c.Path = "snapshots.db"
		} else {
			c.Path = "latest_snapshot.json"
		}
	}
	if c.TopN <= 0 {
		c.TopN = core.DefaultTopN
	}
	if c.Retain <= 0 {
		c.Retain = 1
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if !slices.Contains(Backends.Types(), c.Backend) {
		return fmt.Errorf("unknown snapshot backend %q", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// Backends holds the available snapshot store factories.
var Backends = factory.NewRegistry[core.Store]()

func init() {
	Backends.MustRegister("json", func(conf map[string]any) (core.Store, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONStore(c.Path)
	})
	Backends.MustRegister("sqlite", func(conf map[string]any) (core.Store, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path, c.Retain)
	})
}

// New builds the store named by cfg.Backend.
func New(cfg Config) (core.Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Backends.Create(factory.ModuleConfig{
		Type: cfg.Backend,
		Conf: map[string]any{"path": cfg.Path, "retain": cfg.Retain},
	})
}
