package metrics

import "github.com/kilianp07/induction/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr is where /metrics is served. Empty disables the server.
	PrometheusAddr string `json:"prometheus_addr"`
	// TopScores caps how many ranked trains are exported per cycle.
	TopScores int `json:"top_scores"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TopScores <= 0 {
		c.TopScores = 100
	}
}
