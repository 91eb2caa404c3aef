package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/induction/core/ranking"
	"github.com/kilianp07/induction/core/source"
)

// EngineConfig tunes the priority engine. Ranking weights and constants sit
// directly under the engine key.
type EngineConfig struct {
	ranking.Config `json:",squash"`
	// PlanningTime pins the reference instant. Empty means the current time.
	PlanningTime string `json:"planning_time"`
}

// SetDefaults applies sane defaults.
func (c *EngineConfig) SetDefaults() { c.Config.SetDefaults() }

// Validate checks the weights and the planning time format.
func (c EngineConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.PlanningTime != "" && source.ParseTime(c.PlanningTime) == nil {
		return fmt.Errorf("invalid planning_time %q", c.PlanningTime)
	}
	return nil
}

// Planning returns the configured planning time, or now when unset.
func (c EngineConfig) Planning(now time.Time) time.Time {
	if t := source.ParseTime(c.PlanningTime); t != nil {
		return *t
	}
	return now
}
