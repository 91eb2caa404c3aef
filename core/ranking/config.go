package ranking

import (
	"fmt"

	"github.com/kilianp07/induction/core/model"
)

// Weights balances the normalized sub-scores in the composite priority.
type Weights struct {
	Fitness  float64 `json:"fitness"`
	Job      float64 `json:"job"`
	Branding float64 `json:"branding"`
	Mileage  float64 `json:"mileage"`
	Cleaning float64 `json:"cleaning"`
}

func (w Weights) isZero() bool {
	return w == Weights{}
}

// Config tunes the priority engine.
type Config struct {
	Weights Weights `json:"weights"`
	// ShuntLambda is subtracted per unit of normalized shunt depth. Nil means
	// the default; an explicit 0 disables the shunt penalty.
	ShuntLambda *float64 `json:"shunt_lambda"`
	// CleanUpcomingAlpha scales how much today's cleaning load erodes freshness.
	// Nil means the default; an explicit 0 ignores today's cleaning load.
	CleanUpcomingAlpha *float64 `json:"clean_upcoming_alpha"`
	// FreshnessHorizonHours is the age after which freshness reaches 0.
	FreshnessHorizonHours float64 `json:"freshness_horizon_hours"`
	// MissingCleanAgeHours is the age assumed for trains never cleaned.
	MissingCleanAgeHours float64 `json:"missing_clean_age_hours"`
	// CleaningWindowHours is the look-ahead for today's cleaning jobs.
	CleaningWindowHours float64 `json:"cleaning_window_hours"`
	// CleaningDurations holds the hours one job of each type takes.
	CleaningDurations map[string]float64 `json:"cleaning_durations_hours"`
}

const (
	defaultShuntLambda        = 0.25
	defaultCleanUpcomingAlpha = 0.8
)

// Float64 returns a pointer to v for the optional Config fields.
func Float64(v float64) *float64 { return &v }

func (c Config) shuntLambda() float64 {
	if c.ShuntLambda == nil {
		return defaultShuntLambda
	}
	return *c.ShuntLambda
}

func (c Config) cleanUpcomingAlpha() float64 {
	if c.CleanUpcomingAlpha == nil {
		return defaultCleanUpcomingAlpha
	}
	return *c.CleanUpcomingAlpha
}

// DefaultConfig returns the production weighting.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Weights.isZero() {
		c.Weights = Weights{Fitness: 0.15, Job: 0.20, Branding: 0.25, Mileage: 0.25, Cleaning: 0.15}
	}
	if c.ShuntLambda == nil {
		c.ShuntLambda = Float64(defaultShuntLambda)
	}
	if c.CleanUpcomingAlpha == nil {
		c.CleanUpcomingAlpha = Float64(defaultCleanUpcomingAlpha)
	}
	if c.FreshnessHorizonHours == 0 {
		c.FreshnessHorizonHours = 72
	}
	if c.MissingCleanAgeHours == 0 {
		c.MissingCleanAgeHours = 99999
	}
	if c.CleaningWindowHours == 0 {
		c.CleaningWindowHours = 24
	}
	if c.CleaningDurations == nil {
		c.CleaningDurations = map[string]float64{}
	}
	defaults := map[model.CleaningType]float64{
		model.CleaningDaily:   0.25,
		model.CleaningOutside: 2,
		model.CleaningHeavy:   3,
	}
	for k, v := range defaults {
		if _, ok := c.CleaningDurations[string(k)]; !ok {
			c.CleaningDurations[string(k)] = v
		}
	}
}

// Validate rejects weightings that cannot produce a ranking.
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"fitness": w.Fitness, "job": w.Job, "branding": w.Branding,
		"mileage": w.Mileage, "cleaning": w.Cleaning,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative", name)
		}
	}
	if w.Fitness+w.Job+w.Branding+w.Mileage+w.Cleaning <= 0 {
		return fmt.Errorf("weights must sum to a positive value")
	}
	if c.shuntLambda() < 0 {
		return fmt.Errorf("shunt_lambda must not be negative")
	}
	if a := c.cleanUpcomingAlpha(); a < 0 || a > 1 {
		return fmt.Errorf("clean_upcoming_alpha must be within [0,1]")
	}
	if c.FreshnessHorizonHours <= 0 {
		return fmt.Errorf("freshness_horizon_hours must be positive")
	}
	if c.CleaningWindowHours <= 0 {
		return fmt.Errorf("cleaning_window_hours must be positive")
	}
	for k, v := range c.CleaningDurations {
		if v < 0 {
			return fmt.Errorf("cleaning duration %s must not be negative", k)
		}
	}
	return nil
}

// cleaningDuration returns the hours of one job, defaulting unknown or blank
// types to the daily duration.
func (c Config) cleaningDuration(t model.CleaningType) float64 {
	if d, ok := c.CleaningDurations[string(t)]; ok && t != "" {
		return d
	}
	return c.CleaningDurations[string(model.CleaningDaily)]
}
