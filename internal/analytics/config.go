package analytics

import (
	"fmt"
	"math"
)

const (
	DefaultAnnualInflation = 0.05
	DefaultHourlyRate      = 85.0
	DefaultWindowDays      = 30
)

// Config holds the tunables of the engine. It is passed explicitly to every
// call that needs it; the engine reads nothing from the environment.
type Config struct {
	// AnnualInflation scales the historical average before anomaly comparison.
	AnnualInflation float64 `koanf:"annual_inflation" json:"annual_inflation"`
	// HourlyRate converts labor hours to cost and payroll.
	HourlyRate float64 `koanf:"hourly_rate" json:"hourly_rate"`
	// WindowDays is the trailing window of the payroll projection.
	WindowDays int `koanf:"window_days" json:"window_days"`
}

func DefaultConfig() Config {
	return Config{
		AnnualInflation: DefaultAnnualInflation,
		HourlyRate:      DefaultHourlyRate,
		WindowDays:      DefaultWindowDays,
	}
}

func (c Config) Validate() error {
	if !nonNegative(c.AnnualInflation) {
		return fmt.Errorf("annual_inflation must be a finite number >= 0, got %v", c.AnnualInflation)
	}
	if !nonNegative(c.HourlyRate) {
		return fmt.Errorf("hourly_rate must be a finite number >= 0, got %v", c.HourlyRate)
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window_days must be > 0, got %d", c.WindowDays)
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
