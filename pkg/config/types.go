package config

import (
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the entire configuration for the barbershop simulator
type Config struct {
	BarberShop BarberShopConfig `yaml:"barber_shop"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BarberShopConfig holds the simulation parameters
type BarberShopConfig struct {
	WaitingChairs      int      `yaml:"waiting_chairs" envconfig:"waiting_chairs"`
	MinArrivalInterval Duration `yaml:"min_arrival_interval" envconfig:"min_arrival_interval"`
	MaxArrivalInterval Duration `yaml:"max_arrival_interval" envconfig:"max_arrival_interval"`
	MinHaircutTime     Duration `yaml:"min_haircut_time" envconfig:"min_haircut_time"`
	MaxHaircutTime     Duration `yaml:"max_haircut_time" envconfig:"max_haircut_time"`
	TotalCustomers     int      `yaml:"total_customers" envconfig:"total_customers"`

	// Seed drives the random interval source. Zero means a
	// time-based seed; any other value makes runs reproducible.
	Seed int64 `yaml:"seed,omitempty" envconfig:"seed"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level string `yaml:"log_level" envconfig:"log_level"`
	File  string `yaml:"log_file,omitempty" envconfig:"log_file"`
}

// Duration wraps time.Duration so that human-readable values like "250ms"
// can be used both in YAML files and in environment overrides.
type Duration time.Duration

// Duration returns the wrapped time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "duration must be a string like \"250ms\"")
	}
	return d.parse(raw)
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (d *Duration) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}

func (d *Duration) parse(raw string) error {
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}
