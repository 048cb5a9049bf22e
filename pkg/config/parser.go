package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. BARBER_WAITING_CHAIRS or BARBER_TOTAL_CUSTOMERS.
const EnvPrefix = "barber"

// LoadConfig loads and parses the configuration file. Values from the
// environment (BARBER_* variables) override values from the file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := envconfig.Process(EnvPrefix, &config.BarberShop); err != nil {
		return nil, errors.Wrap(err, "failed to process environment overrides")
	}
	if err := envconfig.Process(EnvPrefix, &config.Logging); err != nil {
		return nil, errors.Wrap(err, "failed to process environment overrides")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &config, nil
}

// Validate checks the simulation parameters. A configuration that fails
// validation must never reach a running simulation.
func (c *Config) Validate() error {
	bs := c.BarberShop

	if bs.WaitingChairs < 0 {
		return errors.New("waiting_chairs must not be negative")
	}

	if bs.MinArrivalInterval <= 0 {
		return errors.New("min_arrival_interval must be greater than 0")
	}

	if bs.MaxArrivalInterval < bs.MinArrivalInterval {
		return errors.New("max_arrival_interval must not be less than min_arrival_interval")
	}

	if bs.MinHaircutTime <= 0 {
		return errors.New("min_haircut_time must be greater than 0")
	}

	if bs.MaxHaircutTime < bs.MinHaircutTime {
		return errors.New("max_haircut_time must not be less than min_haircut_time")
	}

	if bs.TotalCustomers <= 0 {
		return errors.New("total_customers must be greater than 0")
	}

	return nil
}
