package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
barber_shop:
  waiting_chairs: 3
  min_arrival_interval: 200ms
  max_arrival_interval: 900ms
  min_haircut_time: 300ms
  max_haircut_time: 1200ms
  total_customers: 20
logging:
  log_level: info
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.BarberShop.WaitingChairs)
	assert.Equal(t, 200*time.Millisecond, cfg.BarberShop.MinArrivalInterval.Duration())
	assert.Equal(t, 900*time.Millisecond, cfg.BarberShop.MaxArrivalInterval.Duration())
	assert.Equal(t, 300*time.Millisecond, cfg.BarberShop.MinHaircutTime.Duration())
	assert.Equal(t, 1200*time.Millisecond, cfg.BarberShop.MaxHaircutTime.Duration())
	assert.Equal(t, 20, cfg.BarberShop.TotalCustomers)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "barber_shop: ["))
	assert.Error(t, err)
}

func TestLoadConfigBadDuration(t *testing.T) {
	bad := `
barber_shop:
  waiting_chairs: 1
  min_arrival_interval: soon
  max_arrival_interval: 900ms
  min_haircut_time: 300ms
  max_haircut_time: 1200ms
  total_customers: 5
`
	_, err := LoadConfig(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("BARBER_WAITING_CHAIRS", "7")
	t.Setenv("BARBER_MAX_HAIRCUT_TIME", "2s")

	cfg, err := LoadConfig(writeConfig(t, validYAML))

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.BarberShop.WaitingChairs)
	assert.Equal(t, 2*time.Second, cfg.BarberShop.MaxHaircutTime.Duration())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			BarberShop: BarberShopConfig{
				WaitingChairs:      2,
				MinArrivalInterval: Duration(100 * time.Millisecond),
				MaxArrivalInterval: Duration(200 * time.Millisecond),
				MinHaircutTime:     Duration(100 * time.Millisecond),
				MaxHaircutTime:     Duration(200 * time.Millisecond),
				TotalCustomers:     5,
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero chairs allowed", func(t *testing.T) {
		cfg := base()
		cfg.BarberShop.WaitingChairs = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("negative chairs", func(t *testing.T) {
		cfg := base()
		cfg.BarberShop.WaitingChairs = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("arrival min greater than max", func(t *testing.T) {
		cfg := base()
		cfg.BarberShop.MinArrivalInterval = Duration(time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Run("haircut min greater than max", func(t *testing.T) {
		cfg := base()
		cfg.BarberShop.MinHaircutTime = Duration(time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero arrival interval", func(t *testing.T) {
		cfg := base()
		cfg.BarberShop.MinArrivalInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero customers", func(t *testing.T) {
		cfg := base()
		cfg.BarberShop.TotalCustomers = 0
		assert.Error(t, cfg.Validate())
	})
}
