package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
http_port = 8090

[database]
host = "db"
dbname = "salon_booking"
user = "booking"
serializable_retries = 5

[salon_service]
url = "http://salon:8081"

[user_service]
url = "http://users:8082"
timeout = 3

[rate_limit]
enabled = true
trusted_proxies = ["10.0.0.0/8"]

[booking]
timezone = "Europe/Moscow"

[jobs]
enabled = true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Database.SerializableRetries)
	assert.Equal(t, 3, cfg.UserService.Timeout)
	// значения по умолчанию сохраняются
	assert.Equal(t, 5, cfg.SalonService.Timeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "@every 10m", cfg.Jobs.CompletionCron)
	assert.Equal(t, "Europe/Moscow", cfg.Booking.Location().String())
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.RateLimit.TrustedProxies)
	assert.Equal(t, 600, cfg.RateLimit.IdleTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	cfg.Booking.Timezone = "Mars/Olympus"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Booking.Timezone = "UTC"
	cfg.SalonService.URL = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
