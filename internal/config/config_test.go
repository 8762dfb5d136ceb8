package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "localhost"
user = "scheduler"
password = "from-file"
dbname = "scheduling"

[logs]
level = "debug"

[scheduling]
timezone = "Europe/Moscow"
therapist_daily_soft_limit = 6

[slot_lock]
backend = "redis"

[redis]
addr = "localhost:6379"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	t.Setenv(envDBPassword, "")
	os.Unsetenv(envDBPassword)

	cfg, err := Load(writeConfig(t, sampleConfig))

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "from-file", cfg.Database.Password)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.Scheduling.MaxBookingDuration())
	assert.Equal(t, 6, cfg.Scheduling.TherapistDailySoftLimit)
	assert.Equal(t, "Europe/Moscow", cfg.Scheduling.Location().String())
	assert.Equal(t, 3*time.Second, cfg.SlotLock.WaitTimeout())
	assert.Equal(t,
		"host=localhost port=5432 user=scheduler password=from-file dbname=scheduling sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv(envDBPassword, "from-env")
	t.Setenv(envStripeSecretKey, "sk_test_123")
	t.Setenv(envKafkaBrokers, "k1:9092,k2:9092")

	cfg, err := Load(writeConfig(t, sampleConfig))

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "sk_test_123", cfg.Payments.SecretKey)
	assert.Equal(t, "k1:9092,k2:9092", cfg.Notifications.Brokers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.Database.Host = "db"
		cfg.Database.User = "u"
		cfg.Database.DBName = "d"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown timezone", mutate: func(c *Config) { c.Scheduling.Timezone = "Mars/Olympus" }},
		{name: "zero ceiling", mutate: func(c *Config) { c.Scheduling.MaxBookingDurationHours = 0 }},
		{name: "negative soft limit", mutate: func(c *Config) { c.Scheduling.TherapistDailySoftLimit = -1 }},
		{name: "unknown lock backend", mutate: func(c *Config) { c.SlotLock.Backend = "etcd" }},
		{name: "redis without addr", mutate: func(c *Config) { c.SlotLock.Backend = SlotLockRedis }},
		{name: "payments without key", mutate: func(c *Config) { c.Payments.Enabled = true }},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Notifications.Enabled = true }},
		{name: "no database host", mutate: func(c *Config) { c.Database.Host = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
