package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	req := require.New(t)

	cfg, err := Load("")
	req.NoError(err)

	req.Equal("0.0.0.0:5000", cfg.Server.Addr())
	req.Equal("localhost", cfg.Database.Host)
	req.Equal(5432, cfg.Database.Port)
	req.Equal("flask_db", cfg.Database.Name)
	req.Equal("flask_user", cfg.Database.User)
	req.Equal("supersecret", cfg.Database.Password)
	req.Equal(10, cfg.Database.ConnectAttempts)
	req.Equal(5*time.Second, cfg.Database.ConnectDelay)
	req.Equal(10*time.Second, cfg.Database.InitDelay)
	req.Equal(1, cfg.Database.RequestAttempts)
	req.Empty(cfg.Queue.Brokers)
	req.Equal("info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := []byte(`
database:
  host: db-from-file
  name: board
  connect_delay: 2s
queue:
  brokers: [k1:9092]
`)
	req.NoError(os.WriteFile(path, yml, 0o600))

	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASS", "hunter2")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(path)
	req.NoError(err)

	req.Equal("db", cfg.Database.Host)
	req.Equal("board", cfg.Database.Name)
	req.Equal("hunter2", cfg.Database.Password)
	req.Equal(2*time.Second, cfg.Database.ConnectDelay)
	req.Equal([]string{"k1:9092", "k2:9092"}, cfg.Queue.Brokers)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_RejectsZeroAttempts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_CONNECT_ATTEMPTS", "0")

	_, err := Load("")
	require.ErrorContains(t, err, "connect_attempts")
}

func TestLoad_KafkaBrokersFromEnvOnly(t *testing.T) {
	clearEnv(t)
	req := require.New(t)

	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")

	cfg, err := Load("")
	req.NoError(err)
	req.Equal([]string{"k1:9092", "k2:9092"}, cfg.Queue.Brokers)
}

func TestLoad_EmptyKafkaBrokersDisablesQueue(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Empty(t, cfg.Queue.Brokers)
}
