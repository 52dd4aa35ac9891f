package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Loads explicit values", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
http-port: "9191"
socket-port: "8181"
redis:
  host: localhost
  port: "6380"
`)

		cfg := MustLoad(path)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "9191", cfg.HTTPPort)
		assert.Equal(t, "8181", cfg.SocketPort)
		assert.Equal(t, "localhost:6380", cfg.Redis.GetRedisAddr())
	})

	t.Run("Falls back to defaults for missing fields", func(t *testing.T) {
		path := writeConfig(t, `log-level: info`)

		cfg := MustLoad(path)

		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, "8080", cfg.SocketPort)
	})

	t.Run("Panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}

func TestRedis_GetRedisAddr(t *testing.T) {
	t.Run("An empty host disables the archive", func(t *testing.T) {
		redis := Redis{Port: "6379"}

		assert.Empty(t, redis.GetRedisAddr())
	})

	t.Run("Joins host and port", func(t *testing.T) {
		redis := Redis{Host: "redis", Port: "6379"}

		assert.Equal(t, "redis:6379", redis.GetRedisAddr())
	})
}
