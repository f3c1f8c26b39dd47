package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("loads every key", func(t *testing.T) {
		path := writeTempJSON(t, `{
			"endpoint_addr_grpc": "www.example:9000",
			"database_dsn": "postgres://json",
			"password_min_length": 9,
			"password_hasher": "bcrypt",
			"argon2_time": 3,
			"argon2_memory_kib": 1024,
			"argon2_threads": 1,
			"bcrypt_cost": 12,
			"token_key_bytes": 32,
			"log_level": "debug",
			"shutdown_timeout": "5s"
		}`)

		c := defaults()
		require.NoError(t, parseJson(c, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", c.EndpointAddrGRPC)
		assert.Equal(t, "postgres://json", c.DatabaseDSN)
		assert.Equal(t, 9, c.PasswordMinLength)
		assert.Equal(t, HasherBcrypt, c.PasswordHasher)
		assert.Equal(t, uint32(3), c.Argon2Time)
		assert.Equal(t, uint32(1024), c.Argon2MemoryKiB)
		assert.Equal(t, uint8(1), c.Argon2Threads)
		assert.Equal(t, 12, c.BcryptCost)
		assert.Equal(t, 32, c.TokenKeyBytes)
		assert.Equal(t, "debug", c.LogLevel)
		assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, `{"log_level": "warn"}`)

		c := defaults()
		require.NoError(t, parseJson(c, []string{"-c", path}))

		assert.Equal(t, "warn", c.LogLevel)
		assert.Equal(t, 8, c.PasswordMinLength)
		assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	})

	t.Run("no config flag is a no-op", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, nil))
		assert.Equal(t, defaults(), c)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeTempJSON(t, `{ this is not valid json`)
		assert.Error(t, parseJson(defaults(), []string{"-c", path}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(defaults(), []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}
