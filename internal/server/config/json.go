package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/profiles/internal/flagx"
	"github.com/dmitrijs2005/profiles/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from zero values so a partial file only overrides
// the keys it names.
type JsonConfig struct {
	EndpointAddrGRPC  *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN       *string         `json:"database_dsn"`
	PasswordMinLength *int            `json:"password_min_length"`
	PasswordHasher    *string         `json:"password_hasher"`
	Argon2Time        *uint32         `json:"argon2_time"`
	Argon2MemoryKiB   *uint32         `json:"argon2_memory_kib"`
	Argon2Threads     *uint8          `json:"argon2_threads"`
	BcryptCost        *int            `json:"bcrypt_cost"`
	TokenKeyBytes     *int            `json:"token_key_bytes"`
	LogLevel          *string         `json:"log_level"`
	ShutdownTimeout   *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, onto config.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.PasswordMinLength, c.PasswordMinLength)
	set(&config.PasswordHasher, c.PasswordHasher)
	set(&config.Argon2Time, c.Argon2Time)
	set(&config.Argon2MemoryKiB, c.Argon2MemoryKiB)
	set(&config.Argon2Threads, c.Argon2Threads)
	set(&config.BcryptCost, c.BcryptCost)
	set(&config.TokenKeyBytes, c.TokenKeyBytes)
	set(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
