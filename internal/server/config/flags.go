package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/profiles/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-m int      minimum password length
//	-p string   password hasher: argon2id or bcrypt
//	-k int      random bytes per token key
//	-l string   log level
//
// Other arguments are filtered out first so the admin CLI can keep its own
// subcommands and positional arguments on the same command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-m", "-p", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.PasswordMinLength, "m", config.PasswordMinLength, "minimum password length")
	fs.StringVar(&config.PasswordHasher, "p", config.PasswordHasher, "password hasher (argon2id, bcrypt)")
	fs.IntVar(&config.TokenKeyBytes, "k", config.TokenKeyBytes, "random bytes per token key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
