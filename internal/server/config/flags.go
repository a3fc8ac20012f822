package config

import (
	"flag"
	"os"
	"time"

	"github.com/innovatepam/ideatracker/internal/flagx"
)

var serverFlags = []string{
	"-a", "-g", "-d", "-s", "-t", "-m", "-w", "-k",
	"-log-level", "-log-format", "-log-backend", "-bcrypt-cost",
}

// parseFlags populates Config from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-t int      token lifetime, seconds
//	-m int      failed attempts that trigger a lock
//	-w int      failure counting window, minutes
//	-k int      lock duration, minutes
//	-log-level, -log-format, -log-backend string
//	-bcrypt-cost int  password hashing work factor
//
// os.Args is filtered with flagx.FilterArgs first so the -c / -env flags
// handled elsewhere do not make this flag set fail.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token secret key")

	tokenLifetime := fs.Int("t", int(config.TokenLifetime.Seconds()), "token lifetime (in seconds)")

	fs.IntVar(&config.MaxAttempts, "m", config.MaxAttempts, "failed attempts before lock")
	fs.IntVar(&config.WindowMinutes, "w", config.WindowMinutes, "failure window (in minutes)")
	fs.IntVar(&config.LockMinutes, "k", config.LockMinutes, "lock duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt work factor")

	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format: json or text")
	fs.StringVar(&config.LogBackend, "log-backend", config.LogBackend, "log backend: slog or zap")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenLifetime = secondsToDuration(*tokenLifetime)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
