package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/innovatepam/ideatracker/internal/flagx"
)

// EnvPrefix namespaces every environment variable read by the server.
const EnvPrefix = "IDEATRACKER_"

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file (the -env flag, or ./.env when present) into
// the process environment without overriding variables that are already set,
// then copies IDEATRACKER_* variables into config.
//
// A missing default .env is fine; an explicitly requested file that cannot be
// read, or a malformed value, panics like the other loaders do.
func parseEnv(config *Config) {
	path := flagx.EnvFileFlag()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(err)
			}
			*dst = n
		}
	}

	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)
	str("LOG_BACKEND", &config.LogBackend)

	lifetime := int(config.TokenLifetime.Seconds())
	num("TOKEN_LIFETIME_SECONDS", &lifetime)
	config.TokenLifetime = time.Duration(lifetime) * time.Second

	num("MAX_ATTEMPTS", &config.MaxAttempts)
	num("WINDOW_MINUTES", &config.WindowMinutes)
	num("LOCK_MINUTES", &config.LockMinutes)
	num("BCRYPT_COST", &config.BcryptCost)
}
