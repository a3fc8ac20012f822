package config

import (
	"encoding/json"
	"os"

	"github.com/innovatepam/ideatracker/internal/flagx"
	"github.com/innovatepam/ideatracker/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Durations use timex.Duration so both "10s" and nanosecond integers parse;
// the token lifetime is expressed in whole seconds.
type JsonConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC     string         `json:"endpoint_addr_grpc"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	TokenLifetimeSeconds int            `json:"token_lifetime_seconds"`
	MaxAttempts          int            `json:"max_attempts"`
	WindowMinutes        int            `json:"window_minutes"`
	LockMinutes          int            `json:"lock_minutes"`
	BcryptCost           int            `json:"bcrypt_cost"`
	HTTPReadTimeout      timex.Duration `json:"http_read_timeout"`
	HTTPWriteTimeout     timex.Duration `json:"http_write_timeout"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	LogLevel             string         `json:"log_level"`
	LogFormat            string         `json:"log_format"`
	LogBackend           string         `json:"log_backend"`
}

// parseJson overlays values from the file named by -c / -config. Keys that are
// absent (zero) in the file leave the current value untouched. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogBackend, c.LogBackend)

	if c.TokenLifetimeSeconds > 0 {
		config.TokenLifetime = secondsToDuration(c.TokenLifetimeSeconds)
	}
	setInt(&config.MaxAttempts, c.MaxAttempts)
	setInt(&config.WindowMinutes, c.WindowMinutes)
	setInt(&config.LockMinutes, c.LockMinutes)
	setInt(&config.BcryptCost, c.BcryptCost)

	if c.HTTPReadTimeout.Duration > 0 {
		config.HTTPReadTimeout = c.HTTPReadTimeout.Duration
	}
	if c.HTTPWriteTimeout.Duration > 0 {
		config.HTTPWriteTimeout = c.HTTPWriteTimeout.Duration
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
