package server

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/innovatepam/ideatracker/internal/server/config"
)

func validConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = strings.Repeat("k", config.MinSecretKeyLength)
	return c
}

func TestNewApp_RejectsWeakSecret(t *testing.T) {
	c := validConfig()
	c.SecretKey = "short"

	_, err := NewApp(context.Background(), c)
	require.ErrorIs(t, err, config.ErrWeakSecret)
}

func TestNewApp_RejectsUnknownLogBackend(t *testing.T) {
	c := validConfig()
	c.LogBackend = "syslog"

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "unknown log backend")
}

func TestNewApp_UnreachableDatabase(t *testing.T) {
	c := validConfig()
	c.BcryptCost = 4
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "db init error")
}
