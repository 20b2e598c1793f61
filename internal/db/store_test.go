package db

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/hackgods/clinic-dashboard-api/internal/config"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := config.Config{StoreDriver: "sqlite", ConnectTimeout: time.Second}

	h, err := Open(context.Background(), cfg, zerolog.Nop())

	assert.Nil(t, h)
	assert.EqualError(t, err, `unsupported store driver "sqlite"`)
}

func TestOpen_BadPostgresDSN(t *testing.T) {
	cfg := config.Config{
		StoreDriver:    config.DriverPostgres,
		PostgresDSN:    "postgres://%zz",
		ConnectTimeout: time.Second,
	}

	h, err := Open(context.Background(), cfg, zerolog.Nop())

	assert.Nil(t, h)
	assert.ErrorContains(t, err, "parse postgres dsn")
}
