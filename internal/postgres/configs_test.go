package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()
	assert.Equal(t, "localhost", cfg.Connection.Host)
	assert.Equal(t, "5432", cfg.Connection.Port)
	assert.Equal(t, "inventory_user", cfg.Connection.User)
	assert.Equal(t, "inventario", cfg.Connection.DbName)
	assert.Equal(t, "disable", cfg.Connection.SSLMode)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("DB_MAX_OPEN_CONNS", "15")

	cfg := NewConfig()
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, "6432", cfg.Connection.Port)
	assert.Equal(t, "catalog", cfg.Connection.DbName)
	assert.Equal(t, 15, cfg.ConnectionDetails.MaxOpenConns)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Connection: Connection{Host: "h", User: "u", DbName: "d"}}
	require.NoError(t, valid.Validate())

	missingHost := Config{Connection: Connection{User: "u", DbName: "d"}}
	assert.Error(t, missingHost.Validate())

	missingDb := Config{Connection: Connection{Host: "h", User: "u"}}
	assert.Error(t, missingDb.Validate())

	missingUser := Config{Connection: Connection{Host: "h", DbName: "d"}}
	assert.Error(t, missingUser.Validate())
}
