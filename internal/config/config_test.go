package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "RESET_DB", "REDIS_DB", "USER_DELETE_MODE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.False(t, cfg.ResetDB)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.CascadeUserDelete())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("RESET_DB", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("USER_DELETE_MODE", UserDeleteRestrict)

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.CascadeUserDelete())
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RESET_DB", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.ResetDB)
}
