package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogly/internal/config"
	"blogly/internal/model"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_CreatesSchema(t *testing.T) {
	gdb, err := Open(&config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "blogly.db"),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb, false))

	m := gdb.Migrator()
	assert.True(t, m.HasTable(&model.User{}))
	assert.True(t, m.HasTable(&model.Post{}))
	assert.True(t, m.HasTable(&model.Tag{}))
	assert.True(t, m.HasTable("posts_tags"))
	assert.True(t, m.HasColumn(&model.Tag{}, "version"))
	assert.True(t, m.HasColumn(&model.Post{}, "version"))
}

func TestMigrate_ResetDropsData(t *testing.T) {
	gdb, err := NewSQLite(filepath.Join(t.TempDir(), "blogly.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb, false))

	require.NoError(t, gdb.Create(&model.Tag{Name: "go"}).Error)

	require.NoError(t, Migrate(gdb, true))

	var count int64
	require.NoError(t, gdb.Model(&model.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMigrate_Idempotent(t *testing.T) {
	gdb, err := NewSQLite(filepath.Join(t.TempDir(), "blogly.db"))
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb, false))
	require.NoError(t, Migrate(gdb, false))
}
