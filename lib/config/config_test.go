package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "SQLITE_PATH", "ADMIN_KEY", "INDEX_SIZE", "DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSQLitePath, cfg.SQLitePath)
	assert.Equal(t, DefaultIndexSize, cfg.IndexSize)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://polls@localhost/polls")
	t.Setenv("ADMIN_KEY", "secret")
	t.Setenv("INDEX_SIZE", "10")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://polls@localhost/polls", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.AdminKey)
	assert.Equal(t, 10, cfg.IndexSize)
	assert.True(t, cfg.Debug)
}

func TestLoadInvalidIndexSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("INDEX_SIZE", "lots")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("ADMIN_KEY")
	os.Unsetenv("PORT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_KEY=from-file\nPORT=7000\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ADMIN_KEY")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AdminKey)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "8000", SQLitePath: "polls.sqlite", IndexSize: 5}
	assert.NoError(t, valid.Validate())

	badPort := valid
	badPort.Port = "eighty"
	assert.Error(t, badPort.Validate())

	noStore := valid
	noStore.SQLitePath = ""
	assert.Error(t, noStore.Validate())

	negative := valid
	negative.IndexSize = -1
	assert.Error(t, negative.Validate())
}

func TestGenerateAdminKey(t *testing.T) {
	a, err := GenerateAdminKey("polls")
	require.NoError(t, err)
	b, err := GenerateAdminKey("polls")
	require.NoError(t, err)

	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}
