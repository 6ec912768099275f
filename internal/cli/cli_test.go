package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolatedEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scores.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_URL", dbPath)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("MEMORY_BOT_TOKEN", "")
	t.Setenv("LOG_LEVEL", "error")
	return dbPath
}

func TestMigrateCreatesDatabase(t *testing.T) {
	dbPath := isolatedEnv(t)

	out, err := run(t, "migrate", "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied (sqlite)")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// A second run finds nothing to do.
	_, err = run(t, "migrate", "--env-file", "")
	assert.NoError(t, err)
}

func TestMigrateReadsEnvFile(t *testing.T) {
	isolatedEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER=mysql\n"), 0o600))
	os.Unsetenv("DB_DRIVER")

	_, err := run(t, "migrate", "--env-file", envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_driver")
}

func TestBotRejectsUnknownGame(t *testing.T) {
	isolatedEnv(t)

	_, err := run(t, "bot", "tetris", "--env-file", "")
	assert.Error(t, err)

	_, err = run(t, "bot", "--env-file", "")
	assert.Error(t, err)
}

func TestBotRequiresToken(t *testing.T) {
	isolatedEnv(t)

	_, err := run(t, "bot", "memory", "--env-file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEMORY_BOT_TOKEN")
}
