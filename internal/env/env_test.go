package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("SECCERT_TEST_STRING", "hello")
	t.Setenv("SECCERT_TEST_BLANK", "   ")
	t.Setenv("SECCERT_TEST_INT", "42")
	t.Setenv("SECCERT_TEST_BAD_INT", "forty")
	t.Setenv("SECCERT_TEST_BOOL", "false")
	t.Setenv("SECCERT_TEST_DURATION", "90s")

	assert.Equal(t, "hello", GetString("SECCERT_TEST_STRING", "x"))
	assert.Equal(t, "x", GetString("SECCERT_TEST_BLANK", "x"))
	assert.Equal(t, "x", GetString("SECCERT_TEST_UNSET", "x"))
	assert.Equal(t, 42, GetInt("SECCERT_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("SECCERT_TEST_BAD_INT", 1))
	assert.False(t, GetBool("SECCERT_TEST_BOOL", true))
	assert.True(t, GetBool("SECCERT_TEST_UNSET", true))
	assert.Equal(t, 90*time.Second, GetDuration("SECCERT_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDuration("SECCERT_TEST_UNSET", time.Second))
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECCERT_TEST_FROM_FILE=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SECCERT_TEST_FROM_FILE") })

	LoadEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "loaded", GetString("SECCERT_TEST_FROM_FILE", ""))
}
