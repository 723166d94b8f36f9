package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDB struct {
	DSN string `env:"TEST_DB_DSN"`
}

func (d *testDB) Validate() error {
	if d.DSN == "" {
		return errors.New("TEST_DB_DSN is required")
	}
	return nil
}

type testConfig struct {
	Database testDB
	Port     string        `env:"TEST_PORT"`
	Workers  int           `env:"TEST_WORKERS"`
	Debug    bool          `env:"TEST_DEBUG"`
	Timeout  time.Duration `env:"TEST_TIMEOUT"`
	ignored  string        `env:"TEST_IGNORED"` //nolint:unused // unexported fields are skipped
}

func TestLoad_AllTypes(t *testing.T) {
	t.Setenv("TEST_DB_DSN", "postgres://localhost/test")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_WORKERS", "4")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_TIMEOUT", "45s")

	cfg := &testConfig{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoad_UnsetLeavesZeroValue(t *testing.T) {
	t.Setenv("TEST_DB_DSN", "postgres://localhost/test")

	cfg := &testConfig{Port: "8080"}
	require.NoError(t, Load(cfg))
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("TEST_DB_DSN", "postgres://localhost/test")
	t.Setenv("TEST_WORKERS", "four")

	err := Load(&testConfig{})
	require.Error(t, err)

	var invalid ErrInvalidValue
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "TEST_WORKERS", invalid.EnvVar)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TEST_DB_DSN", "postgres://localhost/test")
	t.Setenv("TEST_TIMEOUT", "45")

	err := Load(&testConfig{})
	require.Error(t, err)
}

func TestLoad_NestedValidatorRuns(t *testing.T) {
	err := Load(&testConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_DB_DSN is required")
}

func TestLoad_NotStructPointer(t *testing.T) {
	var s string
	err := Load(s)
	require.Error(t, err)

	var notStruct ErrNotStructPointer
	assert.True(t, errors.As(err, &notStruct))
}
