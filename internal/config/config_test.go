package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every variable Load reads and points the dotenv lookup at an
// empty temp dir so the developer's own .env cannot leak into tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "LOG_LEVEL", "AZURE_STORAGE_CONNECTION_STRING", "ALLOWED_EXTENSIONS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ConnectionString)
	assert.Equal(t, []string{"jpg", "jpeg", "png", "pdf", "mp4"}, cfg.AllowedExtensions)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "  AccountName=a;AccountKey=aw==  ")
	t.Setenv("ALLOWED_EXTENSIONS", " .PNG, gif,,png ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "AccountName=a;AccountKey=aw==", cfg.ConnectionString)
	assert.Equal(t, []string{"png", "gif"}, cfg.AllowedExtensions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadDotEnvFile(t *testing.T) {
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), "gateway.env")
	require.NoError(t, os.WriteFile(envFile, []byte("AZURE_STORAGE_CONNECTION_STRING=UseDevelopmentStorage=true\nPORT=7070\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() {
		os.Unsetenv("AZURE_STORAGE_CONNECTION_STRING")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "UseDevelopmentStorage=true", cfg.ConnectionString)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--port", "6060"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel, "unset flag must not shadow the environment")
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, ConnectionString: "AccountName=a;AccountKey=aw==", AllowedExtensions: []string{"png"}}
	require.NoError(t, valid.Validate())

	badPort := valid
	badPort.Port = 70000
	assert.ErrorContains(t, badPort.Validate(), "invalid PORT")

	noCred := valid
	noCred.ConnectionString = ""
	assert.ErrorContains(t, noCred.Validate(), "AZURE_STORAGE_CONNECTION_STRING")

	noExt := valid
	noExt.AllowedExtensions = nil
	assert.ErrorContains(t, noExt.Validate(), "ALLOWED_EXTENSIONS")
}
