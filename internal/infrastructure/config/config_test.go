package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "unl.edu.ec", cfg.Domain.InstitutionalEmailDomain)
	assert.Equal(t, "token_blacklist", cfg.Auth.BlacklistPrefix)
	assert.False(t, cfg.UserModule.Enabled())
	assert.Equal(t, "host=localhost port=5432 user=baloncesto password=baloncesto123 dbname=baloncesto_db sslmode=disable",
		cfg.Database.ConnectionString())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_NAME", "otra_db")
	t.Setenv("USER_MODULE_URL", "http://users.local")
	t.Setenv("INSTITUTIONAL_EMAIL_DOMAIN", "club.ec")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "otra_db", cfg.Database.Name)
	assert.True(t, cfg.UserModule.Enabled())
	assert.Equal(t, "club.ec", cfg.Domain.InstitutionalEmailDomain)
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_port: 9090
messaging:
  enabled: true
  exchange: eventos
`), 0o600))

	cfg, err := config.LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.True(t, cfg.Messaging.Enabled)
	assert.Equal(t, "eventos", cfg.Messaging.Exchange)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.HTTPPort = 8080
	cfg.Auth.JWTSecret = "change-this-in-production"
	cfg.App.Env = "production"
	cfg.Storage.Enabled = true

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be changed in production")
	assert.Contains(t, err.Error(), "storage.bucket")
}
