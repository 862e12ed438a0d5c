package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg := FromViper(v)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"me"}, cfg.ReservedUsernames)
	assert.Equal(t, "log", cfg.MailBackend)
	assert.Equal(t, "confirmation_email", cfg.MailQueue)

	assert.EqualError(t, cfg.Validate(), "JWT_SECRET must be set")
	cfg.JWTSecret = "s"
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		v := viper.New()
		SetDefaults(v)
		cfg := FromViper(v)
		cfg.JWTSecret = "s"
		return cfg
	}

	cfg := valid()
	cfg.DatabaseDriver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.MailBackend = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RefreshTokenTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.ConfirmationCodeTTL = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yamdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"JWT_SECRET: from-file\nDATABASE_DRIVER: sqlite\nRESERVED_USERNAMES: \"me, admin\"\n"), 0o600))
	t.Setenv("APP_PORT", ":9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, ":9000", cfg.AppPort)
	assert.Equal(t, []string{"me", "admin"}, cfg.ReservedUsernames)

	t.Setenv("JWT_SECRET", "from-env")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
