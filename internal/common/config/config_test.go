// internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "localhost:6380")
	path := writeConfig(t, `
database:
  redis:
    address: ${TEST_REDIS_ADDR}
submission:
  base_url: https://listings.example.com
uploads:
  bucket: wizard-uploads
  region: ca-central-1
drafts:
  ttl: 3600
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6380", cfg.Database.Redis.Address)
	assert.Equal(t, "listing-wizard", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "wizard", cfg.Drafts.KeyPrefix)
	assert.Equal(t, time.Hour, cfg.DraftTTL())
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout())
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval())
	assert.Equal(t, "/api/properties", cfg.Submission.ListingPath)
	assert.Equal(t, "ca-central-1", cfg.Notifications.AWS.Region, "notification region falls back to the upload region")
	assert.False(t, cfg.Database.Postgres.Enabled())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Database.Redis.Address = "localhost:6379"
		cfg.Submission.BaseURL = "https://listings.example.com"
		cfg.Uploads.Bucket = "wizard-uploads"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing redis", mutate: func(c *Config) { c.Database.Redis.Address = "" }, wantErr: "database.redis.address"},
		{name: "missing base url", mutate: func(c *Config) { c.Submission.BaseURL = "" }, wantErr: "submission.base_url"},
		{name: "zeebe without broker", mutate: func(c *Config) { c.Submission.UseZeebe = true }, wantErr: "camunda.broker_address"},
		{name: "missing bucket", mutate: func(c *Config) { c.Uploads.Bucket = "" }, wantErr: "uploads.bucket"},
		{name: "email without sender", mutate: func(c *Config) { c.Notifications.Email.Enabled = true }, wantErr: "from_email"},
		{name: "negative ttl", mutate: func(c *Config) { c.Drafts.TTL = -1 }, wantErr: "drafts.ttl"},
		{name: "negative idle timeout", mutate: func(c *Config) { c.Sessions.IdleTimeout = -1 }, wantErr: "sessions.idle_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "wizard", Password: "pw", Database: "audit", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=wizard password=pw dbname=audit sslmode=disable", p.GetDSN())
	assert.True(t, p.Enabled())
}
