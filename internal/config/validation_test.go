package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment: "test",
		Port:        "8080",
		Host:        "localhost",
		Gallery: GalleryConfig{
			BaseURL:      "https://example.com/art",
			ProbeNames:   DefaultProbeNames,
			Workers:      4,
			MaxImageSize: 1024 * 1024,
		},
		Logging: &LoggingConfig{Level: "info", Format: "json"},
		Server: &ServerConfig{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		errField string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:     "invalid port",
			mutate:   func(c *Config) { c.Port = "99999" },
			wantErr:  true,
			errField: "Port",
		},
		{
			name:     "relative manifest URL",
			mutate:   func(c *Config) { c.Gallery.ManifestURL = "gallery.json" },
			wantErr:  true,
			errField: "Gallery.ManifestURL",
		},
		{
			name:     "zero workers",
			mutate:   func(c *Config) { c.Gallery.Workers = 0 },
			wantErr:  true,
			errField: "Gallery.Workers",
		},
		{
			name:     "storage enabled without bucket",
			mutate:   func(c *Config) { c.Storage.Enabled = true; c.Storage.Endpoint = "localhost:9000" },
			wantErr:  true,
			errField: "Storage.BucketName",
		},
		{
			name: "cache enabled without address",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.DefaultTTL = time.Minute
			},
			wantErr:  true,
			errField: "Cache.Address",
		},
		{
			name:     "non-postgres database URL",
			mutate:   func(c *Config) { c.DatabaseURL = "mysql://localhost/db" },
			wantErr:  true,
			errField: "DatabaseURL",
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.Logging.Level = "verbose" },
			wantErr:  true,
			errField: "Logging.Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errField),
				"expected error mentioning %s, got: %v", tt.errField, err)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var ve ValidationErrors
	assert.Equal(t, "no validation errors", ve.Error())
	assert.False(t, ve.Has())

	ve = append(ve, ValidationError{Field: "Port", Value: "x", Message: "bad"})
	assert.True(t, ve.Has())
	assert.Contains(t, ve.Error(), "Port")
}
