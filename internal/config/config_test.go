package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, 400.0, cfg.Simulation.FieldStrength)
	assert.Equal(t, 8192, cfg.Simulation.Resolution)
	assert.Equal(t, 16384, cfg.Simulation.MaxResolution)
	assert.Equal(t, "relative", cfg.Simulation.IntegrationPolicy)
	assert.Equal(t, 15.0, cfg.Simulation.TotalProtons)
	assert.Equal(t, "visual", cfg.Simulation.GroupingMode)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("FIELD_STRENGTH", "600")
	t.Setenv("STORAGE_BACKEND", "MINIO")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.Simulation.FieldStrength)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("GROUPING_MODE", "sideways")
	_, err := Load()
	assert.ErrorContains(t, err, "GROUPING_MODE")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage: StorageConfig{Backend: "s3"},
			Simulation: SimulationConfig{
				FieldStrength:     400,
				Resolution:        8192,
				MaxResolution:     16384,
				IntegrationPolicy: "relative",
				TotalProtons:      15,
				AromaticWindow:    0.05,
				AliphaticWindow:   0.1,
				GroupingMode:      "visual",
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero field", func(c *Config) { c.Simulation.FieldStrength = 0 }, "FIELD_STRENGTH"},
		{"negative resolution", func(c *Config) { c.Simulation.Resolution = -1 }, "RESOLUTION"},
		{"cap below default", func(c *Config) { c.Simulation.MaxResolution = 1024 }, "MAX_RESOLUTION"},
		{"zero protons", func(c *Config) { c.Simulation.TotalProtons = 0 }, "TOTAL_PROTONS"},
		{"zero window", func(c *Config) { c.Simulation.AromaticWindow = 0 }, "windows"},
		{"bad policy", func(c *Config) { c.Simulation.IntegrationPolicy = "guess" }, "INTEGRATION_POLICY"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "gcs" }, "STORAGE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
