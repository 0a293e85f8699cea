package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htancensor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
	assert.False(t, cfg.RemoveDate)
	assert.Empty(t, cfg.ReplaceDate)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
output_format: JSON
log_format: json
replace_date: "1970:01:01 00:00:00"
workers: 8
extensions: [svs, ".NDPI"]
`)
	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "1970:01:01 00:00:00", cfg.ReplaceDate)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{".svs", ".ndpi"}, cfg.Extensions)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "workers: 2\n")
	t.Setenv("HTANCENSOR_WORKERS", "6")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
}

func TestFlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "output_format: yaml\nworkers: 2\n")
	t.Setenv("HTANCENSOR_WORKERS", "6")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "")
	flags.Int("workers", 1, "")
	flags.Bool("remove-date", false, "")
	require.NoError(t, flags.Parse([]string{"--workers", "3", "--remove-date"}))

	v := New()
	require.NoError(t, BindFlags(v, flags))
	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.RemoveDate)
	assert.Equal(t, "yaml", cfg.OutputFormat, "unchanged flags do not shadow the file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{OutputFormat: "table", LogFormat: "text", LogLevel: "info", Workers: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output format"},
		{"bad log format", func(c *Config) { c.LogFormat = "logfmt" }, "invalid log format"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "invalid worker count"},
		{"both modes", func(c *Config) {
			c.RemoveDate = true
			c.ReplaceDate = "1970:01:01 00:00:00"
		}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
