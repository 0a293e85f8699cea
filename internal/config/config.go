package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every htancensor command. Values come
// from defaults, the htancensor config file, HTANCENSOR_* environment
// variables and bound command-line flags, in increasing precedence.
type Config struct {
	OutputFormat  string   `mapstructure:"output_format"`
	LogFormat     string   `mapstructure:"log_format"`
	LogLevel      string   `mapstructure:"log_level"`
	Verbose       bool     `mapstructure:"verbose"`
	Quiet         bool     `mapstructure:"quiet"`
	RemoveDate    bool     `mapstructure:"remove_date"`
	ReplaceDate   string   `mapstructure:"replace_date"`
	DryRun        bool     `mapstructure:"dry_run"`
	SkipUnchanged bool     `mapstructure:"skip_unchanged"`
	Workers       int      `mapstructure:"workers"`
	Extensions    []string `mapstructure:"extensions"`
}

// FlagKeys maps config keys to the command-line flag that overrides them.
var FlagKeys = map[string]string{
	"output_format":  "output",
	"log_format":     "log-format",
	"verbose":        "verbose",
	"quiet":          "quiet",
	"remove_date":    "remove-date",
	"replace_date":   "replace-date",
	"dry_run":        "dry-run",
	"skip_unchanged": "skip-unchanged",
	"workers":        "workers",
	"extensions":     "ext",
}

// DefaultExtensions are the slide file suffixes picked up by batch runs.
var DefaultExtensions = []string{".svs", ".tif", ".tiff", ".ndpi"}

// New returns a viper instance with htancensor's search paths, defaults and
// environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("htancensor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.htancensor")
	v.AddConfigPath("/etc/htancensor")

	v.SetDefault("output_format", "table")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("remove_date", false)
	v.SetDefault("replace_date", "")
	v.SetDefault("dry_run", false)
	v.SetDefault("skip_unchanged", false)
	v.SetDefault("workers", 4)
	v.SetDefault("extensions", DefaultExtensions)

	v.SetEnvPrefix("HTANCENSOR")
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in flags that has a config key. Flags the
// command does not define are left to the file, environment and defaults.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file and unmarshals the merged settings. An explicit
// file must exist; a missing file on the search path is fine.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize lower-cases enumerations and makes every extension dot-prefixed.
func (c *Config) normalize() {
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	c.LogFormat = strings.ToLower(c.LogFormat)
	c.LogLevel = strings.ToLower(c.LogLevel)

	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Extensions = exts
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q: must be table, json or yaml", c.OutputFormat)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid worker count %d: must be at least 1", c.Workers)
	}
	if c.RemoveDate && c.ReplaceDate != "" {
		return fmt.Errorf("remove_date and replace_date are mutually exclusive")
	}
	return nil
}
